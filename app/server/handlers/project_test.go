package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"personal-site-api/app/server/models"
	"personal-site-api/app/server/types"
	"strings"
	"testing"
)

func TestProjectCreateThenPatch(t *testing.T) {
	env := newTestEnv(t)
	token := env.token()

	rec := env.do(http.MethodPost, "/api/v1/projects", `{"title":"A","image":"","tags":[]}`, token)
	expectStatus(t, rec, http.StatusCreated)
	created := decode[models.Project](t, rec)

	if created.ID == 0 {
		t.Errorf("ID = 0, want server assigned")
	}
	if created.Order != "0" {
		t.Errorf("Order = %q, want %q", created.Order, "0")
	}
	if created.Category != "Web" {
		t.Errorf("Category = %q, want %q", created.Category, "Web")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("CreatedAt = %v, UpdatedAt = %v, want equal", created.CreatedAt, created.UpdatedAt)
	}
	if created.GithubURL != nil || created.LiveURL != nil {
		t.Errorf("urls = %v / %v, want nil", created.GithubURL, created.LiveURL)
	}

	rec = env.do(http.MethodPatch, fmt.Sprintf("/api/v1/projects/%d", created.ID), `{"description":"new"}`, token)
	expectStatus(t, rec, http.StatusOK)
	patched := decode[models.Project](t, rec)

	if patched.ID != created.ID || patched.Title != "A" {
		t.Errorf("identity changed: %+v", patched)
	}
	if patched.Description != "new" {
		t.Errorf("Description = %q, want %q", patched.Description, "new")
	}
	if !patched.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want after %v", patched.UpdatedAt, created.UpdatedAt)
	}
	if !patched.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed from %v to %v", created.CreatedAt, patched.CreatedAt)
	}
}

func TestProjectPatchNullableURLs(t *testing.T) {
	env := newTestEnv(t)
	token := env.token()

	rec := env.do(http.MethodPost, "/api/v1/projects", `{"title":"A","github_url":"https://github.com/x/y","live_url":"https://x.dev"}`, token)
	expectStatus(t, rec, http.StatusCreated)
	created := decode[models.Project](t, rec)
	if created.GithubURL == nil || *created.GithubURL != "https://github.com/x/y" {
		t.Fatalf("GithubURL = %v", created.GithubURL)
	}

	rec = env.do(http.MethodPatch, fmt.Sprintf("/api/v1/projects/%d", created.ID), `{"github_url":null}`, token)
	expectStatus(t, rec, http.StatusOK)
	patched := decode[models.Project](t, rec)

	if patched.GithubURL != nil {
		t.Errorf("GithubURL = %v, want nil", *patched.GithubURL)
	}
	if patched.LiveURL == nil || *patched.LiveURL != "https://x.dev" {
		t.Errorf("LiveURL = %v, want untouched", patched.LiveURL)
	}
}

func TestProjectListOrder(t *testing.T) {
	env := newTestEnv(t)
	token := env.token()

	// 创建顺序决定 updated_at ，越晚越新
	for _, body := range []string{
		`{"title":"first-zero"}`,
		`{"title":"one","order":"1"}`,
		`{"title":"second-zero","order":"0"}`,
	} {
		expectStatus(t, env.do(http.MethodPost, "/api/v1/projects", body, token), http.StatusCreated)
	}

	// 列表是公开的
	rec := env.do(http.MethodGet, "/api/v1/projects", "", "")
	expectStatus(t, rec, http.StatusOK)
	res := decode[types.PageResponse[models.Project]](t, rec)

	var titles []string
	for _, p := range res.Items {
		titles = append(titles, p.Title)
	}
	want := "second-zero,first-zero,one"
	if got := strings.Join(titles, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
	if res.Total != 3 {
		t.Errorf("Total = %d, want 3", res.Total)
	}
}

func TestProjectGet(t *testing.T) {
	env := newTestEnv(t)

	expectStatus(t, env.do(http.MethodGet, "/api/v1/projects/1", "", ""), http.StatusNotFound)

	expectStatus(t, env.do(http.MethodPost, "/api/v1/projects", `{"title":"A"}`, env.token()), http.StatusCreated)

	rec := env.do(http.MethodGet, "/api/v1/projects/1", "", "")
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.Project](t, rec).Title; got != "A" {
		t.Errorf("Title = %q, want %q", got, "A")
	}
}

func TestProjectWritesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	expectStatus(t, env.do(http.MethodPost, "/api/v1/projects", `{"title":"A"}`, ""), http.StatusUnauthorized)
	expectStatus(t, env.do(http.MethodPatch, "/api/v1/projects/1", `{"title":"A"}`, ""), http.StatusUnauthorized)
	expectStatus(t, env.do(http.MethodDelete, "/api/v1/projects/1", "", ""), http.StatusUnauthorized)
}

func TestProjectDeleteRemovesManagedImage(t *testing.T) {
	env := newTestEnv(t)
	token := env.token()

	rec := env.upload(pngBytes(t, 20, 10, false), "image/png", token)
	expectStatus(t, rec, http.StatusOK)
	imageURL := decode[types.UploadResponse](t, rec).ImageURL
	imagePath := filepath.Join(env.uploadDir, strings.TrimPrefix(imageURL, "/uploads/"))
	if _, err := os.Stat(imagePath); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	rec = env.do(http.MethodPost, "/api/v1/projects", fmt.Sprintf(`{"title":"A","image":%q}`, imageURL), token)
	expectStatus(t, rec, http.StatusCreated)
	project := decode[models.Project](t, rec)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d", project.ID), "", token)
	expectStatus(t, rec, http.StatusOK)
	if !decode[types.OK](t, rec).OK {
		t.Errorf("ok = false, want true")
	}

	if _, err := os.Stat(imagePath); !os.IsNotExist(err) {
		t.Errorf("image file still exists after delete: %v", err)
	}
	if err := env.db.First(&models.Project{}, project.ID).Error; err == nil {
		t.Errorf("project row still exists after delete")
	}
}

func TestProjectDeleteExternalImageLeavesFiles(t *testing.T) {
	env := newTestEnv(t)
	token := env.token()

	// 目录下已有一个不相关的文件
	keep := filepath.Join(env.uploadDir, "keep.jpg")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	for _, image := range []string{"https://cdn.example.com/keep.jpg", "/uploads/../keep.jpg", "/static/keep.jpg"} {
		rec := env.do(http.MethodPost, "/api/v1/projects", fmt.Sprintf(`{"title":"A","image":%q}`, image), token)
		expectStatus(t, rec, http.StatusCreated)
		project := decode[models.Project](t, rec)

		expectStatus(t, env.do(http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d", project.ID), "", token), http.StatusOK)
	}

	entries, err := os.ReadDir(env.uploadDir)
	if err != nil {
		t.Fatalf("failed to read upload dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "keep.jpg" {
		t.Errorf("upload dir entries changed: %v", entries)
	}
}

func TestProjectDeleteMissingImageFileStillSucceeds(t *testing.T) {
	env := newTestEnv(t)
	token := env.token()

	rec := env.do(http.MethodPost, "/api/v1/projects", `{"title":"A","image":"/uploads/gone.jpg"}`, token)
	expectStatus(t, rec, http.StatusCreated)
	project := decode[models.Project](t, rec)

	expectStatus(t, env.do(http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d", project.ID), "", token), http.StatusOK)
	expectStatus(t, env.do(http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", project.ID), "", ""), http.StatusNotFound)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"personal-site-api/app/server/auth"
	"personal-site-api/app/server/images"
	"personal-site-api/app/server/inits"
	"personal-site-api/app/server/jwt"
	"sync"
	"testing"
	"time"
)

const (
	testAdminUsername = "admin"
	testAdminPassword = "s3cret-password"
)

// stepClock 每次调用前进一秒，保证时间戳严格递增
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type testEnv struct {
	t         *testing.T
	e         *echo.Echo
	app       *App
	db        *gorm.DB
	authn     *auth.Authenticator
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	db, err := inits.DB("sqlite", filepath.Join(dir, "test.db"), false)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	j, err := jwt.New("test-signature-key")
	if err != nil {
		t.Fatalf("failed to init jwt: %v", err)
	}
	authn, err := auth.New(auth.Credentials{
		Username: testAdminUsername,
		Password: testAdminPassword,
	}, j, 30*time.Minute)
	if err != nil {
		t.Fatalf("failed to init authenticator: %v", err)
	}

	uploadDir := filepath.Join(dir, "uploads")
	imgs, err := images.New(images.Options{
		Dir:          uploadDir,
		PublicPrefix: "/uploads",
		MaxWidth:     800,
		MaxHeight:    800,
		Quality:      85,
		Extension:    ".jpg",
	})
	if err != nil {
		t.Fatalf("failed to init image normalizer: %v", err)
	}

	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	app := NewApp(zaptest.NewLogger(t), db, authn, auth.NewMemoryLimiter(3, time.Minute), imgs).WithClock(clock.Now)

	e := echo.New()
	e.HTTPErrorHandler = app.HTTPErrorHandler
	app.RegisterHandlers(e)

	return &testEnv{
		t:         t,
		e:         e,
		app:       app,
		db:        db,
		authn:     authn,
		uploadDir: uploadDir,
	}
}

func (env *testEnv) token() string {
	env.t.Helper()
	token, _, err := env.authn.IssueToken(testAdminUsername, testAdminPassword)
	if err != nil {
		env.t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

// do 发送请求， token 为空时匿名
func (env *testEnv) do(method string, target string, body string, token string) *httptest.ResponseRecorder {
	env.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) upload(data []byte, contentType string, token string) *httptest.ResponseRecorder {
	env.t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="picture.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		env.t.Fatalf("failed to create part: %v", err)
	}
	if _, err = part.Write(data); err != nil {
		env.t.Fatalf("failed to write part: %v", err)
	}
	if err = w.Close(); err != nil {
		env.t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/image", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, want, rec.Body.String())
	}
}

func pngBytes(t *testing.T, w, h int, withAlpha bool) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(255)
			if withAlpha && x < w/2 {
				a = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: a})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

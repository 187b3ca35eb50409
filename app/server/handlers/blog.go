package handlers

import (
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
	"personal-site-api/app/server/middlewares"
	"personal-site-api/app/server/models"
	"personal-site-api/app/server/types"
	"strings"
	"time"
)

var errInvalidPatch = errors.New("invalid patch")

// blogPostMapFields 只处理请求中出现的字段， updated_at 每次都会刷新
func blogPostMapFields(req *types.BlogPostPatch, post *models.BlogPost, now time.Time) {
	req.Title.Apply(&post.Title)
	req.Excerpt.Apply(&post.Excerpt)
	req.Content.Apply(&post.Content)
	if req.Tags.Set {
		post.Tags = nonNilTags(req.Tags.Value)
	}
	req.IsPublished.Apply(&post.IsPublished)

	post.UpdatedAt = now
}

func blogPostOrder(db *gorm.DB) *gorm.DB {
	// 创建时间相同时按插入顺序
	return db.Order("created_at DESC").Order("id ASC")
}

func (a *App) BlogList(c echo.Context) error {
	rctx := c.Request().Context()

	p, err := parsePagination(c.QueryParam("page"), c.QueryParam("size"))
	if err != nil {
		return a.er(c, http.StatusBadRequest, err.Error())
	}

	res, err := paginate[models.BlogPost](
		a.db.WithContext(rctx),
		p,
		visibleTo(middlewares.Principal(c)),
		blogPostOrder,
	)
	if err != nil {
		a.l.Error("failed to get blog post list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, res)
}

func (a *App) BlogGet(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest, err.Error())
	}

	rctx := c.Request().Context()

	var post models.BlogPost
	if err := a.db.WithContext(rctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound, "Post not found")
		} else {
			a.l.Error("failed to get blog post", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 草稿对匿名访问者表现为不存在
	if !isVisible(&post, middlewares.Principal(c)) {
		return a.er(c, http.StatusNotFound, "Post not found")
	}

	return c.JSON(http.StatusOK, &post)
}

func (a *App) BlogCreate(c echo.Context) error {
	rctx := c.Request().Context()

	body, err := readBody(c)
	if err != nil {
		a.l.Error("failed to read request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	var req types.BlogPostPatch
	if err = decodeBody(body, &req); err != nil {
		return a.er(c, http.StatusBadRequest, err.Error())
	}

	// 创建
	now := a.timestamp()
	post := models.BlogPost{
		Tags:      []string{},
		CreatedAt: now,
	}
	blogPostMapFields(&req, &post, now)

	if strings.TrimSpace(post.Title) == "" {
		return a.er(c, http.StatusBadRequest, "title is required")
	}

	if err := a.db.WithContext(rctx).Create(&post).Error; err != nil {
		a.l.Error("failed to create blog post", zap.Any("post", post), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, &post)
}

func (a *App) BlogUpdate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest, err.Error())
	}

	rctx := c.Request().Context()

	body, err := readBody(c)
	if err != nil {
		a.l.Error("failed to read request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	var post models.BlogPost
	if err = a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		// 先确认存在，再解析请求体
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			return err
		}

		var req types.BlogPostPatch
		if err := decodeBody(body, &req); err != nil {
			return fmt.Errorf("%w: %v", errInvalidPatch, err)
		}

		blogPostMapFields(&req, &post, a.timestamp())

		return tx.Save(&post).Error
	}); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return a.er(c, http.StatusNotFound, "Post not found")
		case errors.Is(err, errInvalidPatch):
			return a.er(c, http.StatusBadRequest, err.Error())
		default:
			a.l.Error("failed to update blog post", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	return c.JSON(http.StatusOK, &post)
}

func (a *App) BlogDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest, err.Error())
	}

	rctx := c.Request().Context()

	// 删除
	if err = a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		var post models.BlogPost
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound, "Post not found")
		}
		a.l.Error("failed to delete blog post", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, &types.OK{OK: true})
}

package handlers

import (
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"net/http"
	"personal-site-api/app/server/constants"
	"personal-site-api/app/server/models"
	"personal-site-api/app/server/types"
	"strings"
	"time"
)

func projectMapFields(req *types.ProjectPatch, project *models.Project, now time.Time) {
	req.Title.Apply(&project.Title)
	req.Description.Apply(&project.Description)
	req.Category.Apply(&project.Category)
	req.Image.Apply(&project.Image)
	if req.Tags.Set {
		project.Tags = nonNilTags(req.Tags.Value)
	}
	req.GithubURL.ApplyPtr(&project.GithubURL)
	req.LiveURL.ApplyPtr(&project.LiveURL)
	req.Order.Apply(&project.Order)

	project.UpdatedAt = now
}

func projectOrder(db *gorm.DB) *gorm.DB {
	// order 是保留字，交给方言处理引号
	return db.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "updated_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
}

func (a *App) ProjectList(c echo.Context) error {
	rctx := c.Request().Context()

	p, err := parsePagination(c.QueryParam("page"), c.QueryParam("size"))
	if err != nil {
		return a.er(c, http.StatusBadRequest, err.Error())
	}

	res, err := paginate[models.Project](a.db.WithContext(rctx), p, noFilter, projectOrder)
	if err != nil {
		a.l.Error("failed to get project list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, res)
}

func (a *App) ProjectGet(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest, err.Error())
	}

	rctx := c.Request().Context()

	var project models.Project
	if err := a.db.WithContext(rctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound, "Project not found")
		} else {
			a.l.Error("failed to get project", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	return c.JSON(http.StatusOK, &project)
}

func (a *App) ProjectCreate(c echo.Context) error {
	rctx := c.Request().Context()

	body, err := readBody(c)
	if err != nil {
		a.l.Error("failed to read request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	var req types.ProjectPatch
	if err = decodeBody(body, &req); err != nil {
		return a.er(c, http.StatusBadRequest, err.Error())
	}

	// 创建，未提供的字段使用默认值
	now := a.timestamp()
	project := models.Project{
		Category:  constants.ProjectCategoryDefault,
		Tags:      []string{},
		Order:     constants.ProjectOrderDefault,
		CreatedAt: now,
	}
	projectMapFields(&req, &project, now)

	if strings.TrimSpace(project.Title) == "" {
		return a.er(c, http.StatusBadRequest, "title is required")
	}

	if err := a.db.WithContext(rctx).Create(&project).Error; err != nil {
		a.l.Error("failed to create project", zap.Any("project", project), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, &project)
}

func (a *App) ProjectUpdate(c echo.Context) error {
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

	var project models.Project
	if err = a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, "id = ?", id).Error; err != nil {
			return err
		}

		var req types.ProjectPatch
		if err := decodeBody(body, &req); err != nil {
			return fmt.Errorf("%w: %v", errInvalidPatch, err)
		}

		projectMapFields(&req, &project, a.timestamp())

		return tx.Save(&project).Error
	}); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return a.er(c, http.StatusNotFound, "Project not found")
		case errors.Is(err, errInvalidPatch):
			return a.er(c, http.StatusBadRequest, err.Error())
		default:
			a.l.Error("failed to update project", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	return c.JSON(http.StatusOK, &project)
}

func (a *App) ProjectDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest, err.Error())
	}

	rctx := c.Request().Context()

	// 删除数据库记录
	var project models.Project
	if err = a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound, "Project not found")
		}
		a.l.Error("failed to delete project", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 记录已经删除，图片清理失败只记录日志，不回滚
	if project.Image != "" {
		if removed, err := a.images.Remove(project.Image); err != nil {
			a.l.Warn("failed to remove project image", zap.Uint("id", id), zap.String("image", project.Image), zap.Error(err))
		} else if removed {
			a.l.Debug("project image removed", zap.Uint("id", id), zap.String("image", project.Image))
		}
	}

	return c.JSON(http.StatusOK, &types.OK{OK: true})
}

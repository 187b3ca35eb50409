package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"personal-site-api/app/server/types"
)

const (
	CategoryValidation      = "validation_error"
	CategoryAuth            = "auth_error"
	CategoryNotFound        = "not_found"
	CategoryTooManyRequests = "too_many_requests"
	CategoryProcessing      = "processing_error"
	CategoryStorage         = "storage_error"
)

func category(statusCode int) string {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return CategoryAuth
	case statusCode == http.StatusNotFound:
		return CategoryNotFound
	case statusCode == http.StatusTooManyRequests:
		return CategoryTooManyRequests
	case statusCode == http.StatusUnprocessableEntity:
		return CategoryProcessing
	case statusCode >= 500:
		return CategoryStorage
	default:
		return CategoryValidation
	}
}

// er 返回统一的错误结构，不指定 message 时使用状态码的默认描述
func (a *App) er(c echo.Context, statusCode int, message ...string) error {
	msg := http.StatusText(statusCode)
	if len(message) > 0 {
		msg = message[0]
	}
	if statusCode == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}

	return c.JSON(statusCode, &types.ErrorMessage{
		Error:   category(statusCode),
		Message: msg,
	})
}

// HTTPErrorHandler 处理中间件与路由产生的错误，保持与 er 一样的结构
func (a *App) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	statusCode := http.StatusInternalServerError
	message := http.StatusText(statusCode)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		statusCode = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(statusCode)
		}
	} else {
		a.l.Error("unhandled error", zap.String("URI", c.Request().RequestURI), zap.Error(err))
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(statusCode)
	} else {
		werr = a.er(c, statusCode, message)
	}
	if werr != nil {
		a.l.Error("failed to write error response", zap.Error(werr))
	}
}

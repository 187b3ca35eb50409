package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"personal-site-api/app/server/auth"
	"personal-site-api/app/server/types"
)

const loginFailedMessage = "Incorrect username or password"

func (a *App) AuthLogin(c echo.Context) error {
	rctx := c.Request().Context()
	ip := c.RealIP()

	// 失败次数过多时直接拒绝，不再校验
	if !a.limiter.Check(rctx, ip) {
		return a.er(c, http.StatusTooManyRequests, "Too many failed login attempts, try again later")
	}

	// 绑定请求体（表单或 JSON ）
	var req types.LoginRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind login request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	token, expires, err := a.auth.IssueToken(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			a.limiter.Record(rctx, ip)
			return a.er(c, http.StatusUnauthorized, loginFailedMessage)
		}
		a.l.Error("failed to issue token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	a.limiter.Reset(rctx, ip)

	// 返回
	return c.JSON(http.StatusOK, &types.LoginToken{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expires,
	})
}

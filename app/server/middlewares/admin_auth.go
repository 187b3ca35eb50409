package middlewares

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"net/http"
	"personal-site-api/app/server/auth"
)

const principalContextKey = "principal"

type TokenAuthenticator interface {
	Authenticate(token string) (*auth.Principal, error)
}

func config(authn TokenAuthenticator) echojwt.Config {
	return echojwt.Config{
		ContextKey:  principalContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authn.Authenticate(token)
		},
	}
}

// AdminAuth 要求请求带有有效的管理员令牌，任何失败都返回同样的 401
func AdminAuth(authn TokenAuthenticator) echo.MiddlewareFunc {
	cfg := config(authn)
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return echojwt.WithConfig(cfg)
}

// OptionalAdminAuth 有有效令牌时记录身份，没有或无效时按匿名继续
func OptionalAdminAuth(authn TokenAuthenticator) echo.MiddlewareFunc {
	cfg := config(authn)
	cfg.ContinueOnIgnoredError = true
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		return nil
	}
	return echojwt.WithConfig(cfg)
}

// Principal 取出当前请求的身份，匿名时返回 nil
func Principal(c echo.Context) *auth.Principal {
	p, _ := c.Get(principalContextKey).(*auth.Principal)
	return p
}

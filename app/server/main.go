package main

import (
	"context"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"log"
	"personal-site-api/app/server/apidocs"
	"personal-site-api/app/server/auth"
	"personal-site-api/app/server/constants"
	"personal-site-api/app/server/handlers"
	"personal-site-api/app/server/images"
	"personal-site-api/app/server/inits"
	"personal-site-api/app/server/jwt"
)

func main() {
	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.System.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer func() { _ = l.Sync() }()

	l.Debug("logger initialized")

	// 初始化数据库连接
	db, err := inits.DB(cfg.System.DBDriver, cfg.System.DBConnectionString, !cfg.System.IsProd)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	// 初始化 redis 连接（可选）
	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}

	// 初始化 JWT 与管理员认证
	j, err := jwt.New(cfg.Security.SignatureSecretKey)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	authn, err := auth.New(auth.Credentials{
		Username:     cfg.Admin.Username,
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
	}, j, cfg.Security.TokenExpire)
	if err != nil {
		l.Fatal("error initializing authenticator", zap.Error(err))
	}

	// 失败登录限制：有 redis 时多实例共享
	var limiter auth.LoginLimiter
	if rdb != nil {
		limiter = auth.NewRedisLimiter(rdb, l, cfg.Login.MaxAttempts, cfg.Login.Window)
	} else {
		limiter = auth.NewMemoryLimiter(cfg.Login.MaxAttempts, cfg.Login.Window)
	}

	// 初始化图片处理
	imgs, err := images.New(images.Options{
		Dir:          cfg.Upload.Dir,
		PublicPrefix: cfg.Upload.PublicPrefix,
		MaxWidth:     cfg.Upload.MaxWidth,
		MaxHeight:    cfg.Upload.MaxHeight,
		Quality:      cfg.Upload.Quality,
		Extension:    constants.ImageExtension,
		MaxPixels:    constants.ImageMaxPixels,
	})
	if err != nil {
		l.Fatal("error initializing image normalizer", zap.Error(err))
	}

	// 准备 handler app
	handlerApp := handlers.NewApp(l, db, authn, limiter, imgs)

	// 准备 echo 服务
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlerApp.HTTPErrorHandler
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("method", v.Method),
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())
	if len(cfg.System.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.System.CORSOrigins,
			AllowCredentials: true,
		}))
	}

	// 绑定 echo 服务
	handlerApp.RegisterHandlers(e)

	// 上传的图片由静态文件服务提供
	e.Static(cfg.Upload.PublicPrefix, cfg.Upload.Dir)

	// 添加 API 文档
	if !cfg.System.IsProd {
		if _, specJSON, err := apidocs.Spec(context.Background()); err != nil {
			l.Error("error initializing api docs", zap.Error(err))
		} else {
			e.Pre(apidocs.Doc("/api/v1", specJSON, apidocs.WithTitle("Personal website API")))
		}
	}

	// 启动 echo 服务
	if err := e.Start(cfg.System.Listen); err != nil {
		l.Fatal("shutting down the server", zap.Error(err))
	}
}

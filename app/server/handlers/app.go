package handlers

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
	"personal-site-api/app/server/auth"
	"personal-site-api/app/server/images"
	"time"
)

type Authenticator interface {
	IssueToken(username string, password string) (string, time.Time, error)
	Authenticate(token string) (*auth.Principal, error)
}

type App struct {
	l       *zap.Logger        // 日志
	db      *gorm.DB           // 数据库
	auth    Authenticator      // 管理员认证
	limiter auth.LoginLimiter  // 失败登录限制
	images  *images.Normalizer // 上传图片处理
	now     func() time.Time   // 时钟，决定 created_at / updated_at
}

func NewApp(l *zap.Logger, db *gorm.DB, authn Authenticator, limiter auth.LoginLimiter, imgs *images.Normalizer) *App {
	return &App{
		l:       l,
		db:      db,
		auth:    authn,
		limiter: limiter,
		images:  imgs,
		now:     time.Now,
	}
}

// WithClock 替换时钟，测试中用于保证时间戳严格递增
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// timestamp 统一使用 UTC ，精确到微秒（ postgres 的精度）
func (a *App) timestamp() time.Time {
	return a.now().UTC().Truncate(time.Microsecond)
}

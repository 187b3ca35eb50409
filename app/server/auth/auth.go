package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"github.com/alexedwards/argon2id"
	"personal-site-api/app/server/jwt"
	"time"
)

// ErrUnauthorized 覆盖所有认证失败的情况（用户名、密码、签名、过期），调用方不应区分
var ErrUnauthorized = errors.New("unauthorized")

// Principal 是认证通过后的身份，这里只有唯一的管理员
type Principal struct {
	Username  string
	ExpiresAt time.Time
}

type Credentials struct {
	Username     string
	Password     string
	PasswordHash string // argon2id ，非空时优先使用
}

type Authenticator struct {
	creds Credentials
	jwt   *jwt.JWT
	ttl   time.Duration
	now   func() time.Time
}

func New(creds Credentials, j *jwt.JWT, ttl time.Duration) (*Authenticator, error) {
	if creds.Username == "" {
		return nil, errors.New("admin username is empty")
	}
	if creds.Password == "" && creds.PasswordHash == "" {
		return nil, errors.New("admin password is empty")
	}
	if creds.PasswordHash != "" {
		// 提前校验 hash 格式，避免在登录时才发现配置错误
		if _, _, _, err := argon2id.DecodeHash(creds.PasswordHash); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &Authenticator{
		creds: creds,
		jwt:   j,
		ttl:   ttl,
		now:   time.Now,
	}, nil
}

// WithClock 替换签发与校验使用的时钟
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	return &Authenticator{
		creds: a.creds,
		jwt:   a.jwt.WithClock(now),
		ttl:   a.ttl,
		now:   now,
	}
}

// IssueToken 校验用户名与密码，成功后签出带有过期时间的令牌
func (a *Authenticator) IssueToken(username string, password string) (string, time.Time, error) {
	if !a.verify(username, password) {
		return "", time.Time{}, ErrUnauthorized
	}

	expires := a.now().Add(a.ttl)
	token, err := a.jwt.SignToken(&jwt.Claims{
		Subject: a.creds.Username,
		Expires: expires.Unix(),
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, time.Unix(expires.Unix(), 0), nil
}

// Authenticate 校验令牌的签名与有效期
func (a *Authenticator) Authenticate(token string) (*Principal, error) {
	claims, err := a.jwt.ParseClaims(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	// 管理员改名后旧令牌失效
	if !equal(claims.Subject, a.creds.Username) {
		return nil, ErrUnauthorized
	}

	return &Principal{
		Username:  claims.Subject,
		ExpiresAt: time.Unix(claims.Expires, 0),
	}, nil
}

func (a *Authenticator) verify(username string, password string) bool {
	// 两项都要比较完，不能短路
	usernameOK := equal(username, a.creds.Username)

	var passwordOK bool
	if a.creds.PasswordHash != "" {
		match, err := argon2id.ComparePasswordAndHash(password, a.creds.PasswordHash)
		passwordOK = err == nil && match
	} else {
		passwordOK = equal(password, a.creds.Password)
	}

	return usernameOK && passwordOK
}

// equal 先取摘要再比较，长度不同也不会提前返回
func equal(given string, expected string) bool {
	g := sha256.Sum256([]byte(given))
	e := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(g[:], e[:]) == 1
}

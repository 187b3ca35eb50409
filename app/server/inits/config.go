package inits

import (
	"fmt"
	"os"
	"personal-site-api/app/server/config"
	"personal-site-api/app/server/constants"
	"strconv"
	"strings"
	"time"
)

func Config() (*config.Config, error) {
	var cfg config.Config

	// 手动配置映射
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = constants.ListenDefault
	} else {
		cfg.System.Listen = listen
	}

	if driver, exist := os.LookupEnv("DB_DRIVER"); !exist {
		cfg.System.DBDriver = "postgres"
	} else if driver = strings.ToLower(driver); driver != "postgres" && driver != "sqlite" {
		return nil, fmt.Errorf("DB_DRIVER should be postgres or sqlite")
	} else {
		cfg.System.DBDriver = driver
	}

	if dbconn, exist := os.LookupEnv("DB_CONN"); !exist {
		return nil, fmt.Errorf("DB_CONN environment variable not set")
	} else {
		cfg.System.DBConnectionString = dbconn
	}

	// Redis 可选，不设置时登录限制只在本进程内生效
	cfg.System.RedisConnectionString = os.Getenv("REDIS_CONN")

	if origins, exist := os.LookupEnv("CORS_ORIGINS"); exist {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.System.CORSOrigins = append(cfg.System.CORSOrigins, origin)
			}
		}
	}

	if sigsk, exist := os.LookupEnv("SIGNATURE_SECRET_KEY"); !exist {
		return nil, fmt.Errorf("SIGNATURE_SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}

	if minutes, err := envInt("ACCESS_TOKEN_EXPIRE_MINUTES", int(constants.TokenExpireDefault/time.Minute)); err != nil {
		return nil, err
	} else if minutes <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES should be a positive integer")
	} else {
		cfg.Security.TokenExpire = time.Duration(minutes) * time.Minute
	}

	if username, exist := os.LookupEnv("API_ADMIN_USERNAME"); !exist || username == "" {
		return nil, fmt.Errorf("API_ADMIN_USERNAME environment variable not set")
	} else {
		cfg.Admin.Username = username
	}

	cfg.Admin.Password = os.Getenv("API_ADMIN_PASSWORD")
	cfg.Admin.PasswordHash = os.Getenv("API_ADMIN_PASSWORD_HASH")
	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		return nil, fmt.Errorf("API_ADMIN_PASSWORD or API_ADMIN_PASSWORD_HASH environment variable not set")
	}

	var err error
	if cfg.Login.MaxAttempts, err = envInt("LOGIN_MAX_ATTEMPTS", constants.LoginMaxAttemptsDefault); err != nil {
		return nil, err
	}

	if window, exist := os.LookupEnv("LOGIN_WINDOW"); !exist {
		cfg.Login.Window = constants.LoginWindowDefault
	} else if cfg.Login.Window, err = time.ParseDuration(window); err != nil || cfg.Login.Window <= 0 {
		return nil, fmt.Errorf("LOGIN_WINDOW should be a valid positive duration")
	}

	if dir, exist := os.LookupEnv("UPLOAD_DIR"); !exist {
		cfg.Upload.Dir = constants.UploadDirDefault
	} else {
		cfg.Upload.Dir = dir
	}

	if prefix, exist := os.LookupEnv("UPLOAD_PUBLIC_PREFIX"); !exist {
		cfg.Upload.PublicPrefix = constants.UploadPublicPrefixDefault
	} else {
		cfg.Upload.PublicPrefix = "/" + strings.Trim(prefix, "/")
	}

	if cfg.Upload.MaxWidth, err = envInt("IMAGE_MAX_WIDTH", constants.ImageMaxWidthDefault); err != nil {
		return nil, err
	}
	if cfg.Upload.MaxHeight, err = envInt("IMAGE_MAX_HEIGHT", constants.ImageMaxHeightDefault); err != nil {
		return nil, err
	}
	if cfg.Upload.Quality, err = envInt("IMAGE_QUALITY", constants.ImageQualityDefault); err != nil {
		return nil, err
	} else if cfg.Upload.Quality < 1 || cfg.Upload.Quality > 100 {
		return nil, fmt.Errorf("IMAGE_QUALITY should be between 1 and 100")
	}

	return &cfg, nil
}

func envInt(key string, fallback int) (int, error) {
	str, exist := os.LookupEnv(key)
	if !exist || str == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("%s should be an integer", key)
	}

	return value, nil
}

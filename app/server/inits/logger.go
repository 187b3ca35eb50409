package inits

import (
	"fmt"
	"go.uber.org/zap"
)

func Logger(debugMode bool) (*zap.Logger, error) {
	var zcfg zap.Config
	if debugMode {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.DisableStacktrace = true // 生产环境下错误日志已经带上了 error 字段
	}
	zcfg.InitialFields = map[string]interface{}{
		"service": "personal-site-api",
	}

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return l, nil
}

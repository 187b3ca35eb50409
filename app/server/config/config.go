package config

import "time"

type Config struct {
	System struct {
		IsProd                bool     // 是否为生产环境
		Listen                string   // 监听地址
		DBDriver              string   // 数据库类型： postgres 或 sqlite
		DBConnectionString    string   // 数据库的连接字符串（ sqlite 下为文件路径）
		RedisConnectionString string   // Redis 数据库的连接字符串，留空表示不使用
		CORSOrigins           []string // 允许跨域访问的来源
	}
	Security struct {
		SignatureSecretKey string        // 签名密钥，用于产生 JWT ，更新会导致旧有会话失效
		TokenExpire        time.Duration // 令牌有效期
	}
	Admin struct {
		Username     string // 管理员用户名
		Password     string // 管理员密码（明文，常数时间比较）
		PasswordHash string // 管理员密码（ argon2id hash ），设置后优先于明文密码
	}
	Login struct {
		MaxAttempts int           // 窗口内允许的失败登录次数
		Window      time.Duration // 失败登录计数窗口
	}
	Upload struct {
		Dir          string // 上传文件的存储目录
		PublicPrefix string // 静态文件服务的公开路径前缀
		MaxWidth     int    // 图片最大宽度
		MaxHeight    int    // 图片最大高度
		Quality      int    // JPEG 编码质量
	}
}

package constants

import "time"

const (
	ListenDefault      = ":8000"
	TokenExpireDefault = 30 * time.Minute

	LoginMaxAttemptsDefault = 5
	LoginWindowDefault      = 15 * time.Minute
)

// 分页
const (
	PageDefault = 1
	SizeDefault = 12
	SizeMin     = 1
	SizeMax     = 100
)

// 项目
const (
	ProjectCategoryDefault = "Web"
	ProjectOrderDefault    = "0"
)

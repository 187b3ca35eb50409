package types

import "time"

type ErrorMessage struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type PageResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type LoginToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type UploadResponse struct {
	ImageURL string `json:"image_url"`
}

type OK struct {
	OK bool `json:"ok"`
}

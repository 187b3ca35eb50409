package models

import "time"

type BlogPost struct {
	ID uint `gorm:"column:id;primaryKey" json:"id"`

	Title       string   `gorm:"column:title" json:"title"`                         // 标题
	Excerpt     string   `gorm:"column:excerpt" json:"excerpt"`                     // 摘要，列表页展示
	Content     string   `gorm:"column:content" json:"content"`                     // 正文（ markdown ）
	Tags        []string `gorm:"column:tags;type:text;serializer:json" json:"tags"` // 标签，保持顺序
	IsPublished bool     `gorm:"column:is_published;index" json:"is_published"`     // 是否已发布：未发布的草稿只有管理员可见

	// 时间戳由服务端控制，不使用 gorm 的自动填充
	CreatedAt time.Time `gorm:"column:created_at;index;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at"`
}

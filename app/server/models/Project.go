package models

import "time"

type Project struct {
	ID uint `gorm:"column:id;primaryKey" json:"id"`

	Title       string   `gorm:"column:title" json:"title"`                         // 项目名称
	Description string   `gorm:"column:description" json:"description"`             // 项目介绍
	Category    string   `gorm:"column:category" json:"category"`                   // 分类，自由文本，默认 Web
	Image       string   `gorm:"column:image" json:"image"`                         // 封面图片，可以是上传后的路径，也可以是外部 URL ，或者为空
	Tags        []string `gorm:"column:tags;type:text;serializer:json" json:"tags"` // 标签，保持顺序
	GithubURL   *string  `gorm:"column:github_url" json:"github_url"`               // 源码仓库
	LiveURL     *string  `gorm:"column:live_url" json:"live_url"`                   // 在线演示
	Order       string   `gorm:"column:order" json:"order"`                         // 排序键，按字符串比较

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at"`
}

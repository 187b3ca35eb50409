package handlers

import (
	"gorm.io/gorm"
	"personal-site-api/app/server/auth"
	"personal-site-api/app/server/models"
)

// isVisible 已发布的文章所有人可见，草稿只有管理员可见
func isVisible(post *models.BlogPost, principal *auth.Principal) bool {
	return post.IsPublished || principal != nil
}

// visibleTo 与 isVisible 相同的规则，作为查询条件
func visibleTo(principal *auth.Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if principal != nil {
			return db
		}
		return db.Where("is_published = ?", true)
	}
}

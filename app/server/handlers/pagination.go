package handlers

import (
	"fmt"
	"gorm.io/gorm"
	"math"
	"personal-site-api/app/server/constants"
	"personal-site-api/app/server/types"
	"strconv"
)

type pagination struct {
	Page int
	Size int
}

func (p pagination) offset() int {
	return (p.Page - 1) * p.Size
}

// parsePagination 页码从 1 开始，每页数量必须在 [1, 100] 之间，超出范围报错而不是截断
func parsePagination(pageStr string, sizeStr string) (pagination, error) {
	p := pagination{
		Page: constants.PageDefault,
		Size: constants.SizeDefault,
	}

	if pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return p, fmt.Errorf("page should be an integer")
		}
		if page < 1 {
			return p, fmt.Errorf("page should be greater than or equal to 1")
		}
		p.Page = page
	}

	if sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return p, fmt.Errorf("size should be an integer")
		}
		if size < constants.SizeMin || size > constants.SizeMax {
			return p, fmt.Errorf("size should be between %d and %d", constants.SizeMin, constants.SizeMax)
		}
		p.Size = size
	}

	// 偏移量不能溢出
	if p.Page-1 > math.MaxInt/p.Size {
		return p, fmt.Errorf("page is too large")
	}

	return p, nil
}

// paginate 在同一个过滤条件上分别计数与查询，总数不依赖当前页的结果
func paginate[M any](db *gorm.DB, p pagination, filter func(*gorm.DB) *gorm.DB, order func(*gorm.DB) *gorm.DB) (*types.PageResponse[M], error) {
	var (
		model M
		total int64
		items = []M{}
	)

	if err := db.Model(&model).Scopes(filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	// 超出最后一页时不必再查
	if int64(p.offset()) < total {
		if err := db.Model(&model).Scopes(filter, order).
			Offset(p.offset()).
			Limit(p.Size).
			Find(&items).Error; err != nil {
			return nil, fmt.Errorf("find: %w", err)
		}
	}

	return &types.PageResponse[M]{
		Items: items,
		Total: total,
		Page:  p.Page,
		Size:  p.Size,
	}, nil
}

func noFilter(db *gorm.DB) *gorm.DB {
	return db
}

package repository

import "gorm.io/gorm"

// Pagination 页码从 1 开始；PageSize<=0 时返回全部
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) apply(query *gorm.DB) *gorm.DB {
	if p.PageSize <= 0 {
		return query
	}
	offset := 0
	if p.Page > 1 {
		offset = (p.Page - 1) * p.PageSize
	}
	return query.Limit(p.PageSize).Offset(offset)
}

// countAndFind 先计总数再取当前页，dest 为切片指针
func countAndFind(query *gorm.DB, page Pagination, order string, dest interface{}) (int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, page.apply(query).Order(order).Find(dest).Error
}

package repository

import (
	"errors"

	"gorm.io/gorm"
)

// firstOrNil 取第一条记录；不存在返回 nil, nil，由 service 层决定是否算错误
func firstOrNil[T any](query *gorm.DB, conds ...interface{}) (*T, error) {
	var row T
	err := query.First(&row, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

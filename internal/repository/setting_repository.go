package repository

import (
	"time"

	"github.com/tiffin-desk/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	GetByKey(key string) (*models.Setting, error)
	List() ([]models.Setting, error)
	Upsert(key string, value models.JSON) (*models.Setting, error)
}

type GormSettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

func (r *GormSettingRepository) GetByKey(key string) (*models.Setting, error) {
	return firstOrNil[models.Setting](r.db, "key = ?", key)
}

// List 按键名排序
func (r *GormSettingRepository) List() ([]models.Setting, error) {
	var rows []models.Setting
	err := r.db.Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&rows).Error
	return rows, err
}

// Upsert 整体覆盖该键的值
func (r *GormSettingRepository) Upsert(key string, value models.JSON) (*models.Setting, error) {
	row := &models.Setting{Key: key, ValueJSON: value, UpdatedAt: time.Now()}
	onKey := clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value_json", "updated_at"}),
	}
	if err := r.db.Clauses(onKey).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

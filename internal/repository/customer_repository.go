package repository

import (
	"strings"
	"time"

	"github.com/tiffin-desk/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository 客户数据访问接口
type CustomerRepository interface {
	GetByID(id uint) (*models.Customer, error)
	GetByPhone(phone string) (*models.Customer, error)
	List(filter CustomerListFilter) ([]models.Customer, int64, error)
	UpsertForOrder(customer *models.Customer, orderedAt time.Time) (*models.Customer, error)
	Update(customer *models.Customer) error
	WithTx(tx *gorm.DB) *GormCustomerRepository
}

// GormCustomerRepository GORM 实现
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓库
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCustomerRepository) WithTx(tx *gorm.DB) *GormCustomerRepository {
	if tx == nil {
		return r
	}
	return &GormCustomerRepository{db: tx}
}

// GetByID 根据 ID 获取客户
func (r *GormCustomerRepository) GetByID(id uint) (*models.Customer, error) {
	return firstOrNil[models.Customer](r.db, id)
}

// GetByPhone 根据手机号获取客户
func (r *GormCustomerRepository) GetByPhone(phone string) (*models.Customer, error) {
	return firstOrNil[models.Customer](r.db.Where("phone = ?", strings.TrimSpace(phone)))
}

// List 客户列表
func (r *GormCustomerRepository) List(filter CustomerListFilter) ([]models.Customer, int64, error) {
	query := applySearch(r.db.Model(&models.Customer{}), filter.Search, "name", "phone", "email")
	customers := make([]models.Customer, 0)
	total, err := countAndFind(query, filter.Pagination, "id desc", &customers)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// UpsertForOrder 按手机号建档或刷新客户资料，并累计下单次数
func (r *GormCustomerRepository) UpsertForOrder(customer *models.Customer, orderedAt time.Time) (*models.Customer, error) {
	existing, err := r.GetByPhone(customer.Phone)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		customer.OrderCount = 1
		customer.LastOrderAt = &orderedAt
		if err := r.db.Create(customer).Error; err != nil {
			return nil, err
		}
		return customer, nil
	}

	updates := map[string]interface{}{
		"name":          customer.Name,
		"order_count":   gorm.Expr("order_count + 1"),
		"last_order_at": orderedAt,
	}
	if customer.Email != "" {
		updates["email"] = customer.Email
	}
	if customer.Address != "" {
		updates["address"] = customer.Address
	}
	if customer.PostalCode != "" {
		updates["postal_code"] = customer.PostalCode
	}
	if err := r.db.Model(&models.Customer{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(existing.ID)
}

// Update 更新客户资料
func (r *GormCustomerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

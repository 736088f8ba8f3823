package service

import (
	"strings"

	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"
)

// CustomerService 客户档案
type CustomerService struct {
	repo repository.CustomerRepository
}

// NewCustomerService 创建客户服务
func NewCustomerService(repo repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// List 客户列表
func (s *CustomerService) List(filter repository.CustomerListFilter) ([]models.Customer, int64, error) {
	return s.repo.List(filter)
}

// Get 客户详情
func (s *CustomerService) Get(id uint) (*models.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// LookupByPhone 录单时按手机号带出客户信息，未找到返回 nil
func (s *CustomerService) LookupByPhone(phone string) (*models.Customer, error) {
	phone = normalizePhone(phone)
	if phone == "" {
		return nil, nil
	}
	return s.repo.GetByPhone(phone)
}

// UpdateNote 更新客户备注与邮箱
func (s *CustomerService) UpdateNote(id uint, email, note string) (*models.Customer, error) {
	customer, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	customer.Email = strings.TrimSpace(email)
	customer.Note = strings.TrimSpace(note)
	if err := s.repo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

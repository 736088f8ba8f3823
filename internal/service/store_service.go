package service

import (
	"strings"
	"time"

	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/draft"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"
)

var staffRoles = map[string]bool{
	constants.StaffRoleManager: true,
	constants.StaffRoleChef:    true,
	constants.StaffRoleCashier: true,
	constants.StaffRoleDriver:  true,
	constants.StaffRoleHelper:  true,
}

// StoreService 门店与员工管理
type StoreService struct {
	storeRepo repository.StoreRepository
	staffRepo repository.StaffRepository
}

// NewStoreService 创建门店服务
func NewStoreService(storeRepo repository.StoreRepository, staffRepo repository.StaffRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo, staffRepo: staffRepo}
}

// StoreInput 门店表单
type StoreInput struct {
	Code       string
	Name       string
	Address    string
	Phone      string
	PostalCode string
	IsActive   bool
}

// ListStores 门店列表
func (s *StoreService) ListStores() ([]models.Store, error) {
	return s.storeRepo.List()
}

// GetStore 门店详情
func (s *StoreService) GetStore(id uint) (*models.Store, error) {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// SaveStore 创建（id=0）或更新门店；编码全局唯一
func (s *StoreService) SaveStore(id uint, input StoreInput) (*models.Store, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, ErrStoreInvalid
	}
	store := &models.Store{}
	if id != 0 {
		existing, err := s.GetStore(id)
		if err != nil {
			return nil, err
		}
		store = existing
	}
	dup, err := s.storeRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if dup != nil && dup.ID != store.ID {
		return nil, ErrStoreCodeExists
	}
	store.Code = code
	store.Name = name
	store.Address = strings.TrimSpace(input.Address)
	store.Phone = normalizePhone(input.Phone)
	store.PostalCode = NormalizePostalCode(input.PostalCode)
	store.IsActive = input.IsActive
	if id == 0 {
		err = s.storeRepo.Create(store)
	} else {
		err = s.storeRepo.Update(store)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// DeleteStore 删除门店；仍有员工时拒绝
func (s *StoreService) DeleteStore(id uint) error {
	if _, err := s.GetStore(id); err != nil {
		return err
	}
	count, err := s.staffRepo.CountByStore(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrStoreHasStaff
	}
	return s.storeRepo.Delete(id)
}

// StaffInput 员工表单
type StaffInput struct {
	StoreID    uint
	Name       string
	Phone      string
	Role       string
	HourlyRate string
	Status     string
	JoinedAt   string
}

// ListStaff 员工列表
func (s *StoreService) ListStaff(filter repository.StaffListFilter) ([]models.Staff, int64, error) {
	return s.staffRepo.List(filter)
}

// GetStaff 员工详情
func (s *StoreService) GetStaff(id uint) (*models.Staff, error) {
	staff, err := s.staffRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

// SaveStaff 创建（id=0）或更新员工
func (s *StoreService) SaveStaff(id uint, input StaffInput) (*models.Staff, error) {
	staff := &models.Staff{}
	if id != 0 {
		existing, err := s.GetStaff(id)
		if err != nil {
			return nil, err
		}
		staff = existing
	}
	if _, err := s.GetStore(input.StoreID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if name == "" || !staffRoles[role] {
		return nil, ErrStaffInvalid
	}
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = constants.StaffStatusActive
	}
	if status != constants.StaffStatusActive && status != constants.StaffStatusLeft {
		return nil, ErrStaffInvalid
	}
	rate, _, err := draft.ParseAmount(input.HourlyRate)
	if err != nil {
		return nil, ErrStaffInvalid
	}
	var joinedAt *time.Time
	if strings.TrimSpace(input.JoinedAt) != "" {
		parsed, err := parseDate(input.JoinedAt)
		if err != nil {
			return nil, ErrStaffInvalid
		}
		joinedAt = &parsed
	}

	staff.StoreID = input.StoreID
	staff.Name = name
	staff.Phone = normalizePhone(input.Phone)
	staff.Role = role
	staff.HourlyRate = models.NewMoneyFromDecimal(rate)
	staff.Status = status
	staff.JoinedAt = joinedAt
	staff.Store = nil
	if id == 0 {
		err = s.staffRepo.Create(staff)
	} else {
		err = s.staffRepo.Update(staff)
	}
	if err != nil {
		return nil, err
	}
	logger.Infow("staff_saved", "staff_id", staff.ID, "store_id", staff.StoreID, "role", staff.Role, "status", staff.Status)
	return staff, nil
}

// DeleteStaff 删除员工
func (s *StoreService) DeleteStaff(id uint) error {
	if _, err := s.GetStaff(id); err != nil {
		return err
	}
	return s.staffRepo.Delete(id)
}

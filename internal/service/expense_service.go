package service

import (
	"strings"

	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/draft"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"
)

var expenseCategories = map[string]bool{
	constants.ExpenseCategoryIngredients: true,
	constants.ExpenseCategoryPackaging:   true,
	constants.ExpenseCategoryFuel:        true,
	constants.ExpenseCategoryRent:        true,
	constants.ExpenseCategoryUtilities:   true,
	constants.ExpenseCategorySalary:      true,
	constants.ExpenseCategoryOther:       true,
}

// ExpenseService 支出记录
type ExpenseService struct {
	repo      repository.ExpenseRepository
	storeRepo repository.StoreRepository
}

// NewExpenseService 创建支出服务
func NewExpenseService(repo repository.ExpenseRepository, storeRepo repository.StoreRepository) *ExpenseService {
	return &ExpenseService{repo: repo, storeRepo: storeRepo}
}

// ExpenseInput 支出表单
type ExpenseInput struct {
	StoreID  uint
	Category string
	Amount   string
	SpentOn  string
	Vendor   string
	Note     string
	AdminID  uint
}

// List 支出列表
func (s *ExpenseService) List(filter repository.ExpenseListFilter) ([]models.Expense, int64, error) {
	return s.repo.List(filter)
}

// Get 支出详情
func (s *ExpenseService) Get(id uint) (*models.Expense, error) {
	expense, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	return expense, nil
}

// Save 创建（id=0）或更新支出
func (s *ExpenseService) Save(id uint, input ExpenseInput) (*models.Expense, error) {
	expense := &models.Expense{CreatedByAdminID: input.AdminID}
	if id != 0 {
		existing, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		expense = existing
	}
	category := strings.ToLower(strings.TrimSpace(input.Category))
	if !expenseCategories[category] {
		return nil, ErrExpenseInvalid
	}
	amount, set, err := draft.ParseAmount(input.Amount)
	if err != nil || !set || !amount.IsPositive() {
		return nil, ErrExpenseInvalid
	}
	spentOn, err := parseDate(input.SpentOn)
	if err != nil {
		return nil, ErrExpenseInvalid
	}
	if input.StoreID != 0 {
		store, err := s.storeRepo.GetByID(input.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, ErrStoreNotFound
		}
	}
	expense.StoreID = input.StoreID
	expense.Category = category
	expense.Amount = models.NewMoneyFromDecimal(amount)
	expense.SpentOn = spentOn
	expense.Vendor = strings.TrimSpace(input.Vendor)
	expense.Note = strings.TrimSpace(input.Note)
	if id == 0 {
		err = s.repo.Create(expense)
	} else {
		err = s.repo.Update(expense)
	}
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// Delete 删除支出
func (s *ExpenseService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

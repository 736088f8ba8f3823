package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/cache"
	"github.com/tiffin-desk/internal/draft"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"
)

const menuCacheTTL = 5 * time.Minute

// MenuService 菜单服务
type MenuService struct {
	repo repository.MenuItemRepository
}

// NewMenuService 创建菜单服务
func NewMenuService(repo repository.MenuItemRepository) *MenuService {
	return &MenuService{repo: repo}
}

// MenuItemInput 菜单项表单，价格为空串表示该份量不提供
type MenuItemInput struct {
	Category    string
	Name        string
	Description string
	SmallPrice  string
	MediumPrice string
	LargePrice  string
	IsVeg       bool
	IsActive    bool
	SortOrder   int
}

// MenuCategory 按分类分组的菜单
type MenuCategory struct {
	Category string            `json:"category"`
	Items    []models.MenuItem `json:"items"`
}

// Catalog 返回基于数据库的报价目录
func (s *MenuService) Catalog() draft.Catalog {
	return &menuCatalog{repo: s.repo}
}

// Get 获取菜单项
func (s *MenuService) Get(id uint) (*models.MenuItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	return item, nil
}

// List 管理端菜单列表
func (s *MenuService) List(filter repository.MenuItemListFilter) ([]models.MenuItem, int64, error) {
	return s.repo.List(filter)
}

// ListCategories 菜单分类
func (s *MenuService) ListCategories() ([]string, error) {
	return s.repo.ListCategories()
}

// ListActiveGrouped 录单用的启用菜单，按分类分组
func (s *MenuService) ListActiveGrouped(ctx context.Context) ([]MenuCategory, error) {
	var cached []MenuCategory
	hit, err := cache.GetListing(ctx, cache.ListingScopeMenu, "active", &cached)
	if err != nil {
		logger.Warnw("menu_cache_get_failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	items, _, err := s.repo.List(repository.MenuItemListFilter{OnlyActive: true})
	if err != nil {
		return nil, err
	}
	groups := make([]MenuCategory, 0)
	index := make(map[string]int)
	for _, item := range items {
		pos, ok := index[item.Category]
		if !ok {
			pos = len(groups)
			index[item.Category] = pos
			groups = append(groups, MenuCategory{Category: item.Category})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	if err := cache.SetListing(ctx, cache.ListingScopeMenu, "active", groups, menuCacheTTL); err != nil {
		logger.Warnw("menu_cache_set_failed", "error", err)
	}
	return groups, nil
}

// Create 创建菜单项
func (s *MenuService) Create(input MenuItemInput) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	if err := applyMenuItemInput(item, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(item); err != nil {
		return nil, err
	}
	s.invalidate()
	return item, nil
}

// Update 更新菜单项；已下单的价格快照不受影响
func (s *MenuService) Update(id uint, input MenuItemInput) (*models.MenuItem, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := applyMenuItemInput(item, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	s.invalidate()
	return item, nil
}

// Delete 删除菜单项
func (s *MenuService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *MenuService) invalidate() {
	if err := cache.BumpListingVersion(context.Background(), cache.ListingScopeMenu); err != nil {
		logger.Warnw("menu_cache_bump_failed", "error", err)
	}
}

func applyMenuItemInput(item *models.MenuItem, input MenuItemInput) error {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)
	if name == "" || category == "" {
		return ErrMenuItemInvalid
	}
	prices := make([]*models.Money, 3)
	for i, raw := range []string{input.SmallPrice, input.MediumPrice, input.LargePrice} {
		amount, set, err := draft.ParseAmount(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMenuItemInvalid, err)
		}
		if set {
			prices[i] = models.MoneyPtr(amount)
		}
	}
	if prices[0] == nil && prices[1] == nil && prices[2] == nil {
		return ErrMenuItemNoPrice
	}
	item.Category = category
	item.Name = name
	item.Description = strings.TrimSpace(input.Description)
	item.SmallPrice = prices[0]
	item.MediumPrice = prices[1]
	item.LargePrice = prices[2]
	item.IsVeg = input.IsVeg
	item.IsActive = input.IsActive
	item.SortOrder = input.SortOrder
	return nil
}

type menuCatalog struct {
	repo repository.MenuItemRepository
}

// PriceFor 实现 draft.Catalog；停用的菜单项视为不存在
func (c *menuCatalog) PriceFor(itemID uint, size draft.Size) (draft.CatalogEntry, error) {
	item, err := c.repo.GetByID(itemID)
	if err != nil {
		return draft.CatalogEntry{}, fmt.Errorf("%w: %v", draft.ErrCatalogUnavailable, err)
	}
	if item == nil || !item.IsActive {
		return draft.CatalogEntry{}, draft.ErrItemNotFound
	}
	price, ok := item.PriceFor(size)
	if !ok {
		return draft.CatalogEntry{}, draft.ErrSizeUnavailable
	}
	return draft.CatalogEntry{Name: item.Name, Price: price.Decimal}, nil
}

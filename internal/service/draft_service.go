package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/draft"
	"github.com/tiffin-desk/internal/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftService 录单草稿服务：动作变换为纯函数，本服务负责存取与对账
type DraftService struct {
	cfg            *config.Config
	store          DraftStore
	catalog        draft.Catalog
	settingService *SettingService
	locks          draftLocks
	now            func() time.Time
}

// NewDraftService 创建草稿服务
func NewDraftService(cfg *config.Config, store DraftStore, catalog draft.Catalog, settingService *SettingService) *DraftService {
	return &DraftService{
		cfg:            cfg,
		store:          store,
		catalog:        catalog,
		settingService: settingService,
		now:            time.Now,
	}
}

// DraftView 草稿及其派生金额
type DraftView struct {
	ID        string       `json:"id"`
	Draft     draft.Draft  `json:"draft"`
	Totals    draft.Totals `json:"totals"`
	TaxRate   string       `json:"tax_rate"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Create 创建空草稿
func (s *DraftService) Create(ctx context.Context, adminID uint) (*DraftView, error) {
	now := s.now()
	stored := &StoredDraft{
		ID:        uuid.NewString(),
		AdminID:   adminID,
		Draft:     draft.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, stored, s.ttl()); err != nil {
		logger.Warnw("draft_save_failed", "draft_id", stored.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDraftStore, err)
	}
	return s.view(stored)
}

// Get 读取草稿并对账；草稿只对创建它的员工可见
func (s *DraftService) Get(ctx context.Context, id string, adminID uint) (*DraftView, error) {
	stored, err := s.owned(ctx, id, adminID)
	if err != nil {
		return nil, err
	}
	return s.view(stored)
}

// ApplyActions 依次执行动作；任一动作失败时草稿保持不变
func (s *DraftService) ApplyActions(ctx context.Context, id string, adminID uint, actions []draft.Action) (*DraftView, error) {
	unlock := s.lock(id)
	defer unlock()

	stored, err := s.owned(ctx, id, adminID)
	if err != nil {
		return nil, err
	}
	next, err := draft.ApplyAll(stored.Draft, s.catalog, actions)
	if err != nil {
		return nil, err
	}
	stored.Draft = next
	stored.UpdatedAt = s.now()
	if err := s.store.Save(ctx, stored, s.ttl()); err != nil {
		logger.Warnw("draft_save_failed", "draft_id", id, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDraftStore, err)
	}
	return s.view(stored)
}

// Checkout 持锁读取草稿交给 fn，fn 成功后删除草稿。
// 期间同一草稿的其他动作与重复提交会排队，之后只会看到草稿已不存在。
func (s *DraftService) Checkout(ctx context.Context, id string, adminID uint, fn func(draft.Draft) error) error {
	unlock := s.lock(id)
	defer unlock()

	stored, err := s.owned(ctx, id, adminID)
	if err != nil {
		return err
	}
	if err := fn(stored.Draft); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, stored.ID); err != nil {
		logger.Warnw("draft_checkout_delete_failed", "draft_id", stored.ID, "error", err)
	}
	return nil
}

// Discard 丢弃草稿
func (s *DraftService) Discard(ctx context.Context, id string, adminID uint) error {
	unlock := s.lock(id)
	defer unlock()

	stored, err := s.owned(ctx, id, adminID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, stored.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrDraftStore, err)
	}
	return nil
}

// TaxRate 当前全局税率
func (s *DraftService) TaxRate() decimal.Decimal {
	return resolveTaxRate(s.cfg, s.settingService)
}

func (s *DraftService) load(ctx context.Context, id string) (*StoredDraft, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrDraftNotFound
	}
	stored, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDraftStore, err)
	}
	if stored == nil {
		return nil, ErrDraftNotFound
	}
	return stored, nil
}

// owned 他人的草稿按不存在处理，不暴露该 ID 是否存在
func (s *DraftService) owned(ctx context.Context, id string, adminID uint) (*StoredDraft, error) {
	stored, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored.AdminID != 0 && stored.AdminID != adminID {
		return nil, ErrDraftNotFound
	}
	return stored, nil
}

func (s *DraftService) view(stored *StoredDraft) (*DraftView, error) {
	rate := s.TaxRate()
	return &DraftView{
		ID:        stored.ID,
		Draft:     stored.Draft,
		Totals:    draft.Reconcile(stored.Draft, rate),
		TaxRate:   rate.String(),
		UpdatedAt: stored.UpdatedAt,
	}, nil
}

func (s *DraftService) ttl() time.Duration {
	minutes := 0
	if s.cfg != nil {
		minutes = s.cfg.Order.DraftTTLMinutes
	}
	if s.settingService != nil {
		if v, err := s.settingService.GetInt(constants.SettingKeyOrderConfig, constants.SettingFieldDraftTTLMinutes, minutes); err == nil {
			minutes = v
		}
	}
	if minutes <= 0 {
		minutes = 240
	}
	return time.Duration(minutes) * time.Minute
}

func (s *DraftService) lock(id string) func() {
	return s.locks.acquire(strings.TrimSpace(id))
}

type draftLock struct {
	mu   sync.Mutex
	refs int
}

// draftLocks 每个草稿一把锁，最后一个持有者释放时移除，过期草稿不会残留条目
type draftLocks struct {
	mu    sync.Mutex
	locks map[string]*draftLock
}

func (l *draftLocks) acquire(id string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*draftLock)
	}
	entry, ok := l.locks[id]
	if !ok {
		entry = &draftLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *draftLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// resolveTaxRate 读取后台税率设置，读取失败时退回配置值
func resolveTaxRate(cfg *config.Config, settingService *SettingService) decimal.Decimal {
	fallback := 0.0
	if cfg != nil {
		fallback = cfg.Order.TaxRate
	}
	if settingService == nil {
		return decimal.NewFromFloat(fallback)
	}
	rate, err := settingService.GetTaxRate(fallback)
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Warnw("tax_rate_setting_invalid", "error", err)
	}
	return rate
}

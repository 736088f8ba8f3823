package service

import (
	"context"
	"sync"
	"time"

	"github.com/tiffin-desk/internal/cache"
	"github.com/tiffin-desk/internal/draft"
)

// StoredDraft 持久化的草稿快照
type StoredDraft struct {
	ID        string      `json:"id"`
	AdminID   uint        `json:"admin_id"`
	Draft     draft.Draft `json:"draft"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// DraftStore 草稿存储；Get 未命中返回 nil, nil
type DraftStore interface {
	Get(ctx context.Context, id string) (*StoredDraft, error)
	Save(ctx context.Context, stored *StoredDraft, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// NewDraftStore Redis 可用时使用 Redis，否则退回进程内存
func NewDraftStore() DraftStore {
	if cache.Enabled() {
		return redisDraftStore{}
	}
	return NewMemoryDraftStore()
}

type redisDraftStore struct{}

func (redisDraftStore) Get(ctx context.Context, id string) (*StoredDraft, error) {
	var stored StoredDraft
	hit, err := cache.GetDraft(ctx, id, &stored)
	if err != nil || !hit {
		return nil, err
	}
	return &stored, nil
}

func (redisDraftStore) Save(ctx context.Context, stored *StoredDraft, ttl time.Duration) error {
	return cache.SetDraft(ctx, stored.ID, stored, ttl)
}

func (redisDraftStore) Delete(ctx context.Context, id string) error {
	return cache.DelDraft(ctx, id)
}

type memoryDraftEntry struct {
	stored    StoredDraft
	expiresAt time.Time
}

// MemoryDraftStore 进程内草稿存储，过期条目在读取时清理
type MemoryDraftStore struct {
	mu      sync.Mutex
	entries map[string]memoryDraftEntry
	now     func() time.Time
}

// NewMemoryDraftStore 创建内存草稿存储
func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{
		entries: make(map[string]memoryDraftEntry),
		now:     time.Now,
	}
}

// Get 读取草稿
func (m *MemoryDraftStore) Get(_ context.Context, id string) (*StoredDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, id)
		return nil, nil
	}
	out := entry.stored
	out.Draft = entry.stored.Draft.Clone()
	return &out, nil
}

// Save 写入草稿并刷新过期时间
func (m *MemoryDraftStore) Save(_ context.Context, stored *StoredDraft, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryDraftEntry{stored: *stored}
	entry.stored.Draft = stored.Draft.Clone()
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[stored.ID] = entry
	return nil
}

// Delete 删除草稿
func (m *MemoryDraftStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

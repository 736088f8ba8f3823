package cache

import (
	"context"
	"fmt"
	"time"
)

func draftKey(id string) string {
	return fmt.Sprintf("draft:%s", id)
}

// GetDraft 读取草稿快照
func GetDraft(ctx context.Context, id string, dest interface{}) (bool, error) {
	return GetJSON(ctx, draftKey(id), dest)
}

// SetDraft 写入草稿快照并刷新过期时间
func SetDraft(ctx context.Context, id string, value interface{}, ttl time.Duration) error {
	return SetJSON(ctx, draftKey(id), value, ttl)
}

// DelDraft 删除草稿
func DelDraft(ctx context.Context, id string) error {
	return Del(ctx, draftKey(id))
}

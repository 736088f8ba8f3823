package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// 列表缓存作用域
const (
	ListingScopeCateringOrders = "catering_orders"
	ListingScopeTiffinOrders   = "tiffin_orders"
	ListingScopeMenu           = "menu"
)

func listingVersionKey(scope string) string {
	return fmt.Sprintf("listing:ver:%s", scope)
}

// ListingVersion 读取列表缓存版本号
func ListingVersion(ctx context.Context, scope string) (int64, error) {
	return GetInt64(ctx, listingVersionKey(scope))
}

// BumpListingVersion 版本号 +1，使该作用域下全部列表缓存失效
func BumpListingVersion(ctx context.Context, scope string) error {
	_, err := Incr(ctx, listingVersionKey(scope))
	return err
}

// ListingKey 根据版本号与查询参数生成列表缓存键
func ListingKey(scope string, version int64, params interface{}) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(raw)
	return fmt.Sprintf("listing:%s:v%d:%s", scope, version, hex.EncodeToString(sum[:8])), nil
}

// GetListing 读取列表缓存
func GetListing(ctx context.Context, scope string, params interface{}, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	version, err := ListingVersion(ctx, scope)
	if err != nil {
		return false, err
	}
	key, err := ListingKey(scope, version, params)
	if err != nil {
		return false, err
	}
	return GetJSON(ctx, key, dest)
}

// SetListing 写入列表缓存
func SetListing(ctx context.Context, scope string, params interface{}, value interface{}, ttl time.Duration) error {
	if !Enabled() || ttl <= 0 {
		return nil
	}
	version, err := ListingVersion(ctx, scope)
	if err != nil {
		return err
	}
	key, err := ListingKey(scope, version, params)
	if err != nil {
		return err
	}
	return SetJSON(ctx, key, value, ttl)
}

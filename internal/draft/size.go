package draft

import "strings"

// Size 菜品份量
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Sizes 返回所有合法份量（按从小到大排序）
func Sizes() []Size {
	return []Size{SizeSmall, SizeMedium, SizeLarge}
}

// ParseSize 解析份量，忽略大小写与首尾空白
func ParseSize(raw string) (Size, error) {
	size := Size(strings.ToLower(strings.TrimSpace(raw)))
	if !size.Valid() {
		return "", ErrInvalidSize
	}
	return size, nil
}

// Valid 是否为合法份量
func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	default:
		return false
	}
}

func (s Size) String() string {
	return string(s)
}

package draft

import "github.com/shopspring/decimal"

// CatalogEntry 菜单项在某一份量下的报价
type CatalogEntry struct {
	Name  string
	Price decimal.Decimal
}

// Catalog 菜单报价查询
type Catalog interface {
	PriceFor(itemID uint, size Size) (CatalogEntry, error)
}

// StaticCatalog 内存菜单，key 为菜单项 ID
type StaticCatalog map[uint]StaticCatalogItem

// StaticCatalogItem 内存菜单项
type StaticCatalogItem struct {
	Name   string
	Prices map[Size]decimal.Decimal
}

// PriceFor 实现 Catalog
func (c StaticCatalog) PriceFor(itemID uint, size Size) (CatalogEntry, error) {
	item, ok := c[itemID]
	if !ok {
		return CatalogEntry{}, ErrItemNotFound
	}
	price, ok := item.Prices[size]
	if !ok {
		return CatalogEntry{}, ErrSizeUnavailable
	}
	return CatalogEntry{Name: item.Name, Price: price}, nil
}

package repository

import "time"

// CateringOrderListFilter 查询餐饮订单列表的过滤条件
type CateringOrderListFilter struct {
	Pagination
	Status       string
	PaymentState string // pending / paid / overpaid
	OrderNo      string
	Search       string // 客户姓名、手机号模糊匹配
	DeliveryFrom *time.Time
	DeliveryTo   *time.Time
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// TiffinListFilter 查询包月订阅列表的过滤条件
type TiffinListFilter struct {
	Pagination
	Status   string
	MealType string
	Search   string
	ActiveOn *time.Time // 该日期处于订阅期内
}

// DeliveryListFilter 查询配送单列表的过滤条件
type DeliveryListFilter struct {
	Pagination
	Date       *time.Time
	ZoneID     uint
	DriverID   uint
	Status     string
	SourceType string
	OrderNo    string
}

// MenuItemListFilter 查询菜单列表的过滤条件
type MenuItemListFilter struct {
	Pagination
	Category   string
	Search     string
	OnlyActive bool
}

// CustomerListFilter 查询客户列表的过滤条件
type CustomerListFilter struct {
	Pagination
	Search string
}

// StaffListFilter 查询员工列表的过滤条件
type StaffListFilter struct {
	Pagination
	StoreID uint
	Role    string
	Status  string
	Search  string
}

// ExpenseListFilter 查询支出列表的过滤条件
type ExpenseListFilter struct {
	Pagination
	StoreID  uint
	Category string
	From     *time.Time
	To       *time.Time
}

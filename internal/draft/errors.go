package draft

import "errors"

var (
	ErrInvalidSize         = errors.New("invalid size")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrQuantityAtMinimum   = errors.New("quantity is already at minimum")
	ErrIndexOutOfRange     = errors.New("line index out of range")
	ErrInvalidAmount       = errors.New("amount must be a non-negative number")
	ErrInvalidPaymentField = errors.New("unknown payment field")
	ErrCustomNameRequired  = errors.New("custom item name is required")
	ErrCustomPriceRequired = errors.New("custom item price is required")
	ErrUnknownAction       = errors.New("unknown draft action")
	ErrItemNotFound        = errors.New("menu item not found")
	ErrSizeUnavailable     = errors.New("size not available for menu item")
	ErrCatalogUnavailable  = errors.New("catalog unavailable")
)

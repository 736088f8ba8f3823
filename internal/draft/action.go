package draft

import "strings"

// ActionType 草稿动作类型
type ActionType string

const (
	ActionAddItem          ActionType = "add_item"
	ActionRemoveItem       ActionType = "remove_item"
	ActionIncrement        ActionType = "increment"
	ActionDecrement        ActionType = "decrement"
	ActionSetQuantity      ActionType = "set_quantity"
	ActionChangeSize       ActionType = "change_size"
	ActionAddCustomItem    ActionType = "add_custom_item"
	ActionRemoveCustomItem ActionType = "remove_custom_item"
	ActionSetPaymentField  ActionType = "set_payment_field"
	ActionSetTaxExempt     ActionType = "set_tax_exempt"
	ActionSetNote          ActionType = "set_note"
	ActionClear            ActionType = "clear"
)

// Action 可序列化的草稿动作，字段按动作类型取用
type Action struct {
	Type      ActionType `json:"type"`
	Index     int        `json:"index"`
	ItemID    uint       `json:"item_id"`
	Size      string     `json:"size"`
	Quantity  int        `json:"quantity"`
	Name      string     `json:"name"`
	Price     string     `json:"price"`
	Field     string     `json:"field"`
	Value     string     `json:"value"`
	TaxExempt bool       `json:"tax_exempt"`
	Note      string     `json:"note"`
}

// Apply 执行单个动作并返回新草稿；出错时返回原草稿
func Apply(d Draft, catalog Catalog, action Action) (Draft, error) {
	switch ActionType(strings.ToLower(strings.TrimSpace(string(action.Type)))) {
	case ActionAddItem:
		size, err := ParseSize(action.Size)
		if err != nil {
			return d, err
		}
		quantity := action.Quantity
		if quantity == 0 {
			quantity = 1
		}
		return AddItem(d, catalog, action.ItemID, size, quantity)
	case ActionRemoveItem:
		return RemoveItem(d, action.Index)
	case ActionIncrement:
		return IncrementQuantity(d, action.Index)
	case ActionDecrement:
		return DecrementQuantity(d, action.Index)
	case ActionSetQuantity:
		return SetQuantity(d, action.Index, action.Quantity)
	case ActionChangeSize:
		size, err := ParseSize(action.Size)
		if err != nil {
			return d, err
		}
		return ChangeSize(d, catalog, action.Index, size)
	case ActionAddCustomItem:
		price, set, err := ParseAmount(action.Price)
		if err != nil {
			return d, err
		}
		if !set {
			return d, ErrCustomPriceRequired
		}
		return AddCustomItem(d, action.Name, action.Size, price)
	case ActionRemoveCustomItem:
		return RemoveCustomItem(d, action.Index)
	case ActionSetPaymentField:
		field, err := ParsePaymentField(action.Field)
		if err != nil {
			return d, err
		}
		return SetPaymentField(d, field, action.Value)
	case ActionSetTaxExempt:
		return SetTaxExempt(d, action.TaxExempt), nil
	case ActionSetNote:
		return SetNote(d, action.Note), nil
	case ActionClear:
		return New(), nil
	default:
		return d, ErrUnknownAction
	}
}

// ApplyAll 依次执行多个动作，任一失败则整体回滚到原草稿
func ApplyAll(d Draft, catalog Catalog, actions []Action) (Draft, error) {
	current := d
	for _, action := range actions {
		next, err := Apply(current, catalog, action)
		if err != nil {
			return d, err
		}
		current = next
	}
	return current, nil
}

package models

import (
	"encoding/json"
	"testing"
)

func TestMoneyJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: `"12.5"`, want: `"12.50"`},
		{in: `12.345`, want: `"12.35"`},
		{in: `" 7 "`, want: `"7.00"`},
		{in: `""`, want: `"0.00"`},
	}
	for _, tc := range cases {
		var m Money
		if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
			t.Fatalf("unmarshal %s failed: %v", tc.in, err)
		}
		out, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(out) != tc.want {
			t.Fatalf("%s: want %s got %s", tc.in, tc.want, out)
		}
	}

	var bad Money
	if err := json.Unmarshal([]byte(`"twelve"`), &bad); err == nil {
		t.Fatalf("non-numeric amount should fail")
	}
}

func TestMoneyScan(t *testing.T) {
	var m Money
	if err := m.Scan("19.999"); err != nil || m.String() != "20.00" {
		t.Fatalf("scan string: got %s err=%v", m, err)
	}
	if err := m.Scan(nil); err != nil || !m.IsZero() {
		t.Fatalf("scan nil should reset to zero, got %s err=%v", m, err)
	}
	v, err := MoneyPtr(m.Decimal).Value()
	if err != nil || v != "0.00" {
		t.Fatalf("value: got %v err=%v", v, err)
	}
}

func TestJSONColumnsScan(t *testing.T) {
	var obj JSON
	if err := obj.Scan([]byte(`{"tax_rate":5}`)); err != nil || obj["tax_rate"] != float64(5) {
		t.Fatalf("scan bytes: %v err=%v", obj, err)
	}
	if err := obj.Scan(nil); err != nil || obj == nil || len(obj) != 0 {
		t.Fatalf("scan nil should give empty object, got %v err=%v", obj, err)
	}

	var days StringArray
	if err := days.Scan(`["mon","wed"]`); err != nil || len(days) != 2 || days[1] != "wed" {
		t.Fatalf("scan string: %v err=%v", days, err)
	}
	if err := days.Scan(42); err == nil {
		t.Fatalf("unsupported source type should fail")
	}
	if v, _ := StringArray(nil).Value(); v != "[]" {
		t.Fatalf("nil array should store [], got %v", v)
	}
}

func TestLineItemColumnsScan(t *testing.T) {
	var items LineItems
	raw := []byte(`[{"item_id":3,"name":"Dal","size":"large","quantity":2,"price_at_order":"16.00"}]`)
	if err := items.Scan(raw); err != nil || len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("scan bytes: %+v err=%v", items, err)
	}
	if items[0].PriceAtOrder.StringFixed(2) != "16.00" {
		t.Fatalf("price = %s", items[0].PriceAtOrder)
	}
	if err := items.Scan(string(raw)); err != nil || len(items) != 1 || items[0].ItemID != 3 {
		t.Fatalf("scan string: %+v err=%v", items, err)
	}
	if err := items.Scan(nil); err != nil || items == nil || len(items) != 0 {
		t.Fatalf("scan nil should give empty slice, got %+v err=%v", items, err)
	}
	if err := items.Scan(1.5); err == nil {
		t.Fatalf("unsupported source type should fail")
	}

	var custom CustomLineItems
	if err := custom.Scan(`[{"name":"Naan tray","size":"large","price_at_order":"10"}]`); err != nil || len(custom) != 1 || custom[0].Name != "Naan tray" {
		t.Fatalf("scan custom: %+v err=%v", custom, err)
	}
	if err := custom.Scan([]byte{}); err != nil || custom == nil || len(custom) != 0 {
		t.Fatalf("scan empty bytes should give empty slice, got %+v err=%v", custom, err)
	}
	if v, _ := CustomLineItems(nil).Value(); v != "[]" {
		t.Fatalf("nil custom items should store [], got %v", v)
	}
}

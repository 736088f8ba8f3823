package service

import (
	"bytes"
	"testing"

	"github.com/tiffin-desk/internal/constants"
)

func TestRenderCateringInvoice(t *testing.T) {
	f := setupServiceFixture(t)
	result := submitTestOrder(t, f, false)
	order, err := f.orderRepo.GetByID(result.OrderID)
	if err != nil || order == nil {
		t.Fatalf("load order failed: %v", err)
	}
	svc := NewInvoiceService(f.cfg, f.settings)
	pdf, err := svc.RenderCateringOrder(order)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected pdf output, got %q", pdf[:minInt(len(pdf), 8)])
	}
}

func TestRenderTiffinInvoice(t *testing.T) {
	f := setupServiceFixture(t)
	detail := createTestTiffin(t, f, "2030-01-07", "2030-01-13", []string{"mon", "tue", "wed", "thu", "fri", "sat"})
	svc := NewInvoiceService(f.cfg, f.settings)
	pdf, err := svc.RenderTiffinOrder(detail.Order)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected pdf output")
	}
	if _, err := svc.RenderTiffinOrder(nil); err == nil {
		t.Fatalf("nil order should fail")
	}
}

func TestInvoiceHeaderPrefersBusinessSetting(t *testing.T) {
	f := setupServiceFixture(t)
	svc := NewInvoiceService(f.cfg, f.settings)
	if got := svc.header().Name; got != "Test Kitchen" {
		t.Fatalf("header name = %q, want config value", got)
	}
	if _, err := f.settings.Update(constants.SettingKeyBusinessConfig, map[string]interface{}{
		constants.SettingFieldBusinessName: "Spice Route Catering",
	}); err != nil {
		t.Fatalf("update setting failed: %v", err)
	}
	if got := svc.header().Name; got != "Spice Route Catering" {
		t.Fatalf("header name = %q, want setting value", got)
	}
	if svc.currency() != "CAD" {
		t.Fatalf("currency = %s", svc.currency())
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("Paneer Tikka", 6); got != "Panee..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncateRunes("Dal", 6); got != "Dal" {
		t.Fatalf("short strings should be unchanged, got %q", got)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

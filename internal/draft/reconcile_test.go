package draft

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func sampleDraft() Draft {
	d := New()
	d.Items = []LineItem{{ItemID: 1, Name: "Paneer Tikka", Size: SizeMedium, Quantity: 2, PriceAtOrder: dec("10")}}
	d.CustomItems = []CustomLineItem{{Name: "Extra Raita", Size: "tub", PriceAtOrder: dec("5")}}
	d.DeliveryCharge = dec("3")
	return d
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s want %s got %s", name, want, got.String())
	}
}

func TestReconcileScenario(t *testing.T) {
	totals := Reconcile(sampleDraft(), dec("10"))
	assertDecimal(t, "subtotal", totals.Subtotal, "25")
	assertDecimal(t, "tax", totals.Tax, "2.5")
	assertDecimal(t, "total", totals.Total, "30.5")
	assertDecimal(t, "pending", totals.PendingBalance, "30.5")
	if totals.FullyPaid {
		t.Fatalf("expected not fully paid")
	}
	if totals.Overpaid {
		t.Fatalf("expected not overpaid")
	}
}

func TestReconcileExactAdvanceIsFullyPaid(t *testing.T) {
	d := sampleDraft()
	d.AdvancePaid = dec("30.5")
	totals := Reconcile(d, dec("10"))
	assertDecimal(t, "pending", totals.PendingBalance, "0")
	if !totals.FullyPaid {
		t.Fatalf("expected fully paid")
	}
	if totals.Overpaid {
		t.Fatalf("exact payment should not be overpaid")
	}
}

func TestReconcileOverpaymentIsNegativePending(t *testing.T) {
	d := sampleDraft()
	d.AdvancePaid = dec("40")
	totals := Reconcile(d, dec("10"))
	assertDecimal(t, "pending", totals.PendingBalance, "-9.5")
	if !totals.FullyPaid {
		t.Fatalf("expected fully paid on overpayment")
	}
	if !totals.Overpaid {
		t.Fatalf("expected overpaid flag")
	}
}

func TestReconcileDiscountReducesPending(t *testing.T) {
	d := sampleDraft()
	d.AdvancePaid = dec("10")
	d.Discount = dec("5.5")
	totals := Reconcile(d, dec("10"))
	assertDecimal(t, "total", totals.Total, "30.5")
	assertDecimal(t, "pending", totals.PendingBalance, "15")
}

func TestReconcileTaxExempt(t *testing.T) {
	d := sampleDraft()
	d.TaxExempt = true
	totals := Reconcile(d, dec("10"))
	assertDecimal(t, "tax", totals.Tax, "0")
	assertDecimal(t, "total", totals.Total, "28")
}

func TestReconcileEmptyDraft(t *testing.T) {
	d := New()
	d.DeliveryCharge = dec("4.25")
	totals := Reconcile(d, dec("13"))
	assertDecimal(t, "subtotal", totals.Subtotal, "0")
	assertDecimal(t, "tax", totals.Tax, "0")
	assertDecimal(t, "total", totals.Total, "4.25")
}

func TestReconcileIsIdempotent(t *testing.T) {
	d := sampleDraft()
	d.AdvancePaid = dec("12.34")
	first := Reconcile(d, dec("8.875"))
	second := Reconcile(d, dec("8.875"))
	if !first.Subtotal.Equal(second.Subtotal) || !first.Tax.Equal(second.Tax) ||
		!first.Total.Equal(second.Total) || !first.PendingBalance.Equal(second.PendingBalance) ||
		first.FullyPaid != second.FullyPaid {
		t.Fatalf("reconcile not idempotent: %+v vs %+v", first, second)
	}
}

func TestReconcileInvariants(t *testing.T) {
	cases := []struct {
		name    string
		rate    string
		advance string
		disc    string
		exempt  bool
	}{
		{name: "plain", rate: "5", advance: "0", disc: "0"},
		{name: "fractional rate", rate: "8.875", advance: "3.33", disc: "1"},
		{name: "exempt", rate: "18", advance: "100", disc: "0", exempt: true},
		{name: "zero rate", rate: "0", advance: "0", disc: "2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := sampleDraft()
			d.Items = append(d.Items, LineItem{ItemID: 2, Name: "Dal", Size: SizeLarge, Quantity: 3, PriceAtOrder: dec("7.99")})
			d.AdvancePaid = dec(tc.advance)
			d.Discount = dec(tc.disc)
			d.TaxExempt = tc.exempt
			totals := Reconcile(d, dec(tc.rate))
			if !totals.Total.Equal(totals.Subtotal.Add(totals.Tax).Add(d.DeliveryCharge)) {
				t.Fatalf("total invariant broken: %+v", totals)
			}
			if !totals.PendingBalance.Equal(totals.Total.Sub(d.AdvancePaid).Sub(d.Discount)) {
				t.Fatalf("pending invariant broken: %+v", totals)
			}
			if totals.FullyPaid != !totals.PendingBalance.IsPositive() {
				t.Fatalf("fully paid flag mismatch: %+v", totals)
			}
			if tc.exempt && !totals.Tax.IsZero() {
				t.Fatalf("exempt draft should have zero tax, got %s", totals.Tax)
			}
		})
	}
}

func TestReconcileRoundsTaxToCents(t *testing.T) {
	d := New()
	d.Items = []LineItem{{ItemID: 1, Size: SizeSmall, Quantity: 1, PriceAtOrder: dec("9.99")}}
	totals := Reconcile(d, dec("7.5"))
	// 9.99 * 7.5% = 0.74925
	assertDecimal(t, "tax", totals.Tax, "0.75")
	assertDecimal(t, "total", totals.Total, "10.74")
}

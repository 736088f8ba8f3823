package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/draft"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"
)

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format(dateLayout)
}

func buildTestDraft(t *testing.T, f *serviceFixture) string {
	t.Helper()
	ctx := context.Background()
	item := f.createMenuItem(t, "Butter Chicken", "8.00", "12.50", "20.00")
	view, err := f.drafts.Create(ctx, 1)
	if err != nil {
		t.Fatalf("create draft failed: %v", err)
	}
	_, err = f.drafts.ApplyActions(ctx, view.ID, 1, []draft.Action{
		{Type: draft.ActionAddItem, ItemID: item.ID, Size: "medium", Quantity: 2},
		{Type: draft.ActionAddCustomItem, Name: "Naan tray", Size: "large", Price: "10"},
		{Type: draft.ActionSetPaymentField, Field: "delivery_charge", Value: "5"},
		{Type: draft.ActionSetPaymentField, Field: "advance_paid", Value: "20"},
	})
	if err != nil {
		t.Fatalf("apply actions failed: %v", err)
	}
	return view.ID
}

func submitTestOrder(t *testing.T, f *serviceFixture, notify bool) *SubmitResult {
	t.Helper()
	draftID := buildTestDraft(t, f)
	result, err := f.orders.SubmitCateringOrder(context.Background(), SubmitCateringOrderInput{
		DraftID:         draftID,
		Customer:        CustomerInput{Name: "Asha Patel", Phone: "+1 (416) 555-0101"},
		DeliveryAddress: "12 King St W",
		PostalCode:      "m5h 1a1",
		DeliveryDate:    tomorrow(),
		DeliveryTime:    "18:30",
		NotifyCustomer:  notify,
		AdminID:         1,
	})
	if err != nil {
		t.Fatalf("submit order failed: %v", err)
	}
	return result
}

func TestSubmitCateringOrderReconcilesAndPersists(t *testing.T) {
	f := setupServiceFixture(t)
	result := submitTestOrder(t, f, true)

	if result.Totals.Subtotal.StringFixed(2) != "35.00" {
		t.Fatalf("unexpected subtotal: %s", result.Totals.Subtotal)
	}
	if result.Totals.Tax.StringFixed(2) != "1.75" {
		t.Fatalf("unexpected tax: %s", result.Totals.Tax)
	}
	if result.Totals.Total.StringFixed(2) != "41.75" {
		t.Fatalf("unexpected total: %s", result.Totals.Total)
	}
	if result.Totals.PendingBalance.StringFixed(2) != "21.75" {
		t.Fatalf("unexpected pending: %s", result.Totals.PendingBalance)
	}
	if result.PaymentState != constants.PaymentStatePending {
		t.Fatalf("unexpected payment state: %s", result.PaymentState)
	}
	if !result.NotificationSent || result.NotificationQueued {
		t.Fatalf("expected synchronous notification, got sent=%v queued=%v", result.NotificationSent, result.NotificationQueued)
	}
	if len(f.notifier.sent()) != 1 {
		t.Fatalf("expected one message, got %d", len(f.notifier.sent()))
	}

	detail, err := f.orders.GetOrder(result.OrderID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	order := detail.Order
	if order.CustomerPhone != "+14165550101" {
		t.Fatalf("phone not normalized: %s", order.CustomerPhone)
	}
	if order.PostalCode != "M5H1A1" {
		t.Fatalf("postal code not normalized: %s", order.PostalCode)
	}
	if !order.NotificationSent {
		t.Fatalf("notification flag should be recorded")
	}
	if len(detail.Deliveries) != 1 || detail.Deliveries[0].Status != constants.DeliveryStatusPending {
		t.Fatalf("expected one pending delivery, got %+v", detail.Deliveries)
	}
	if len(detail.Events) != 1 || detail.Events[0].Action != eventActionCreated {
		t.Fatalf("expected created event, got %+v", detail.Events)
	}

	var customer models.Customer
	if err := f.db.Where("phone = ?", order.CustomerPhone).First(&customer).Error; err != nil {
		t.Fatalf("customer not upserted: %v", err)
	}
	if customer.OrderCount != 1 {
		t.Fatalf("unexpected order count: %d", customer.OrderCount)
	}
}

func TestSubmitCateringOrderClearsDraftOnlyOnSuccess(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	draftID := buildTestDraft(t, f)

	_, err := f.orders.SubmitCateringOrder(ctx, SubmitCateringOrderInput{
		DraftID:         draftID,
		Customer:        CustomerInput{Name: "Asha", Phone: "4165550101"},
		DeliveryAddress: "12 King St W",
		DeliveryDate:    time.Now().AddDate(0, 0, -2).Format(dateLayout),
		AdminID:         1,
	})
	if !errors.Is(err, ErrDeliveryDatePast) {
		t.Fatalf("expected past date error, got %v", err)
	}
	if _, err := f.drafts.Get(ctx, draftID, 1); err != nil {
		t.Fatalf("draft should survive a rejected submission: %v", err)
	}

	_, err = f.orders.SubmitCateringOrder(ctx, SubmitCateringOrderInput{
		DraftID:         draftID,
		Customer:        CustomerInput{Name: "Asha", Phone: "4165550101"},
		DeliveryAddress: "12 King St W",
		DeliveryDate:    tomorrow(),
		AdminID:         1,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := f.drafts.Get(ctx, draftID, 1); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("draft should be discarded after submit, got %v", err)
	}
}

func TestSubmitCateringOrderValidation(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	_, err := f.orders.SubmitCateringOrder(ctx, SubmitCateringOrderInput{
		Customer:        CustomerInput{Name: "Asha", Phone: "4165550101"},
		DeliveryAddress: "12 King St W",
		DeliveryDate:    tomorrow(),
	})
	if !errors.Is(err, ErrOrderEmpty) {
		t.Fatalf("expected empty order error, got %v", err)
	}

	_, err = f.orders.SubmitCateringOrder(ctx, SubmitCateringOrderInput{
		Customer:     CustomerInput{Name: "Asha"},
		DeliveryDate: "next friday",
	})
	if !errors.Is(err, ErrOrderValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitCateringOrderInlineItems(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	item := f.createMenuItem(t, "Butter Chicken", "8.00", "12.50", "20.00")

	input := SubmitCateringOrderInput{
		Customer:        CustomerInput{Name: "Asha Patel", Phone: "4165550101"},
		DeliveryAddress: "12 King St W",
		DeliveryDate:    tomorrow(),
		Items:           []OrderItemInput{{ItemID: item.ID, Size: "medium", Quantity: 2}},
		CustomItems:     []CustomItemInput{{Name: "Naan tray", Size: "large", Price: "10"}},
		DeliveryCharge:  "5",
		AdvancePaid:     "20",
		Note:            "Leave at reception",
		AdminID:         1,
	}
	result, err := f.orders.SubmitCateringOrder(ctx, input)
	if err != nil {
		t.Fatalf("inline submit failed: %v", err)
	}
	// 与草稿录单得到的金额一致
	if got := result.Totals.Total.StringFixed(2); got != "41.75" {
		t.Fatalf("total = %s, want 41.75", got)
	}
	if got := result.Totals.PendingBalance.StringFixed(2); got != "21.75" {
		t.Fatalf("pending = %s, want 21.75", got)
	}

	detail, err := f.orders.GetOrder(result.OrderID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	order := detail.Order
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 || order.Items[0].PriceAtOrder.StringFixed(2) != "12.50" {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
	if len(order.CustomItems) != 1 || order.CustomItems[0].Name != "Naan tray" {
		t.Fatalf("unexpected custom items: %+v", order.CustomItems)
	}
	if order.Note != "Leave at reception" {
		t.Fatalf("note = %q", order.Note)
	}

	bad := input
	bad.Items = []OrderItemInput{{ItemID: 9999, Size: "medium", Quantity: 1}}
	if _, err := f.orders.SubmitCateringOrder(ctx, bad); !errors.Is(err, draft.ErrItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}
	bad = input
	bad.DeliveryCharge = "-5"
	if _, err := f.orders.SubmitCateringOrder(ctx, bad); !errors.Is(err, draft.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	bad = input
	bad.DraftID = buildTestDraft(t, f)
	if _, err := f.orders.SubmitCateringOrder(ctx, bad); !errors.Is(err, ErrOrderValidation) {
		t.Fatalf("draft_id with inline items should be rejected, got %v", err)
	}

	var count int64
	if err := f.db.Model(&models.CateringOrder{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("rejected submissions must not persist, count=%d", count)
	}
}

func TestSubmitCateringOrderTwiceFromSameDraft(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	draftID := buildTestDraft(t, f)

	input := SubmitCateringOrderInput{
		DraftID:         draftID,
		Customer:        CustomerInput{Name: "Asha", Phone: "4165550101"},
		DeliveryAddress: "12 King St W",
		DeliveryDate:    tomorrow(),
		AdminID:         1,
	}
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := f.orders.SubmitCateringOrder(ctx, input)
			errs <- err
		}()
	}
	var ok, missing int
	for i := 0; i < 2; i++ {
		err := <-errs
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDraftNotFound):
			missing++
		default:
			t.Fatalf("unexpected submit error: %v", err)
		}
	}
	if ok != 1 || missing != 1 {
		t.Fatalf("expected one order and one missing draft, got ok=%d missing=%d", ok, missing)
	}

	var count int64
	if err := f.db.Model(&models.CateringOrder{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single order, got %d", count)
	}
	if n := f.drafts.locks.size(); n != 0 {
		t.Fatalf("lock table should be empty, size=%d", n)
	}
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	result := submitTestOrder(t, f, false)

	if _, err := f.orders.UpdateStatus(ctx, result.OrderID, constants.OrderStatusDelivered, 1); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	for _, status := range []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusReady,
		constants.OrderStatusOutForDelivery,
		constants.OrderStatusDelivered,
	} {
		order, err := f.orders.UpdateStatus(ctx, result.OrderID, status, 1)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
		if order.Status != status {
			t.Fatalf("expected %s, got %s", status, order.Status)
		}
	}
	detail, err := f.orders.GetOrder(result.OrderID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if detail.Deliveries[0].Status != constants.DeliveryStatusDelivered {
		t.Fatalf("delivery not synced: %s", detail.Deliveries[0].Status)
	}
	if _, err := f.orders.UpdateStatus(ctx, result.OrderID, constants.OrderStatusCanceled, 1); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("delivered order must not be canceled, got %v", err)
	}
}

func TestCancelOrderFailsDelivery(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	result := submitTestOrder(t, f, false)

	if _, err := f.orders.UpdateStatus(ctx, result.OrderID, constants.OrderStatusCanceled, 1); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	detail, err := f.orders.GetOrder(result.OrderID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if detail.Order.CanceledAt == nil {
		t.Fatalf("canceled_at should be set")
	}
	if detail.Deliveries[0].Status != constants.DeliveryStatusFailed {
		t.Fatalf("expected failed delivery, got %s", detail.Deliveries[0].Status)
	}
	if _, _, err := f.orders.EditOrder(ctx, result.OrderID, nil, 1); !errors.Is(err, ErrOrderNotEditable) {
		t.Fatalf("canceled order must not be editable, got %v", err)
	}
}

func TestRecordPaymentCanOverpay(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	result := submitTestOrder(t, f, false)

	if _, _, err := f.orders.RecordPayment(ctx, result.OrderID, "-5", 1); !errors.Is(err, ErrPaymentAmount) {
		t.Fatalf("expected payment amount error, got %v", err)
	}
	order, totals, err := f.orders.RecordPayment(ctx, result.OrderID, "21.75", 1)
	if err != nil {
		t.Fatalf("record payment failed: %v", err)
	}
	if !totals.FullyPaid || totals.Overpaid {
		t.Fatalf("expected exact payment, got %+v", totals)
	}
	if order.PaymentState() != constants.PaymentStatePaid {
		t.Fatalf("unexpected payment state: %s", order.PaymentState())
	}
	order, totals, err = f.orders.RecordPayment(ctx, result.OrderID, "3", 1)
	if err != nil {
		t.Fatalf("record payment failed: %v", err)
	}
	if !totals.Overpaid || totals.PendingBalance.StringFixed(2) != "-3.00" {
		t.Fatalf("expected overpaid -3.00, got %+v", totals)
	}
	if order.PaymentState() != constants.PaymentStateOverpaid {
		t.Fatalf("unexpected payment state: %s", order.PaymentState())
	}
}

func TestEditOrderKeepsOrderTaxRate(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	result := submitTestOrder(t, f, false)

	if _, err := f.settings.Update(constants.SettingKeyOrderConfig, map[string]interface{}{"tax_rate": 13}); err != nil {
		t.Fatalf("update setting failed: %v", err)
	}
	order, totals, err := f.orders.EditOrder(ctx, result.OrderID, []draft.Action{
		{Type: draft.ActionIncrement, Index: 0},
	}, 1)
	if err != nil {
		t.Fatalf("edit order failed: %v", err)
	}
	if totals.Subtotal.StringFixed(2) != "47.50" {
		t.Fatalf("unexpected subtotal: %s", totals.Subtotal)
	}
	if totals.Tax.StringFixed(2) != "2.38" {
		t.Fatalf("edit should keep 5%% tax, got %s", totals.Tax)
	}
	if order.Items[0].Quantity != 3 {
		t.Fatalf("unexpected quantity: %d", order.Items[0].Quantity)
	}
}

func TestListOrdersFiltersByPaymentState(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	first := submitTestOrder(t, f, false)
	submitTestOrder(t, f, false)
	if _, _, err := f.orders.RecordPayment(ctx, first.OrderID, "21.75", 1); err != nil {
		t.Fatalf("record payment failed: %v", err)
	}

	filter := repository.CateringOrderListFilter{PaymentState: constants.PaymentStatePaid}
	orders, total, err := f.orders.ListOrders(ctx, filter)
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].ID != first.OrderID {
		t.Fatalf("expected only the paid order, got total=%d", total)
	}
}

package service

import (
	"errors"
	"testing"

	"github.com/tiffin-desk/internal/repository"
)

func setupStoreServiceTest(t *testing.T) (*StoreService, *ExpenseService) {
	t.Helper()
	db := openServiceTestDB(t)
	storeRepo := repository.NewStoreRepository(db)
	stores := NewStoreService(storeRepo, repository.NewStaffRepository(db))
	expenses := NewExpenseService(repository.NewExpenseRepository(db), storeRepo)
	return stores, expenses
}

func TestSaveStoreNormalizesAndKeepsCodeUnique(t *testing.T) {
	stores, _ := setupStoreServiceTest(t)
	store, err := stores.SaveStore(0, StoreInput{Code: " dt01 ", Name: "Downtown", Phone: "(416) 555-0100", PostalCode: "m5v 2t6", IsActive: true})
	if err != nil {
		t.Fatalf("save store failed: %v", err)
	}
	if store.Code != "DT01" || store.Phone != "4165550100" || store.PostalCode != "M5V2T6" {
		t.Fatalf("unexpected normalization: %+v", store)
	}
	if _, err := stores.SaveStore(0, StoreInput{Code: "DT01", Name: "Other"}); !errors.Is(err, ErrStoreCodeExists) {
		t.Fatalf("expected duplicate code, got %v", err)
	}
	if _, err := stores.SaveStore(0, StoreInput{Code: "", Name: "Nameless"}); !errors.Is(err, ErrStoreInvalid) {
		t.Fatalf("expected invalid store, got %v", err)
	}
	updated, err := stores.SaveStore(store.ID, StoreInput{Code: "DT01", Name: "Downtown Kitchen", IsActive: true})
	if err != nil {
		t.Fatalf("update with own code should pass: %v", err)
	}
	if updated.Name != "Downtown Kitchen" {
		t.Fatalf("name not updated: %+v", updated)
	}
}

func TestStaffLifecycleBlocksStoreDelete(t *testing.T) {
	stores, _ := setupStoreServiceTest(t)
	store, err := stores.SaveStore(0, StoreInput{Code: "SC01", Name: "Scarborough", IsActive: true})
	if err != nil {
		t.Fatalf("save store failed: %v", err)
	}
	if _, err := stores.SaveStaff(0, StaffInput{StoreID: store.ID, Name: "Meena", Role: "sous-chef"}); !errors.Is(err, ErrStaffInvalid) {
		t.Fatalf("expected invalid role, got %v", err)
	}
	if _, err := stores.SaveStaff(0, StaffInput{StoreID: store.ID + 100, Name: "Meena", Role: "chef"}); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("expected store not found, got %v", err)
	}
	staff, err := stores.SaveStaff(0, StaffInput{StoreID: store.ID, Name: "Meena", Role: "Chef", HourlyRate: "19.5", JoinedAt: "2029-05-01"})
	if err != nil {
		t.Fatalf("save staff failed: %v", err)
	}
	if staff.Role != "chef" || staff.Status != "active" || staff.HourlyRate.String() != "19.50" || staff.JoinedAt == nil {
		t.Fatalf("unexpected staff: %+v", staff)
	}
	if err := stores.DeleteStore(store.ID); !errors.Is(err, ErrStoreHasStaff) {
		t.Fatalf("expected store has staff, got %v", err)
	}

	list, total, err := stores.ListStaff(repository.StaffListFilter{StoreID: store.ID})
	if err != nil || total != 1 || len(list) != 1 {
		t.Fatalf("list staff: total=%d len=%d err=%v", total, len(list), err)
	}
	if err := stores.DeleteStaff(staff.ID); err != nil {
		t.Fatalf("delete staff failed: %v", err)
	}
	if err := stores.DeleteStore(store.ID); err != nil {
		t.Fatalf("delete store failed: %v", err)
	}
}

func TestExpenseSaveValidates(t *testing.T) {
	stores, expenses := setupStoreServiceTest(t)
	store, err := stores.SaveStore(0, StoreInput{Code: "NY01", Name: "North York", IsActive: true})
	if err != nil {
		t.Fatalf("save store failed: %v", err)
	}
	invalid := []ExpenseInput{
		{Category: "travel", Amount: "10", SpentOn: "2030-01-02"},
		{Category: "fuel", Amount: "0", SpentOn: "2030-01-02"},
		{Category: "fuel", Amount: "", SpentOn: "2030-01-02"},
		{Category: "fuel", Amount: "10", SpentOn: "02/01/2030"},
	}
	for _, input := range invalid {
		if _, err := expenses.Save(0, input); !errors.Is(err, ErrExpenseInvalid) {
			t.Fatalf("%+v: expected invalid expense, got %v", input, err)
		}
	}
	if _, err := expenses.Save(0, ExpenseInput{StoreID: 999, Category: "fuel", Amount: "10", SpentOn: "2030-01-02"}); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("expected store not found, got %v", err)
	}

	expense, err := expenses.Save(0, ExpenseInput{StoreID: store.ID, Category: " Ingredients ", Amount: "84.3", SpentOn: "2030-01-02", Vendor: " Farm Boy ", AdminID: 2})
	if err != nil {
		t.Fatalf("save expense failed: %v", err)
	}
	if expense.Category != "ingredients" || expense.Amount.String() != "84.30" || expense.Vendor != "Farm Boy" || expense.CreatedByAdminID != 2 {
		t.Fatalf("unexpected expense: %+v", expense)
	}
	updated, err := expenses.Save(expense.ID, ExpenseInput{StoreID: store.ID, Category: "ingredients", Amount: "90", SpentOn: "2030-01-03"})
	if err != nil {
		t.Fatalf("update expense failed: %v", err)
	}
	if updated.CreatedByAdminID != 2 || updated.Amount.String() != "90.00" {
		t.Fatalf("update should keep creator: %+v", updated)
	}
	if err := expenses.Delete(expense.ID); err != nil {
		t.Fatalf("delete expense failed: %v", err)
	}
	if _, err := expenses.Get(expense.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

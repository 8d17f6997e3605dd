package payments

import (
	"testing"

	"github.com/google/uuid"

	"github.com/harvestlane/marketplace-backend/pkg/db/models"
)

func TestSplitItemsByOwner(t *testing.T) {
	t.Parallel()

	supplierA := uuid.New()
	supplierB := uuid.New()
	items := []models.OrderItem{
		{ID: uuid.New(), UnitPriceCents: 100, Qty: 1},
		{ID: uuid.New(), SupplierID: &supplierA, UnitPriceCents: 200, Qty: 2},
		{ID: uuid.New(), UnitPriceCents: 300, Qty: 1},
		{ID: uuid.New(), SupplierID: &supplierB, UnitPriceCents: 400, Qty: 1},
		{ID: uuid.New(), SupplierID: &supplierA, UnitPriceCents: 500, Qty: 3},
	}

	split := SplitItemsByOwner(items)

	if len(split.AdminItems) != 2 {
		t.Fatalf("expected 2 admin items, got %d", len(split.AdminItems))
	}
	if split.AdminItems[0].ID != items[0].ID || split.AdminItems[1].ID != items[2].ID {
		t.Fatal("admin items out of order")
	}
	if len(split.SupplierItems) != 2 {
		t.Fatalf("expected 2 supplier buckets, got %d", len(split.SupplierItems))
	}
	bucketA := split.SupplierItems[supplierA]
	if len(bucketA) != 2 || bucketA[0].ID != items[1].ID || bucketA[1].ID != items[4].ID {
		t.Fatalf("unexpected supplier A bucket: %+v", bucketA)
	}
	if len(split.SupplierItems[supplierB]) != 1 {
		t.Fatalf("unexpected supplier B bucket: %+v", split.SupplierItems[supplierB])
	}
}

func TestSplitItemsByOwnerEmpty(t *testing.T) {
	t.Parallel()

	split := SplitItemsByOwner(nil)
	if len(split.AdminItems) != 0 || len(split.SupplierItems) != 0 {
		t.Fatalf("expected empty split, got %+v", split)
	}
}

func TestCalculateTotal(t *testing.T) {
	t.Parallel()

	items := []models.OrderItem{
		{UnitPriceCents: 250, Qty: 4},
		{UnitPriceCents: 1000, Qty: 1},
	}
	if got := CalculateTotal(items); got != 2000 {
		t.Fatalf("expected total 2000, got %d", got)
	}
	if got := CalculateTotal(nil); got != 0 {
		t.Fatalf("expected zero total for empty bucket, got %d", got)
	}
}

func TestCalculateAmounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		items          []models.OrderItem
		wantTotal      int
		wantCommission int
	}{
		{
			name:           "even quarter",
			items:          []models.OrderItem{{UnitPriceCents: 1000, Qty: 1}},
			wantTotal:      1000,
			wantCommission: 250,
		},
		{
			name:           "fraction rounds down",
			items:          []models.OrderItem{{UnitPriceCents: 1001, Qty: 1}},
			wantTotal:      1001,
			wantCommission: 250,
		},
		{
			name:           "half cent rounds up",
			items:          []models.OrderItem{{UnitPriceCents: 1002, Qty: 1}},
			wantTotal:      1002,
			wantCommission: 251,
		},
		{
			name:           "multiple lines",
			items:          []models.OrderItem{{UnitPriceCents: 333, Qty: 3}, {UnitPriceCents: 1, Qty: 1}},
			wantTotal:      1000,
			wantCommission: 250,
		},
		{
			name:           "empty bucket",
			items:          nil,
			wantTotal:      0,
			wantCommission: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			amounts := CalculateAmounts(tc.items)
			if amounts.TotalCents != tc.wantTotal {
				t.Fatalf("expected total %d, got %d", tc.wantTotal, amounts.TotalCents)
			}
			if amounts.CommissionCents != tc.wantCommission {
				t.Fatalf("expected commission %d, got %d", tc.wantCommission, amounts.CommissionCents)
			}
			if amounts.PayableCents != amounts.TotalCents-amounts.CommissionCents {
				t.Fatalf("payable does not balance: %+v", amounts)
			}
		})
	}
}

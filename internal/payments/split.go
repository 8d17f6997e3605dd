package payments

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harvestlane/marketplace-backend/pkg/db/models"
)

// commissionRate is the platform share withheld from every supplier bucket.
// Fixed platform policy; there is no per-supplier override.
var commissionRate = decimal.New(25, -2)

// SplitResult partitions an order's items by economic owner. Item order within
// each group follows the order's item order.
type SplitResult struct {
	AdminItems    []models.OrderItem
	SupplierItems map[uuid.UUID][]models.OrderItem
}

// SplitItemsByOwner groups items without a supplier into the admin bucket and
// the rest into per-supplier buckets. Pure, no failure modes.
func SplitItemsByOwner(items []models.OrderItem) SplitResult {
	result := SplitResult{
		SupplierItems: make(map[uuid.UUID][]models.OrderItem),
	}
	for _, item := range items {
		if item.SupplierID == nil {
			result.AdminItems = append(result.AdminItems, item)
			continue
		}
		supplierID := *item.SupplierID
		result.SupplierItems[supplierID] = append(result.SupplierItems[supplierID], item)
	}
	return result
}

// Amounts is the settlement math for one owner bucket.
type Amounts struct {
	TotalCents      int
	CommissionCents int
	PayableCents    int
}

// CalculateAmounts sums a bucket and withholds the platform commission,
// rounding half up to the nearest cent. Commission never exceeds the total.
func CalculateAmounts(items []models.OrderItem) Amounts {
	total := CalculateTotal(items)
	commission := int(decimal.NewFromInt(int64(total)).Mul(commissionRate).Round(0).IntPart())
	return Amounts{
		TotalCents:      total,
		CommissionCents: commission,
		PayableCents:    total - commission,
	}
}

// CalculateTotal sums unit price times quantity over the bucket. Used as-is
// for the admin bucket: no commission is withheld from the platform's own
// items.
func CalculateTotal(items []models.OrderItem) int {
	total := 0
	for _, item := range items {
		total += item.UnitPriceCents * item.Qty
	}
	return total
}

package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/harvestlane/marketplace-backend/pkg/db/models"
	"github.com/harvestlane/marketplace-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
)

type stubProducts map[uuid.UUID]*models.Product

func (s stubProducts) FindProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	return s[id], nil
}

type stubWholesales map[uuid.UUID]*models.Wholesale

func (s stubWholesales) FindWholesaleByID(_ context.Context, id uuid.UUID) (*models.Wholesale, error) {
	return s[id], nil
}

func newTestResolver(t *testing.T, products stubProducts, wholesales stubWholesales) *Resolver {
	t.Helper()
	if products == nil {
		products = stubProducts{}
	}
	if wholesales == nil {
		wholesales = stubWholesales{}
	}
	resolver, err := NewResolver(products, wholesales)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver
}

func intPtr(v int) *int { return &v }

func TestResolveVariantDiscountOverridesPrice(t *testing.T) {
	t.Parallel()

	supplierID := uuid.New()
	productID := uuid.New()
	variantID := uuid.New()
	resolver := newTestResolver(t, stubProducts{
		productID: {
			ID:         productID,
			SupplierID: &supplierID,
			Variants: []models.ProductVariant{
				{ID: variantID, ProductID: productID, PriceCents: 1200, DiscountPriceCents: intPtr(900), StockQty: 7},
			},
		},
	}, nil)

	quote, err := resolver.Resolve(context.Background(), LineItem{ProductID: productID, VariantID: &variantID, Qty: 1})
	if err != nil {
		t.Fatalf("resolve variant: %v", err)
	}
	if quote.UnitPriceCents != 900 {
		t.Fatalf("expected discount price 900, got %d", quote.UnitPriceCents)
	}
	if quote.OriginalPriceCents != 1200 {
		t.Fatalf("expected original price 1200, got %d", quote.OriginalPriceCents)
	}
	if quote.AvailableQty == nil || *quote.AvailableQty != 7 {
		t.Fatalf("unexpected available qty: %v", quote.AvailableQty)
	}
	if quote.SupplierID == nil || *quote.SupplierID != supplierID {
		t.Fatalf("expected supplier snapshot, got %v", quote.SupplierID)
	}
	if quote.Handle.Kind != enums.StockKindVariant || quote.Handle.VariantID != variantID {
		t.Fatalf("unexpected handle: %+v", quote.Handle)
	}
}

func TestResolveVariantZeroDiscountKeepsBasePrice(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	variantID := uuid.New()
	resolver := newTestResolver(t, stubProducts{
		productID: {
			ID: productID,
			Variants: []models.ProductVariant{
				{ID: variantID, ProductID: productID, PriceCents: 1500, DiscountPriceCents: intPtr(0)},
			},
		},
	}, nil)

	quote, err := resolver.Resolve(context.Background(), LineItem{ProductID: productID, VariantID: &variantID, Qty: 2})
	if err != nil {
		t.Fatalf("resolve variant: %v", err)
	}
	if quote.UnitPriceCents != 1500 {
		t.Fatalf("expected base price 1500, got %d", quote.UnitPriceCents)
	}
}

func TestResolveCaseAppliesDiscountPercent(t *testing.T) {
	t.Parallel()

	supplierID := uuid.New()
	productID := uuid.New()
	wholesaleID := uuid.New()
	resolver := newTestResolver(t,
		stubProducts{productID: {ID: productID}},
		stubWholesales{wholesaleID: {
			ID:         wholesaleID,
			SupplierID: &supplierID,
			Type:       enums.WholesaleTypeCase,
			CaseItems: []models.WholesaleCaseItem{
				{WholesaleID: wholesaleID, ProductID: productID, PriceCents: 125, DiscountPercent: 10, Quantity: 30},
			},
		}},
	)

	quote, err := resolver.Resolve(context.Background(), LineItem{ProductID: productID, WholesaleID: &wholesaleID, Qty: 1})
	if err != nil {
		t.Fatalf("resolve case: %v", err)
	}
	// 125 * 0.9 = 112.5, rounded half up.
	if quote.UnitPriceCents != 113 {
		t.Fatalf("expected discounted price 113, got %d", quote.UnitPriceCents)
	}
	if quote.OriginalPriceCents != 125 || quote.DiscountPercent != 10 {
		t.Fatalf("unexpected quote: %+v", quote)
	}
	if quote.SupplierID == nil || *quote.SupplierID != supplierID {
		t.Fatalf("expected wholesale supplier snapshot, got %v", quote.SupplierID)
	}
	if quote.Handle.Kind != enums.StockKindWholesaleCase || quote.Handle.WholesaleID != wholesaleID {
		t.Fatalf("unexpected handle: %+v", quote.Handle)
	}
}

func TestResolvePalletUsesFlatPrice(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	wholesaleID := uuid.New()
	palletID := uuid.New()
	resolver := newTestResolver(t,
		stubProducts{productID: {ID: productID}},
		stubWholesales{wholesaleID: {
			ID:   wholesaleID,
			Type: enums.WholesaleTypePallet,
			PalletItems: []models.WholesalePallet{
				{
					ID:          palletID,
					WholesaleID: wholesaleID,
					Name:        "Mixed A",
					PriceCents:  250000,
					Items: []models.WholesalePalletItem{
						{PalletID: palletID, ProductID: productID, CaseQuantity: 12},
					},
				},
			},
		}},
	)

	quote, err := resolver.Resolve(context.Background(), LineItem{ProductID: productID, WholesaleID: &wholesaleID, Qty: 1})
	if err != nil {
		t.Fatalf("resolve pallet: %v", err)
	}
	if quote.UnitPriceCents != 250000 || quote.DiscountPercent != 0 {
		t.Fatalf("unexpected quote: %+v", quote)
	}
	if quote.AvailableQty == nil || *quote.AvailableQty != 12 {
		t.Fatalf("unexpected available qty: %v", quote.AvailableQty)
	}
	if quote.Handle.Kind != enums.StockKindWholesalePallet || quote.Handle.PalletID != palletID {
		t.Fatalf("unexpected handle: %+v", quote.Handle)
	}
}

func TestResolveFastMoving(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	wholesaleID := uuid.New()
	resolver := newTestResolver(t,
		stubProducts{productID: {ID: productID}},
		stubWholesales{wholesaleID: {
			ID:   wholesaleID,
			Type: enums.WholesaleTypeFastMoving,
			FastMovingItems: []models.WholesaleFastMovingItem{
				{WholesaleID: wholesaleID, ProductID: productID, PriceCents: 450, Quantity: 100},
			},
		}},
	)

	quote, err := resolver.Resolve(context.Background(), LineItem{ProductID: productID, WholesaleID: &wholesaleID, Qty: 3})
	if err != nil {
		t.Fatalf("resolve fast moving: %v", err)
	}
	if quote.UnitPriceCents != 450 {
		t.Fatalf("expected price 450, got %d", quote.UnitPriceCents)
	}
	if quote.Handle.Kind != enums.StockKindFastMoving {
		t.Fatalf("unexpected handle: %+v", quote.Handle)
	}
}

func TestResolveRetail(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	resolver := newTestResolver(t, stubProducts{
		productID: {ID: productID, RetailPriceCents: 799, StockQty: intPtr(4)},
	}, nil)

	quote, err := resolver.Resolve(context.Background(), LineItem{ProductID: productID, Qty: 1})
	if err != nil {
		t.Fatalf("resolve retail: %v", err)
	}
	if quote.UnitPriceCents != 799 {
		t.Fatalf("expected retail price 799, got %d", quote.UnitPriceCents)
	}
	if quote.AvailableQty == nil || *quote.AvailableQty != 4 {
		t.Fatalf("unexpected available qty: %v", quote.AvailableQty)
	}
	if quote.Handle.Kind != enums.StockKindRetail {
		t.Fatalf("unexpected handle: %+v", quote.Handle)
	}
}

func TestResolveRetailUntrackedStock(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	resolver := newTestResolver(t, stubProducts{
		productID: {ID: productID, RetailPriceCents: 500},
	}, nil)

	quote, err := resolver.Resolve(context.Background(), LineItem{ProductID: productID, Qty: 1})
	if err != nil {
		t.Fatalf("resolve retail: %v", err)
	}
	if quote.AvailableQty != nil {
		t.Fatalf("expected nil available qty for untracked stock, got %v", quote.AvailableQty)
	}
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	variantID := uuid.New()
	wholesaleID := uuid.New()
	badTypeID := uuid.New()
	resolver := newTestResolver(t,
		stubProducts{productID: {ID: productID, RetailPriceCents: 0}},
		stubWholesales{badTypeID: {ID: badTypeID, Type: enums.WholesaleType("bulk")}},
	)

	tests := []struct {
		name string
		item LineItem
		code pkgerrors.Code
	}{
		{"missing product id", LineItem{Qty: 1}, pkgerrors.CodeValidation},
		{"non-positive qty", LineItem{ProductID: productID, Qty: 0}, pkgerrors.CodeValidation},
		{"variant and wholesale together", LineItem{ProductID: productID, VariantID: &variantID, WholesaleID: &wholesaleID, Qty: 1}, pkgerrors.CodeValidation},
		{"unknown product", LineItem{ProductID: uuid.New(), Qty: 1}, pkgerrors.CodeNotFound},
		{"unknown variant", LineItem{ProductID: productID, VariantID: &variantID, Qty: 1}, pkgerrors.CodeNotFound},
		{"unknown wholesale", LineItem{ProductID: productID, WholesaleID: &wholesaleID, Qty: 1}, pkgerrors.CodeNotFound},
		{"unsupported wholesale type", LineItem{ProductID: productID, WholesaleID: &badTypeID, Qty: 1}, pkgerrors.CodeInvalidState},
		{"product without retail price", LineItem{ProductID: productID, Qty: 1}, pkgerrors.CodeInvalidState},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tc.item)
			if err == nil {
				t.Fatal("expected error")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected code %s, got %v", tc.code, err)
			}
		})
	}
}

func TestDiscountedCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price    int
		discount float64
		want     int
	}{
		{1000, 0, 1000},
		{1000, -5, 1000},
		{1000, 10, 900},
		{125, 10, 113},
		{999, 15, 849},
		{1, 50, 1},
	}
	for _, tc := range tests {
		if got := DiscountedCents(tc.price, tc.discount); got != tc.want {
			t.Errorf("DiscountedCents(%d, %v) = %d, want %d", tc.price, tc.discount, got, tc.want)
		}
	}
}

package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/harvestlane/marketplace-backend/internal/catalog"
	"github.com/harvestlane/marketplace-backend/internal/pricing"
	"github.com/harvestlane/marketplace-backend/internal/users"
	"github.com/harvestlane/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func newOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Wholesale{},
		&models.WholesaleCaseItem{},
		&models.WholesalePallet{},
		&models.WholesalePalletItem{},
		&models.WholesaleFastMovingItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newOrdersService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	catalogRepo := catalog.NewRepository(db)
	resolver, err := pricing.NewResolver(catalogRepo, catalogRepo)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	service, err := NewService(ServiceParams{
		Users:             users.NewRepository(db),
		Resolver:          resolver,
		Repo:              NewRepository(db),
		TransactionRunner: gormTxRunner{db: db},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func seedBuyer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{ID: uuid.New(), Email: "buyer@example.com", FirstName: "Ada", LastName: "Byron"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func TestCreateOrderReservesStock(t *testing.T) {
	t.Parallel()

	db := newOrdersTestDB(t)
	ctx := context.Background()
	user := seedBuyer(t, db)

	supplierID := uuid.New()
	retailStock := 5
	retail := models.Product{ID: uuid.New(), Title: "apples", RetailPriceCents: 1000, StockQty: &retailStock}
	if err := db.Create(&retail).Error; err != nil {
		t.Fatalf("seed retail product: %v", err)
	}
	varProduct := models.Product{
		ID:         uuid.New(),
		SupplierID: &supplierID,
		Title:      "flour",
		Variants: []models.ProductVariant{
			{ID: uuid.New(), Label: "1kg", Unit: "bag", PriceCents: 700, StockQty: 3},
		},
	}
	if err := db.Create(&varProduct).Error; err != nil {
		t.Fatalf("seed variant product: %v", err)
	}
	variantID := varProduct.Variants[0].ID

	order, err := newOrdersService(t, db).Create(ctx, user.Email, CreateOrderInput{
		Items: []ItemInput{
			{ProductID: retail.ID, Qty: 2},
			{ProductID: varProduct.ID, VariantID: &variantID, Qty: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.TotalCents != 2700 {
		t.Fatalf("expected total 2700, got %d", order.TotalCents)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.Items[0].SupplierID != nil {
		t.Fatalf("retail item must be operator owned, got %v", order.Items[0].SupplierID)
	}
	if order.Items[1].SupplierID == nil || *order.Items[1].SupplierID != supplierID {
		t.Fatalf("variant item must snapshot supplier, got %v", order.Items[1].SupplierID)
	}

	var persisted models.Order
	if err := db.Preload("Items").First(&persisted, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if persisted.TotalCents != 2700 || len(persisted.Items) != 2 {
		t.Fatalf("unexpected persisted order: total=%d items=%d", persisted.TotalCents, len(persisted.Items))
	}

	var product models.Product
	if err := db.First(&product, "id = ?", retail.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.StockQty == nil || *product.StockQty != 3 {
		t.Fatalf("expected retail stock 3, got %v", product.StockQty)
	}
	var variant models.ProductVariant
	if err := db.First(&variant, "id = ?", variantID).Error; err != nil {
		t.Fatalf("load variant: %v", err)
	}
	if variant.StockQty != 2 {
		t.Fatalf("expected variant stock 2, got %d", variant.StockQty)
	}
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	t.Parallel()

	db := newOrdersTestDB(t)
	ctx := context.Background()
	user := seedBuyer(t, db)

	stock := 2
	product := models.Product{ID: uuid.New(), Title: "apples", RetailPriceCents: 1000, StockQty: &stock}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	_, err := newOrdersService(t, db).Create(ctx, user.Email, CreateOrderInput{
		Items: []ItemInput{{ProductID: product.ID, Qty: 3}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("failed order must not persist, got %d rows", orderCount)
	}
	var reloaded models.Product
	if err := db.First(&reloaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if reloaded.StockQty == nil || *reloaded.StockQty != 2 {
		t.Fatalf("rollback must restore stock, got %v", reloaded.StockQty)
	}
}

func TestCreateOrderUnknownUser(t *testing.T) {
	t.Parallel()

	db := newOrdersTestDB(t)
	_, err := newOrdersService(t, db).Create(context.Background(), "nobody@example.com", CreateOrderInput{
		Items: []ItemInput{{ProductID: uuid.New(), Qty: 1}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateOrderRequiresItems(t *testing.T) {
	t.Parallel()

	db := newOrdersTestDB(t)
	_, err := newOrdersService(t, db).Create(context.Background(), "buyer@example.com", CreateOrderInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFindForUserScopesOwnership(t *testing.T) {
	t.Parallel()

	db := newOrdersTestDB(t)
	ctx := context.Background()
	user := seedBuyer(t, db)

	stock := 5
	product := models.Product{ID: uuid.New(), Title: "apples", RetailPriceCents: 500, StockQty: &stock}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	service := newOrdersService(t, db)
	order, err := service.Create(ctx, user.Email, CreateOrderInput{
		Items: []ItemInput{{ProductID: product.ID, Qty: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	found, err := service.FindForUser(ctx, order.ID, user.ID)
	if err != nil {
		t.Fatalf("find for owner: %v", err)
	}
	if found.ID != order.ID {
		t.Fatalf("expected order %s, got %s", order.ID, found.ID)
	}

	_, err = service.FindForUser(ctx, order.ID, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("foreign user must see not found, got %v", err)
	}

	listed, err := service.ListForUser(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != order.ID {
		t.Fatalf("unexpected listing: %+v", listed)
	}
}

package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvestlane/marketplace-backend/pkg/db/models"
	"github.com/harvestlane/marketplace-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns wholesale listing creation and the catalog lookups used by
// pricing.
type Service struct {
	repo     Repository
	txRunner txRunner
}

// NewService wires catalog dependencies.
func NewService(repo Repository, runner txRunner) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository required")
	}
	if runner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &Service{repo: repo, txRunner: runner}, nil
}

// FindProductByID exposes the product lookup for pricing.
func (s *Service) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.FindProductByID(ctx, id)
}

// FindWholesaleByID exposes the wholesale lookup for pricing.
func (s *Service) FindWholesaleByID(ctx context.Context, id uuid.UUID) (*models.Wholesale, error) {
	return s.repo.FindWholesaleByID(ctx, id)
}

// AddWholesale validates and persists a wholesale listing. The payload must
// populate exactly the collection matching its type, every referenced product
// must exist, and a product may appear at most once per collection.
func (s *Service) AddWholesale(ctx context.Context, input AddWholesaleInput) (*models.Wholesale, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid wholesale type %q", input.Type))
	}
	if input.Label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label required")
	}

	productIDs, err := collectProductIDs(input)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ProductsExist(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check products")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "one or more products do not exist")
	}

	wholesale := buildWholesale(input)
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateWholesale(ctx, wholesale)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wholesale")
	}
	return wholesale, nil
}

// collectProductIDs enforces the closed type switch: the matching collection
// must be non-empty and the other two empty.
func collectProductIDs(input AddWholesaleInput) ([]uuid.UUID, error) {
	switch input.Type {
	case enums.WholesaleTypeCase:
		if len(input.CaseItems) == 0 || len(input.Pallets) > 0 || len(input.FastMovingItems) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "case wholesale requires case items only")
		}
		ids := make([]uuid.UUID, 0, len(input.CaseItems))
		seen := map[uuid.UUID]struct{}{}
		for _, item := range input.CaseItems {
			if _, dup := seen[item.ProductID]; dup {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in case items")
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
		return ids, nil
	case enums.WholesaleTypePallet:
		if len(input.Pallets) == 0 || len(input.CaseItems) > 0 || len(input.FastMovingItems) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pallet wholesale requires pallets only")
		}
		var ids []uuid.UUID
		for _, pallet := range input.Pallets {
			if len(pallet.Items) == 0 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "pallet requires at least one item")
			}
			seen := map[uuid.UUID]struct{}{}
			for _, item := range pallet.Items {
				if _, dup := seen[item.ProductID]; dup {
					return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in pallet items")
				}
				seen[item.ProductID] = struct{}{}
				ids = append(ids, item.ProductID)
			}
		}
		return ids, nil
	case enums.WholesaleTypeFastMoving:
		if len(input.FastMovingItems) == 0 || len(input.CaseItems) > 0 || len(input.Pallets) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "fast moving wholesale requires fast moving items only")
		}
		ids := make([]uuid.UUID, 0, len(input.FastMovingItems))
		seen := map[uuid.UUID]struct{}{}
		for _, item := range input.FastMovingItems {
			if _, dup := seen[item.ProductID]; dup {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in fast moving items")
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
		return ids, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid wholesale type %q", input.Type))
	}
}

func buildWholesale(input AddWholesaleInput) *models.Wholesale {
	wholesale := &models.Wholesale{
		SupplierID: input.SupplierID,
		Label:      input.Label,
		Type:       input.Type,
	}
	switch input.Type {
	case enums.WholesaleTypeCase:
		for i, item := range input.CaseItems {
			wholesale.CaseItems = append(wholesale.CaseItems, models.WholesaleCaseItem{
				ProductID:       item.ProductID,
				PriceCents:      item.PriceCents,
				DiscountPercent: item.DiscountPercent,
				Quantity:        item.Quantity,
				Position:        i,
			})
		}
	case enums.WholesaleTypePallet:
		for i, pallet := range input.Pallets {
			built := models.WholesalePallet{
				Name:       pallet.Name,
				PriceCents: pallet.PriceCents,
				Position:   i,
			}
			for _, item := range pallet.Items {
				built.Items = append(built.Items, models.WholesalePalletItem{
					ProductID:    item.ProductID,
					CaseQuantity: item.CaseQuantity,
				})
				built.TotalCases += item.CaseQuantity
			}
			wholesale.PalletItems = append(wholesale.PalletItems, built)
		}
	case enums.WholesaleTypeFastMoving:
		for i, item := range input.FastMovingItems {
			wholesale.FastMovingItems = append(wholesale.FastMovingItems, models.WholesaleFastMovingItem{
				ProductID:  item.ProductID,
				PriceCents: item.PriceCents,
				Quantity:   item.Quantity,
				Position:   i,
			})
		}
	}
	return wholesale
}

// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/authentiq/authentiq-backend/internal/models"
	"github.com/authentiq/authentiq-backend/internal/utils"
)

// ProductService orchestrates product creation: the product row, its
// ownership record, images, variants and the physical units minted per
// variant all commit in a single transaction.
type ProductService struct {
	db        *gorm.DB
	ownership *OwnershipService
	units     *UnitService
	catalog   *CatalogService
}

type CreateVariantRequest struct {
	Size          string `json:"size" validate:"required,max=50"`
	Color         string `json:"color" validate:"required,max=50"`
	Quantity      int    `json:"quantity" validate:"min=0"`
	PriceOverride *int64 `json:"price_override,omitempty"`
}

type CreateProductRequest struct {
	Name        string                 `json:"name" validate:"required,min=2,max=255"`
	Brand       string                 `json:"brand" validate:"required,max=255"`
	Description string                 `json:"description,omitempty"`
	CategoryID  *uuid.UUID             `json:"category_id,omitempty"`
	Price       int64                  `json:"price" validate:"required,min=1"` // minor currency units
	Tags        []string               `json:"tags,omitempty"`
	ImageURLs   []string               `json:"image_urls,omitempty"`
	Variants    []CreateVariantRequest `json:"variants,omitempty"`
	// UnitCount is the number of units to mint for a variant-less product.
	UnitCount int `json:"unit_count,omitempty" validate:"min=0"`
}

type CreateProductResult struct {
	Product *models.Product `json:"product"`
	// UnitsMintedPerVariant reports how many units each created variant
	// received; the empty-string key covers variant-less minting.
	UnitsMintedPerVariant map[string]int `json:"units_minted_per_variant"`
}

func NewProductService(db *gorm.DB, ownership *OwnershipService, units *UnitService, catalog *CatalogService) *ProductService {
	return &ProductService{
		db:        db,
		ownership: ownership,
		units:     units,
		catalog:   catalog,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, owner models.Owner, req *CreateProductRequest) (*CreateProductResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if owner.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner id required", ErrValidation)
	}

	seen := make(map[string]struct{}, len(req.Variants))
	for _, v := range req.Variants {
		key := v.Size + "\x00" + v.Color
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate variant (size=%s, color=%s)", ErrValidation, v.Size, v.Color)
		}
		seen[key] = struct{}{}
	}

	result := &CreateProductResult{UnitsMintedPerVariant: make(map[string]int)}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product := &models.Product{
			Name:        req.Name,
			Brand:       req.Brand,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			Price:       req.Price,
			Tags:        req.Tags,
		}
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("%w: creating product: %v", ErrPersistence, err)
		}

		if _, err := s.ownership.WithTx(tx).RegisterOwner(ctx, product.ID, owner); err != nil {
			return err
		}

		for _, url := range req.ImageURLs {
			image := models.ProductImage{ProductID: product.ID, ImageURL: url}
			if err := tx.Create(&image).Error; err != nil {
				return fmt.Errorf("%w: creating product image: %v", ErrPersistence, err)
			}
		}

		units := s.units.WithTx(tx)

		for _, v := range req.Variants {
			variant := models.ProductVariant{
				ProductID:     product.ID,
				Size:          v.Size,
				Color:         v.Color,
				Quantity:      v.Quantity,
				PriceOverride: v.PriceOverride,
			}
			if err := tx.Create(&variant).Error; err != nil {
				return fmt.Errorf("%w: creating variant: %v", ErrPersistence, err)
			}

			variantID := variant.ID
			minted, err := units.MintUnits(ctx, product.ID, &variantID, v.Quantity)
			if err != nil {
				return err
			}
			result.UnitsMintedPerVariant[variant.ID.String()] = len(minted)
		}

		if len(req.Variants) == 0 && req.UnitCount > 0 {
			minted, err := units.MintUnits(ctx, product.ID, nil, req.UnitCount)
			if err != nil {
				return err
			}
			result.UnitsMintedPerVariant[""] = len(minted)
		}

		result.Product = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductView, error) {
	return s.catalog.GetProduct(ctx, productID)
}

func (s *ProductService) ListByOwner(ctx context.Context, owner models.Owner) ([]ProductSummary, error) {
	return s.catalog.ListByOwner(ctx, owner)
}

// DeleteProduct removes a product and everything it exclusively owns:
// variants, units, images, ownership records. Only the owner may delete.
func (s *ProductService) DeleteProduct(ctx context.Context, productID uuid.UUID, requester models.Owner) error {
	owner, err := s.ownership.OwnerOf(ctx, productID)
	if err != nil {
		return err
	}
	if owner != requester {
		return fmt.Errorf("%w: product %s is not owned by %s %s", ErrNotFound, productID, requester.Kind, requester.ID)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %s", ErrNotFound, productID)
			}
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		for _, m := range []interface{}{
			&models.ProductUnit{},
			&models.ProductVariant{},
			&models.ProductImage{},
			&models.ProductOwnership{},
		} {
			if err := tx.Where("product_id = ?", productID).Delete(m).Error; err != nil {
				return fmt.Errorf("%w: cascading delete: %v", ErrPersistence, err)
			}
		}

		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("%w: deleting product: %v", ErrPersistence, err)
		}
		return nil
	})
}

// internal/services/catalog_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/authentiq/authentiq-backend/internal/models"
	"github.com/authentiq/authentiq-backend/internal/utils"
)

// CatalogService is the read-only view over product, variant and category
// state. GetVariantPrice is the single source of price truth: the order
// assembler must resolve every line through it and no other path may read
// price.
type CatalogService struct {
	db        *gorm.DB
	ownership *OwnershipService
}

type ProductView struct {
	models.Product
	CategoryName string         `json:"category_name,omitempty"`
	TotalUnits   int64          `json:"total_units"`
	UnusedUnits  int64          `json:"unused_units"`
	Owner        models.Owner   `json:"owner"`
	User         *models.User   `json:"user,omitempty"`
	Seller       *models.Seller `json:"seller,omitempty"`
}

type ProductSummary struct {
	ID         uuid.UUID             `json:"id"`
	Name       string                `json:"name"`
	Brand      string                `json:"brand"`
	CategoryID *uuid.UUID            `json:"category_id"`
	Price      int64                 `json:"price"`
	Images     []models.ProductImage `json:"images"`
}

func NewCatalogService(db *gorm.DB, ownership *OwnershipService) *CatalogService {
	return &CatalogService{
		db:        db,
		ownership: ownership,
	}
}

// WithTx binds the reader to tx so multi-step writers observe one consistent
// catalog snapshot.
func (s *CatalogService) WithTx(tx *gorm.DB) *CatalogService {
	cp := *s
	cp.db = tx
	cp.ownership = s.ownership.WithTx(tx)
	return &cp
}

func (s *CatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductView, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Preload("Category").Preload("Variants").Preload("Images").
		First(&product, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	view := &ProductView{Product: product}
	if product.Category != nil {
		view.CategoryName = product.Category.Name
	}

	if err := s.db.WithContext(ctx).Model(&models.ProductUnit{}).
		Where("product_id = ?", productID).Count(&view.TotalUnits).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.db.WithContext(ctx).Model(&models.ProductUnit{}).
		Where("product_id = ? AND is_used = ?", productID, false).Count(&view.UnusedUnits).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	owner, err := s.ownership.OwnerOf(ctx, productID)
	if err != nil {
		return nil, err
	}
	view.Owner = owner

	// The owner projection is mutually exclusive: a product belongs to a
	// seller or to an individual user, never both.
	if owner.IsSeller() {
		var seller models.Seller
		if err := s.db.WithContext(ctx).First(&seller, "id = ?", owner.ID).Error; err == nil {
			view.Seller = &seller
		}
	} else {
		var user models.User
		if err := s.db.WithContext(ctx).First(&user, "id = ?", owner.ID).Error; err == nil {
			view.User = &user
		}
	}

	return view, nil
}

func (s *CatalogService) ListByOwner(ctx context.Context, owner models.Owner) ([]ProductSummary, error) {
	var records []models.ProductOwnership
	err := s.db.WithContext(ctx).
		Where("is_seller = ? AND owner_id = ?", owner.IsSeller(), owner.ID).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	summaries := make([]ProductSummary, 0, len(records))
	for _, record := range records {
		var product models.Product
		if err := s.db.WithContext(ctx).Preload("Images").
			First(&product, "id = ?", record.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		summaries = append(summaries, ProductSummary{
			ID:         product.ID,
			Name:       product.Name,
			Brand:      product.Brand,
			CategoryID: product.CategoryID,
			Price:      product.Price,
			Images:     product.Images,
		})
	}

	return summaries, nil
}

// ListProducts pages through the whole catalog, optionally filtered by a
// case-insensitive name/brand search.
func (s *CatalogService) ListProducts(ctx context.Context, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{}).
		Preload("Category").Preload("Variants").Preload("Images")

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "brand", "price"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return products, total, nil
}

// GetVariantPrice returns the variant price override when set, else the
// product base price. With a nil variantID the base price applies.
func (s *CatalogService) GetVariantPrice(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (int64, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if variantID == nil {
		return product.Price, nil
	}

	var variant models.ProductVariant
	err := s.db.WithContext(ctx).
		First(&variant, "id = ? AND product_id = ?", *variantID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: variant %s of product %s", ErrNotFound, *variantID, productID)
		}
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if variant.PriceOverride != nil {
		return *variant.PriceOverride, nil
	}
	return product.Price, nil
}

// CategoryNameOf resolves the category name snapshot for an order item.
// Products without a category snapshot an empty name.
func (s *CatalogService) CategoryNameOf(ctx context.Context, product *models.Product) (string, error) {
	if product.CategoryID == nil {
		return "", nil
	}
	var category models.Category
	err := s.db.WithContext(ctx).First(&category, "id = ?", *product.CategoryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return category.Name, nil
}

// FindProduct loads the bare product row, NotFound when absent.
func (s *CatalogService) FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &product, nil
}

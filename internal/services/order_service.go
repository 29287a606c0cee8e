// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/authentiq/authentiq-backend/internal/models"
)

// OrderService assembles orders from cart-like requests: every catalog read,
// the order header and every line item happen inside one transaction, so no
// partial order is ever visible.
type OrderService struct {
	db      *gorm.DB
	catalog *CatalogService
	minter  IdentifierMinter
}

type OrderLine struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity" validate:"required,min=1"`
}

// CreateOrderResult carries the committed order plus the indices of request
// lines that were dropped because their product no longer existed. Dropped
// lines do not fail the order, but callers get to see exactly which ones
// never made it in.
type CreateOrderResult struct {
	Order        *models.Order `json:"order"`
	SkippedLines []int         `json:"skipped_lines"`
}

func NewOrderService(db *gorm.DB, catalog *CatalogService, minter IdentifierMinter) *OrderService {
	return &OrderService{
		db:      db,
		catalog: catalog,
		minter:  minter,
	}
}

// CreateOrder resolves each line against the catalog, snapshots unit price
// and category name per item, accumulates the total over processed lines
// only and commits order plus items atomically.
//
// A line whose product is missing is skipped, not fatal. An order whose
// lines were all skipped still commits with a zero total.
func (s *OrderService) CreateOrder(ctx context.Context, buyerID uuid.UUID, lines []OrderLine) (*CreateOrderResult, error) {
	if buyerID == uuid.Nil {
		return nil, fmt.Errorf("%w: buyer id required", ErrValidation)
	}
	for i, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, fmt.Errorf("%w: line %d: product id required", ErrValidation, i)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d: quantity must be > 0", ErrValidation, i)
		}
	}

	result := &CreateOrderResult{SkippedLines: []int{}}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalog := s.catalog.WithTx(tx)

		var items []models.OrderItem
		var total int64

		for i, line := range lines {
			product, err := catalog.FindProduct(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					result.SkippedLines = append(result.SkippedLines, i)
					continue
				}
				return err
			}

			price, err := catalog.GetVariantPrice(ctx, line.ProductID, line.VariantID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					// Variant vanished between cart and checkout; same
					// lenient policy as a missing product.
					result.SkippedLines = append(result.SkippedLines, i)
					continue
				}
				return err
			}

			categoryName, err := catalog.CategoryNameOf(ctx, product)
			if err != nil {
				return err
			}

			items = append(items, models.OrderItem{
				ProductID:    line.ProductID,
				VariantID:    line.VariantID,
				Quantity:     line.Quantity,
				UnitPrice:    price,
				CategoryName: categoryName,
			})
			total += price * int64(line.Quantity)
		}

		hash, err := s.minter.MintOrderHash()
		if err != nil {
			return err
		}

		order := &models.Order{
			BuyerID:        buyerID,
			TotalAmount:    total,
			Status:         models.OrderStatusPending,
			BlockchainHash: hash,
			Items:          items,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("%w: creating order: %v", ErrPersistence, err)
		}

		result.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.SkippedLines) > 0 {
		logrus.WithFields(logrus.Fields{
			"order_id":      result.Order.ID,
			"buyer_id":      buyerID,
			"skipped_lines": result.SkippedLines,
		}).Warn("Order created with unresolvable lines skipped")
	}

	return result, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &order, nil
}

func (s *OrderService) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return orders, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	switch status {
	case models.OrderStatusPending, models.OrderStatusShipped, models.OrderStatusCompleted, models.OrderStatusCanceled:
	default:
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}

	return s.GetOrder(ctx, orderID)
}

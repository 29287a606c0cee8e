// internal/services/ownership_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/authentiq/authentiq-backend/internal/models"
)

// OwnershipService maps each product to its single owning actor, seller or
// individual user. Unit minting and listing visibility are gated on it.
type OwnershipService struct {
	db *gorm.DB
}

func NewOwnershipService(db *gorm.DB) *OwnershipService {
	return &OwnershipService{db: db}
}

func (s *OwnershipService) WithTx(tx *gorm.DB) *OwnershipService {
	cp := *s
	cp.db = tx
	return &cp
}

func (s *OwnershipService) RegisterOwner(ctx context.Context, productID uuid.UUID, owner models.Owner) (*models.ProductOwnership, error) {
	var existing int64
	err := s.db.WithContext(ctx).Model(&models.ProductOwnership{}).
		Where("product_id = ? AND is_seller = ? AND owner_id = ?", productID, owner.IsSeller(), owner.ID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: product %s already owned by %s %s", ErrDuplicateOwnership, productID, owner.Kind, owner.ID)
	}

	record := &models.ProductOwnership{
		ProductID: productID,
		IsSeller:  owner.IsSeller(),
		OwnerID:   owner.ID,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		// Two racing registrations can both pass the count check; the
		// unique index decides, and its rejection maps to the same sentinel.
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: product %s already owned by %s %s", ErrDuplicateOwnership, productID, owner.Kind, owner.ID)
		}
		return nil, fmt.Errorf("%w: registering owner: %v", ErrPersistence, err)
	}
	return record, nil
}

func (s *OwnershipService) OwnerOf(ctx context.Context, productID uuid.UUID) (models.Owner, error) {
	var record models.ProductOwnership
	if err := s.db.WithContext(ctx).First(&record, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Owner{}, fmt.Errorf("%w: ownership of product %s", ErrNotFound, productID)
		}
		return models.Owner{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return record.Owner(), nil
}

// internal/services/unit_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/authentiq/authentiq-backend/internal/models"
)

// UnitService owns the set of physical units per product and variant: it
// mints them, looks them up by scanned token and drives the one-way
// unused -> used transition.
type UnitService struct {
	db     *gorm.DB
	minter IdentifierMinter
}

func NewUnitService(db *gorm.DB, minter IdentifierMinter) *UnitService {
	return &UnitService{
		db:     db,
		minter: minter,
	}
}

// WithTx returns a copy of the service bound to tx, so unit minting can join
// a caller's transaction instead of opening its own.
func (s *UnitService) WithTx(tx *gorm.DB) *UnitService {
	cp := *s
	cp.db = tx
	return &cp
}

// MintUnits creates count units for the product (and variant, when given).
// The batch is all-or-nothing: a failed insert rolls back every unit minted
// before it, so a variant never ends up with a partial unit set.
func (s *UnitService) MintUnits(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, count int) ([]models.ProductUnit, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: unit count must be >= 0", ErrValidation)
	}
	if count == 0 {
		return []models.ProductUnit{}, nil
	}

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("%w: loading product: %v", ErrPersistence, err)
	}

	units := make([]models.ProductUnit, 0, count)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			token, err := s.minter.MintQRToken(productID, variantID)
			if err != nil {
				return err
			}
			hash, err := s.minter.MintAuthenticityHash(product.Name, product.Brand, variantID, i)
			if err != nil {
				return err
			}

			unit := models.ProductUnit{
				ProductID:        productID,
				VariantID:        variantID,
				QRCode:           token,
				AuthenticityHash: hash,
			}
			if err := tx.Create(&unit).Error; err != nil {
				return fmt.Errorf("%w: creating unit %d/%d: %v", ErrPersistence, i+1, count, err)
			}
			units = append(units, unit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return units, nil
}

func (s *UnitService) FindByToken(ctx context.Context, qrToken string) (*models.ProductUnit, error) {
	var unit models.ProductUnit
	if err := s.db.WithContext(ctx).First(&unit, "qr_code = ?", qrToken).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unit with token %q", ErrNotFound, qrToken)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &unit, nil
}

// MarkUsed transitions a unit to used exactly once. The update is a
// compare-and-set on is_used with the affected row count checked, so two
// concurrent scans cannot both succeed.
func (s *UnitService) MarkUsed(ctx context.Context, unitID uuid.UUID) (*models.ProductUnit, error) {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.ProductUnit{}).
		Where("id = ? AND is_used = ?", unitID, false).
		Updates(map[string]interface{}{"is_used": true, "used_at": now})
	if res.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, res.Error)
	}

	if res.RowsAffected == 0 {
		var unit models.ProductUnit
		if err := s.db.WithContext(ctx).First(&unit, "id = ?", unitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: unit %s", ErrNotFound, unitID)
			}
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return nil, fmt.Errorf("%w: unit %s", ErrAlreadyUsed, unitID)
	}

	var unit models.ProductUnit
	if err := s.db.WithContext(ctx).First(&unit, "id = ?", unitID).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &unit, nil
}

// CountByProduct reports total and still-unused units for a product.
func (s *UnitService) CountByProduct(ctx context.Context, productID uuid.UUID) (total int64, unused int64, err error) {
	if err := s.db.WithContext(ctx).Model(&models.ProductUnit{}).
		Where("product_id = ?", productID).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.db.WithContext(ctx).Model(&models.ProductUnit{}).
		Where("product_id = ? AND is_used = ?", productID, false).Count(&unused).Error; err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return total, unused, nil
}

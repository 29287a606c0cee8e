// internal/services/verification_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/authentiq/authentiq-backend/internal/models"
)

// VerificationService is the anti-counterfeiting contract: a scanned token is
// authentic iff it exists in the unit ledger, and fresh iff its unit has not
// been marked used. A physically cloned token is indistinguishable from the
// original at this layer; that limitation is inherent to the design.
type VerificationService struct {
	units *UnitService
}

type VerificationResult struct {
	IsValid          bool       `json:"is_valid"`
	ProductID        *uuid.UUID `json:"product_id,omitempty"`
	VariantID        *uuid.UUID `json:"variant_id,omitempty"`
	Used             bool       `json:"used"`
	UsedAt           *time.Time `json:"used_at,omitempty"`
	AuthenticityHash string     `json:"blockchain_hash,omitempty"`
}

func NewVerificationService(units *UnitService) *VerificationService {
	return &VerificationService{units: units}
}

// Verify reports the authenticity and usage state of a scanned token. An
// unknown token yields IsValid=false with no other fields populated; not
// being authentic is an expected outcome, not an error.
func (s *VerificationService) Verify(ctx context.Context, qrToken string) (*VerificationResult, error) {
	unit, err := s.units.FindByToken(ctx, qrToken)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &VerificationResult{IsValid: false}, nil
		}
		return nil, err
	}

	productID := unit.ProductID
	return &VerificationResult{
		IsValid:          true,
		ProductID:        &productID,
		VariantID:        unit.VariantID,
		Used:             unit.IsUsed,
		UsedAt:           unit.UsedAt,
		AuthenticityHash: unit.AuthenticityHash,
	}, nil
}

// MarkUsed consumes the unit behind a scanned token. NotFound for unknown
// tokens, AlreadyUsed when the unit was consumed before.
func (s *VerificationService) MarkUsed(ctx context.Context, qrToken string) (*models.ProductUnit, error) {
	unit, err := s.units.FindByToken(ctx, qrToken)
	if err != nil {
		return nil, err
	}
	return s.units.MarkUsed(ctx, unit.ID)
}

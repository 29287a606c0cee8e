// internal/services/minter_service.go
package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IdentifierMinter produces the opaque codes stamped on physical units and
// orders. Injected wherever uniqueness must be guaranteed so tests can
// substitute a deterministic double.
type IdentifierMinter interface {
	// MintQRToken returns a globally unique scannable token for one unit.
	// Derived from a 128-bit random source plus identifying context, never
	// from sequential counters, so sibling tokens cannot be guessed.
	MintQRToken(productID uuid.UUID, variantID *uuid.UUID) (string, error)

	// MintAuthenticityHash returns a one-way 256-bit digest over the product
	// name, brand, variant id, sequence index and a fresh random salt. The
	// salt makes repeated calls with identical inputs produce distinct
	// hashes; the digest cannot be reversed to recover name or brand.
	MintAuthenticityHash(productName, brand string, variantID *uuid.UUID, sequenceIndex int) (string, error)

	// MintOrderHash returns the order-level hash, seeded with a fresh random
	// UUID and not tied to any product identity.
	MintOrderHash() (string, error)
}

type MinterService struct{}

func NewMinterService() *MinterService {
	return &MinterService{}
}

func (s *MinterService) MintQRToken(productID uuid.UUID, variantID *uuid.UUID) (string, error) {
	entropy := make([]byte, 16)
	if _, err := rand.Read(entropy); err != nil {
		// No entropy means no units. There is no degraded mode here.
		return "", fmt.Errorf("minting qr token: %w", err)
	}

	parts := []string{"PRODUCT", productID.String()}
	if variantID != nil {
		parts = append(parts, "VARIANT", variantID.String())
	}
	parts = append(parts, strings.ToUpper(hex.EncodeToString(entropy)))

	return strings.Join(parts, "_"), nil
}

func (s *MinterService) MintAuthenticityHash(productName, brand string, variantID *uuid.UUID, sequenceIndex int) (string, error) {
	salt, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("minting authenticity hash: %w", err)
	}

	variant := ""
	if variantID != nil {
		variant = variantID.String()
	}

	raw := fmt.Sprintf("%s-%s-%s-%d-%s", productName, brand, variant, sequenceIndex, salt)
	digest := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(digest[:]), nil
}

func (s *MinterService) MintOrderHash() (string, error) {
	seed, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("minting order hash: %w", err)
	}

	digest := sha256.Sum256([]byte(seed.String()))
	return hex.EncodeToString(digest[:]), nil
}

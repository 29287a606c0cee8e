// internal/services/unit_service_test.go
package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintUnitsCreatesRequestedCount(t *testing.T) {
	db := setupTestDB(t)
	units := NewUnitService(db, NewMinterService())
	product := createTestProduct(t, db, "Sneaker", "Acme", 12900)

	minted, err := units.MintUnits(context.Background(), product.ID, nil, 5)
	require.NoError(t, err)
	require.Len(t, minted, 5)

	tokens := make(map[string]struct{})
	hashes := make(map[string]struct{})
	for _, unit := range minted {
		assert.Equal(t, product.ID, unit.ProductID)
		assert.Nil(t, unit.VariantID)
		assert.False(t, unit.IsUsed)
		assert.Nil(t, unit.UsedAt)
		tokens[unit.QRCode] = struct{}{}
		hashes[unit.AuthenticityHash] = struct{}{}
	}
	assert.Len(t, tokens, 5, "qr tokens must be unique within a batch")
	assert.Len(t, hashes, 5, "authenticity hashes must be unique within a batch")

	total, unused, err := units.CountByProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(5), unused)
}

func TestMintUnitsZeroCount(t *testing.T) {
	db := setupTestDB(t)
	units := NewUnitService(db, NewMinterService())
	product := createTestProduct(t, db, "Sneaker", "Acme", 12900)

	minted, err := units.MintUnits(context.Background(), product.ID, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, minted)

	total, _, err := units.CountByProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMintUnitsNegativeCount(t *testing.T) {
	db := setupTestDB(t)
	units := NewUnitService(db, NewMinterService())
	product := createTestProduct(t, db, "Sneaker", "Acme", 12900)

	_, err := units.MintUnits(context.Background(), product.ID, nil, -1)
	require.ErrorIs(t, err, ErrValidation)
}

func TestMintUnitsUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	units := NewUnitService(db, NewMinterService())

	_, err := units.MintUnits(context.Background(), uuid.New(), nil, 3)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindByToken(t *testing.T) {
	db := setupTestDB(t)
	units := NewUnitService(db, NewMinterService())
	product := createTestProduct(t, db, "Sneaker", "Acme", 12900)

	minted, err := units.MintUnits(context.Background(), product.ID, nil, 1)
	require.NoError(t, err)

	found, err := units.FindByToken(context.Background(), minted[0].QRCode)
	require.NoError(t, err)
	assert.Equal(t, minted[0].ID, found.ID)

	_, err = units.FindByToken(context.Background(), "PRODUCT_nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkUsedExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	units := NewUnitService(db, NewMinterService())
	product := createTestProduct(t, db, "Sneaker", "Acme", 12900)

	minted, err := units.MintUnits(context.Background(), product.ID, nil, 1)
	require.NoError(t, err)
	unitID := minted[0].ID

	used, err := units.MarkUsed(context.Background(), unitID)
	require.NoError(t, err)
	assert.True(t, used.IsUsed)
	require.NotNil(t, used.UsedAt)

	_, err = units.MarkUsed(context.Background(), unitID)
	require.ErrorIs(t, err, ErrAlreadyUsed)

	// The second attempt must not move the usage timestamp.
	after, err := units.FindByToken(context.Background(), minted[0].QRCode)
	require.NoError(t, err)
	require.NotNil(t, after.UsedAt)
	assert.Equal(t, used.UsedAt.Unix(), after.UsedAt.Unix())
}

func TestMarkUsedUnknownUnit(t *testing.T) {
	db := setupTestDB(t)
	units := NewUnitService(db, NewMinterService())

	_, err := units.MarkUsed(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkUsedConcurrentScans(t *testing.T) {
	db := setupTestDB(t)
	units := NewUnitService(db, NewMinterService())
	product := createTestProduct(t, db, "Sneaker", "Acme", 12900)

	minted, err := units.MintUnits(context.Background(), product.ID, nil, 1)
	require.NoError(t, err)
	unitID := minted[0].ID

	const scans = 8
	errs := make([]error, scans)
	var wg sync.WaitGroup
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = units.MarkUsed(context.Background(), unitID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one scan may consume the unit")
}

func TestCountByProductTracksUsage(t *testing.T) {
	db := setupTestDB(t)
	units := NewUnitService(db, NewMinterService())
	product := createTestProduct(t, db, "Sneaker", "Acme", 12900)

	minted, err := units.MintUnits(context.Background(), product.ID, nil, 3)
	require.NoError(t, err)

	_, err = units.MarkUsed(context.Background(), minted[0].ID)
	require.NoError(t, err)

	total, unused, err := units.CountByProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(2), unused)
}

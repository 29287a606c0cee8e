// internal/services/catalog_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authentiq/authentiq-backend/internal/models"
	"github.com/authentiq/authentiq-backend/internal/utils"
)

func TestGetVariantPriceOverride(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db, NewOwnershipService(db))
	product := createTestProduct(t, db, "Sneaker", "Acme", 12900)

	override := int64(15900)
	variant := models.ProductVariant{
		ProductID:     product.ID,
		Size:          "42",
		Color:         "black",
		PriceOverride: &override,
	}
	require.NoError(t, db.Create(&variant).Error)

	price, err := catalog.GetVariantPrice(context.Background(), product.ID, &variant.ID)
	require.NoError(t, err)
	assert.Equal(t, override, price)
}

func TestGetVariantPriceFallsBackToBase(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db, NewOwnershipService(db))
	product := createTestProduct(t, db, "Sneaker", "Acme", 12900)

	variant := models.ProductVariant{ProductID: product.ID, Size: "42", Color: "black"}
	require.NoError(t, db.Create(&variant).Error)

	price, err := catalog.GetVariantPrice(context.Background(), product.ID, &variant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12900), price)

	price, err = catalog.GetVariantPrice(context.Background(), product.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12900), price)
}

func TestGetVariantPriceForeignVariant(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db, NewOwnershipService(db))
	product := createTestProduct(t, db, "Sneaker", "Acme", 12900)
	other := createTestProduct(t, db, "Watch", "Acme", 45900)

	variant := models.ProductVariant{ProductID: other.ID, Size: "42", Color: "black"}
	require.NoError(t, db.Create(&variant).Error)

	// A variant belonging to another product must not resolve.
	_, err := catalog.GetVariantPrice(context.Background(), product.ID, &variant.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetVariantPriceUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db, NewOwnershipService(db))

	_, err := catalog.GetVariantPrice(context.Background(), uuid.New(), nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetProductView(t *testing.T) {
	db := setupTestDB(t)
	ownership := NewOwnershipService(db)
	catalog := NewCatalogService(db, ownership)
	units := NewUnitService(db, NewMinterService())

	category := models.Category{Name: "Shoes"}
	require.NoError(t, db.Create(&category).Error)

	product := &models.Product{
		Name:       "Sneaker",
		Brand:      "Acme",
		CategoryID: &category.ID,
		Price:      12900,
	}
	require.NoError(t, db.Create(product).Error)

	sellerID := uuid.New()
	_, err := ownership.RegisterOwner(context.Background(), product.ID, models.SellerOwner(sellerID))
	require.NoError(t, err)

	minted, err := units.MintUnits(context.Background(), product.ID, nil, 4)
	require.NoError(t, err)
	_, err = units.MarkUsed(context.Background(), minted[0].ID)
	require.NoError(t, err)

	view, err := catalog.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shoes", view.CategoryName)
	assert.Equal(t, int64(4), view.TotalUnits)
	assert.Equal(t, int64(3), view.UnusedUnits)
	assert.Equal(t, models.SellerOwner(sellerID), view.Owner)
	assert.Nil(t, view.User)
}

func TestGetProductViewUnknown(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db, NewOwnershipService(db))

	_, err := catalog.GetProduct(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListByOwner(t *testing.T) {
	db := setupTestDB(t)
	ownership := NewOwnershipService(db)
	catalog := NewCatalogService(db, ownership)

	sellerID := uuid.New()
	mine := createTestProduct(t, db, "Sneaker", "Acme", 12900)
	theirs := createTestProduct(t, db, "Watch", "Other", 45900)

	_, err := ownership.RegisterOwner(context.Background(), mine.ID, models.SellerOwner(sellerID))
	require.NoError(t, err)
	_, err = ownership.RegisterOwner(context.Background(), theirs.ID, models.SellerOwner(uuid.New()))
	require.NoError(t, err)

	summaries, err := catalog.ListByOwner(context.Background(), models.SellerOwner(sellerID))
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, mine.ID, summaries[0].ID)

	// Owner identity includes the kind, not just the id.
	summaries, err = catalog.ListByOwner(context.Background(), models.UserOwner(sellerID))
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestListProductsSearch(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db, NewOwnershipService(db))

	createTestProduct(t, db, "Runner Sneaker", "Acme", 12900)
	createTestProduct(t, db, "Dress Shoe", "Acme", 19900)
	createTestProduct(t, db, "Chronograph", "Timekeeper", 45900)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc", Search: "sneaker"}
	products, total, err := catalog.ListProducts(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Runner Sneaker", products[0].Name)

	params.Search = "acme"
	_, total, err = catalog.ListProducts(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

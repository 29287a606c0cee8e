// internal/services/product_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/authentiq/authentiq-backend/internal/models"
)

func newTestProductService(db *gorm.DB) *ProductService {
	ownership := NewOwnershipService(db)
	units := NewUnitService(db, NewMinterService())
	catalog := NewCatalogService(db, ownership)
	return NewProductService(db, ownership, units, catalog)
}

func TestCreateProductWithVariants(t *testing.T) {
	db := setupTestDB(t)
	products := newTestProductService(db)
	sellerID := uuid.New()

	override := int64(15900)
	result, err := products.CreateProduct(context.Background(), models.SellerOwner(sellerID), &CreateProductRequest{
		Name:      "Sneaker",
		Brand:     "Acme",
		Price:     12900,
		Tags:      []string{"running", "limited"},
		ImageURLs: []string{"https://cdn.example.com/sneaker.jpg"},
		Variants: []CreateVariantRequest{
			{Size: "42", Color: "black", Quantity: 3, PriceOverride: &override},
			{Size: "43", Color: "black", Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Product)

	// Every variant got exactly its quantity in units.
	var variants []models.ProductVariant
	require.NoError(t, db.Where("product_id = ?", result.Product.ID).Order("size").Find(&variants).Error)
	require.Len(t, variants, 2)
	assert.Equal(t, 3, result.UnitsMintedPerVariant[variants[0].ID.String()])
	assert.Equal(t, 2, result.UnitsMintedPerVariant[variants[1].ID.String()])

	var unitCount int64
	require.NoError(t, db.Model(&models.ProductUnit{}).
		Where("product_id = ?", result.Product.ID).Count(&unitCount).Error)
	assert.Equal(t, int64(5), unitCount)

	var imageCount int64
	require.NoError(t, db.Model(&models.ProductImage{}).
		Where("product_id = ?", result.Product.ID).Count(&imageCount).Error)
	assert.Equal(t, int64(1), imageCount)

	owner, err := NewOwnershipService(db).OwnerOf(context.Background(), result.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SellerOwner(sellerID), owner)
}

func TestCreateProductVariantless(t *testing.T) {
	db := setupTestDB(t)
	products := newTestProductService(db)

	result, err := products.CreateProduct(context.Background(), models.UserOwner(uuid.New()), &CreateProductRequest{
		Name:      "Vintage Watch",
		Brand:     "Timekeeper",
		Price:     45900,
		UnitCount: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.UnitsMintedPerVariant[""])

	var unit models.ProductUnit
	require.NoError(t, db.First(&unit, "product_id = ?", result.Product.ID).Error)
	assert.Nil(t, unit.VariantID)
}

func TestCreateProductDuplicateVariants(t *testing.T) {
	db := setupTestDB(t)
	products := newTestProductService(db)

	_, err := products.CreateProduct(context.Background(), models.SellerOwner(uuid.New()), &CreateProductRequest{
		Name:  "Sneaker",
		Brand: "Acme",
		Price: 12900,
		Variants: []CreateVariantRequest{
			{Size: "42", Color: "black", Quantity: 1},
			{Size: "42", Color: "black", Quantity: 2},
		},
	})
	require.ErrorIs(t, err, ErrValidation)

	// Nothing from the rejected request may persist.
	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateProductValidation(t *testing.T) {
	db := setupTestDB(t)
	products := newTestProductService(db)

	_, err := products.CreateProduct(context.Background(), models.SellerOwner(uuid.New()), &CreateProductRequest{
		Name:  "X",
		Brand: "Acme",
		Price: 12900,
	})
	require.ErrorIs(t, err, ErrValidation, "single-character name")

	_, err = products.CreateProduct(context.Background(), models.SellerOwner(uuid.New()), &CreateProductRequest{
		Name:  "Sneaker",
		Brand: "Acme",
	})
	require.ErrorIs(t, err, ErrValidation, "missing price")

	_, err = products.CreateProduct(context.Background(), models.SellerOwner(uuid.Nil), &CreateProductRequest{
		Name:  "Sneaker",
		Brand: "Acme",
		Price: 12900,
	})
	require.ErrorIs(t, err, ErrValidation, "nil owner id")
}

func TestDeleteProduct(t *testing.T) {
	db := setupTestDB(t)
	products := newTestProductService(db)
	owner := models.SellerOwner(uuid.New())

	result, err := products.CreateProduct(context.Background(), owner, &CreateProductRequest{
		Name:      "Sneaker",
		Brand:     "Acme",
		Price:     12900,
		UnitCount: 2,
		ImageURLs: []string{"https://cdn.example.com/sneaker.jpg"},
	})
	require.NoError(t, err)
	productID := result.Product.ID

	require.NoError(t, products.DeleteProduct(context.Background(), productID, owner))

	_, err = products.GetProduct(context.Background(), productID)
	require.ErrorIs(t, err, ErrNotFound)

	for _, m := range []interface{}{&models.ProductUnit{}, &models.ProductImage{}, &models.ProductOwnership{}} {
		var count int64
		require.NoError(t, db.Model(m).Where("product_id = ?", productID).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestDeleteProductWrongOwner(t *testing.T) {
	db := setupTestDB(t)
	products := newTestProductService(db)
	owner := models.SellerOwner(uuid.New())

	result, err := products.CreateProduct(context.Background(), owner, &CreateProductRequest{
		Name:  "Sneaker",
		Brand: "Acme",
		Price: 12900,
	})
	require.NoError(t, err)

	err = products.DeleteProduct(context.Background(), result.Product.ID, models.UserOwner(owner.ID))
	require.ErrorIs(t, err, ErrNotFound)

	// Still there.
	_, err = products.GetProduct(context.Background(), result.Product.ID)
	require.NoError(t, err)
}

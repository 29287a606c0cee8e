// internal/services/testutil_test.go
package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/authentiq/authentiq-backend/internal/models"
)

// setupTestDB opens an in-memory database and migrates the full schema.
// Open connections are capped at one so every session sees the same
// in-memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory db")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Seller{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.ProductImage{},
		&models.ProductUnit{},
		&models.ProductOwnership{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

// createTestProduct inserts a bare product row and returns it.
func createTestProduct(t *testing.T, db *gorm.DB, name, brand string, price int64) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:  name,
		Brand: brand,
		Price: price,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// internal/models/common_test.go
package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The full schema must migrate on the in-memory database; nothing in the
// model tags may lean on server-side defaults that only postgres has.
func TestAutoMigrateFullSchema(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&User{},
		&Seller{},
		&Category{},
		&Product{},
		&ProductVariant{},
		&ProductImage{},
		&ProductUnit{},
		&ProductOwnership{},
		&Order{},
		&OrderItem{},
		&Review{},
	)
	require.NoError(t, err)
}

func TestBeforeCreateAssignsID(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Product{}))

	first := Product{Name: "Sneaker", Brand: "Acme", Price: 12900}
	require.NoError(t, db.Create(&first).Error)
	assert.NotEqual(t, uuid.Nil, first.ID)

	second := Product{Name: "Watch", Brand: "Timekeeper", Price: 45900}
	require.NoError(t, db.Create(&second).Error)
	assert.NotEqual(t, first.ID, second.ID)

	// A caller-assigned id survives the hook.
	chosen := uuid.New()
	third := Product{BaseModel: BaseModel{ID: chosen}, Name: "Bag", Brand: "Acme", Price: 9900}
	require.NoError(t, db.Create(&third).Error)
	assert.Equal(t, chosen, third.ID)
}

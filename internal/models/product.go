// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name        string         `json:"name" gorm:"size:255;not null"`
	Brand       string         `json:"brand" gorm:"size:255;not null;index"`
	Description string         `json:"description" gorm:"type:text"`
	CategoryID  *uuid.UUID     `json:"category_id" gorm:"type:uuid;index"`
	Price       int64          `json:"price" gorm:"not null"` // minor currency units
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`

	// Relationships
	Category *Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images   []ProductImage   `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Units    []ProductUnit    `json:"units,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_variant_product_size_color"`
	Size      string    `json:"size" gorm:"size:50;not null;uniqueIndex:idx_variant_product_size_color"`
	Color     string    `json:"color" gorm:"size:50;not null;uniqueIndex:idx_variant_product_size_color"`
	Quantity  int       `json:"quantity" gorm:"not null;default:0"`
	// PriceOverride, when set, replaces the product base price for this variant.
	PriceOverride *int64 `json:"price_override"`
}

type ProductImage struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ImageURL  string    `json:"image_url" gorm:"size:512;not null"`
}

// ProductUnit is one physical, individually trackable instance of a product.
// QRCode and AuthenticityHash are minted once and never change; IsUsed flips
// to true exactly once and is terminal.
type ProductUnit struct {
	BaseModel
	ProductID        uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	VariantID        *uuid.UUID `json:"variant_id" gorm:"type:uuid;index"`
	QRCode           string     `json:"qr_code" gorm:"column:qr_code;size:255;uniqueIndex;not null"`
	AuthenticityHash string     `json:"blockchain_hash" gorm:"column:blockchain_hash;size:64;uniqueIndex;not null"`
	IsUsed           bool       `json:"is_used" gorm:"not null;default:false"`
	UsedAt           *time.Time `json:"used_at"`
}

// ProductOwnership maps a product to its single owning actor.
type ProductOwnership struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_ownership_tuple"`
	IsSeller  bool      `json:"is_seller" gorm:"not null;uniqueIndex:idx_ownership_tuple"`
	OwnerID   uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;uniqueIndex:idx_ownership_tuple"`
}

func (po *ProductOwnership) Owner() Owner {
	if po.IsSeller {
		return SellerOwner(po.OwnerID)
	}
	return UserOwner(po.OwnerID)
}

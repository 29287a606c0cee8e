// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	BuyerID uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;index"`
	// TotalAmount is computed server-side as the sum of line totals over the
	// lines that resolved at order time. Never client-supplied.
	TotalAmount    int64       `json:"total_amount" gorm:"not null"`
	Status         OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	BlockchainHash string      `json:"blockchain_hash" gorm:"size:64;uniqueIndex"`

	// Relationships
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem snapshots price and category at order time. The snapshot is never
// recomputed from later catalog state.
type OrderItem struct {
	BaseModel
	OrderID      uuid.UUID  `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	VariantID    *uuid.UUID `json:"variant_id" gorm:"type:uuid"`
	Quantity     int        `json:"quantity" gorm:"not null"`
	UnitPrice    int64      `json:"unit_price" gorm:"not null"`
	CategoryName string     `json:"category_name" gorm:"size:255"`
}

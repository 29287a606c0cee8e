// internal/models/review.go
package models

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text"`
	// SentimentScore is an opaque integer produced by the comment analyzer.
	// Nil until (and unless) the analyzer responds.
	SentimentScore *int `json:"sentiment_score"`
}

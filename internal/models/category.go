// internal/models/category.go
package models

import (
	"github.com/google/uuid"
)

type Category struct {
	BaseModel
	Name     string     `json:"name" gorm:"size:255;not null;uniqueIndex"`
	ParentID *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`
}

// CategoryNode is a category with its children attached, as returned by the
// tree endpoint.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// internal/services/category_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/authentiq/authentiq-backend/internal/models"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) CreateCategory(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name required", ErrValidation)
	}

	if parentID != nil {
		var parent models.Category
		if err := s.db.WithContext(ctx).First(&parent, "id = ?", *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: parent category %s", ErrNotFound, *parentID)
			}
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	category := &models.Category{Name: name, ParentID: parentID}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("%w: creating category: %v", ErrPersistence, err)
	}
	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("created_at").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return categories, nil
}

// CategoryTree builds the category forest in two passes: an arena of nodes
// keyed by id, then a child-attachment pass by parent-id lookup. No node
// ever points back at itself or its ancestors.
func (s *CategoryService) CategoryTree(ctx context.Context) ([]*models.CategoryNode, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	arena := make(map[uuid.UUID]*models.CategoryNode, len(categories))
	for i := range categories {
		arena[categories[i].ID] = &models.CategoryNode{
			Category: categories[i],
			Children: []*models.CategoryNode{},
		}
	}

	roots := []*models.CategoryNode{}
	for _, node := range arena {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := arena[*node.ParentID]
		if !ok {
			// Orphaned subtree; surface it at the root rather than drop it.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	return roots, nil
}

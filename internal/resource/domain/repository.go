package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// FindByID returns nil when no snapshot exists for the id.
	FindByID(ctx context.Context, db *gorm.DB, resourceID string) (*Resource, error)
	Insert(ctx context.Context, db *gorm.DB, resource *Resource) error
	Update(ctx context.Context, db *gorm.DB, resource *Resource) error
	List(ctx context.Context, db *gorm.DB) ([]Resource, error)
}

package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *BillingRecord) error
	ListByResourceID(ctx context.Context, db *gorm.DB, resourceID string) ([]BillingRecord, error)
}

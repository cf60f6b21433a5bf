package repository

import (
	"context"

	recorddomain "github.com/smallbiznis/cloudbill/internal/record/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() recorddomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *recorddomain.BillingRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) ListByResourceID(ctx context.Context, db *gorm.DB, resourceID string) ([]recorddomain.BillingRecord, error) {
	var items []recorddomain.BillingRecord
	err := db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("start_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

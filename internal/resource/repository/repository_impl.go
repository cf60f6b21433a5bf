package repository

import (
	"context"

	resourcedomain "github.com/smallbiznis/cloudbill/internal/resource/domain"
	pkgdb "github.com/smallbiznis/cloudbill/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() resourcedomain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, resourceID string) (*resourcedomain.Resource, error) {
	var res resourcedomain.Resource
	err := db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Take(&res).Error
	if err != nil {
		if pkgdb.IsNotFoundErr(err) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, resource *resourcedomain.Resource) error {
	return db.WithContext(ctx).Create(resource).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, resource *resourcedomain.Resource) error {
	return db.WithContext(ctx).
		Model(&resourcedomain.Resource{}).
		Where("resource_id = ?", resource.ResourceID).
		Updates(map[string]any{
			"status":      resource.Status,
			"content":     resource.Content,
			"description": resource.Description,
			"consumption": resource.Consumption,
			"updated_at":  resource.UpdatedAt,
			"deleted_at":  resource.DeletedAt,
		}).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]resourcedomain.Resource, error) {
	var items []resourcedomain.Resource
	err := db.WithContext(ctx).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

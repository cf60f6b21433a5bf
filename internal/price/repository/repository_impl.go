package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	pricedomain "github.com/smallbiznis/cloudbill/internal/price/domain"
	pkgdb "github.com/smallbiznis/cloudbill/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() pricedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *pricedomain.Price) error {
	return db.WithContext(ctx).Create(p).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*pricedomain.Price, error) {
	var p pricedomain.Price
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&p).Error
	if err != nil {
		if pkgdb.IsNotFoundErr(err) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]pricedomain.Price, error) {
	var items []pricedomain.Price
	err := db.WithContext(ctx).
		Order("resource_type ASC, effective_from ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindEffective(ctx context.Context, db *gorm.DB, resourceType string, at time.Time) (*pricedomain.Price, error) {
	var p pricedomain.Price
	err := db.WithContext(ctx).
		Where("resource_type = ? AND effective_from <= ?", resourceType, at).
		Order("effective_from DESC").
		Take(&p).Error
	if err != nil {
		if pkgdb.IsNotFoundErr(err) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

package service

import (
	"context"
	"strings"

	recorddomain "github.com/smallbiznis/cloudbill/internal/record/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo recorddomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo recorddomain.Repository
}

func New(p Params) recorddomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("record.service"),
		repo: p.Repo,
	}
}

func (s *Service) ListByResourceID(ctx context.Context, resourceID string) ([]recorddomain.BillingRecord, error) {
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		return nil, recorddomain.ErrInvalidResourceID
	}

	items, err := s.repo.ListByResourceID(ctx, s.db, resourceID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, recorddomain.ErrNoRecords
	}
	return items, nil
}

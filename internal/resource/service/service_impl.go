package service

import (
	"context"
	"strings"

	resourcedomain "github.com/smallbiznis/cloudbill/internal/resource/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo resourcedomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo resourcedomain.Repository
}

func New(p Params) resourcedomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("resource.service"),
		repo: p.Repo,
	}
}

func (s *Service) GetByID(ctx context.Context, resourceID string) (*resourcedomain.Resource, error) {
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		return nil, resourcedomain.ErrInvalidResourceID
	}

	res, err := s.repo.FindByID(ctx, s.db, resourceID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, resourcedomain.ErrResourceNotFound
	}
	return res, nil
}

func (s *Service) List(ctx context.Context) ([]resourcedomain.Resource, error) {
	return s.repo.List(ctx, s.db)
}

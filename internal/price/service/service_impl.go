package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cloudbill/internal/clock"
	pricedomain "github.com/smallbiznis/cloudbill/internal/price/domain"
	"github.com/smallbiznis/cloudbill/pkg/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  pricedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  pricedomain.Repository
}

func New(p Params) pricedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("price.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req pricedomain.CreateRequest) (*pricedomain.Price, error) {
	resourceType := strings.TrimSpace(req.ResourceType)
	if resourceType == "" {
		return nil, pricedomain.ErrInvalidResourceType
	}

	unitPrice, err := decimal.New(strings.TrimSpace(req.UnitPrice))
	if err != nil || unitPrice.Cmp(decimal.Zero()) < 0 {
		return nil, pricedomain.ErrInvalidUnitPrice
	}

	now := s.clock.Now()
	effectiveFrom := now
	if req.EffectiveFrom != nil {
		effectiveFrom = req.EffectiveFrom.UTC()
	}

	entity := &pricedomain.Price{
		ID:            s.genID.Generate(),
		ResourceType:  resourceType,
		Name:          strings.TrimSpace(req.Name),
		Description:   strings.TrimSpace(req.Description),
		UnitPrice:     unitPrice,
		EffectiveFrom: effectiveFrom,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		return nil, err
	}

	s.log.Info("price created",
		zap.String("resource_type", resourceType),
		zap.String("unit_price", unitPrice.String()),
	)
	return entity, nil
}

func (s *Service) List(ctx context.Context) ([]pricedomain.Price, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, id string) (*pricedomain.Price, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, pricedomain.ErrInvalidPriceID
	}

	price, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, pricedomain.ErrPriceNotFound
	}
	return price, nil
}

func (s *Service) GetUnitPrice(ctx context.Context, resourceType string, at time.Time) (decimal.Decimal, error) {
	price, err := s.repo.FindEffective(ctx, s.db, strings.TrimSpace(resourceType), at.UTC())
	if err != nil {
		return decimal.Zero(), err
	}
	if price == nil {
		return decimal.Zero(), pricedomain.ErrPriceNotFound
	}
	return price.UnitPrice, nil
}

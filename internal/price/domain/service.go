package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/cloudbill/pkg/decimal"
)

// Service manages the price catalog. GetUnitPrice is the read path the
// billing engine depends on; it must be safe for concurrent use.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Price, error)
	List(ctx context.Context) ([]Price, error)
	GetByID(ctx context.Context, id string) (*Price, error)
	GetUnitPrice(ctx context.Context, resourceType string, at time.Time) (decimal.Decimal, error)
}

type CreateRequest struct {
	ResourceType  string     `json:"resource_type"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	UnitPrice     string     `json:"unit_price"`
	EffectiveFrom *time.Time `json:"effective_from"`
}

var (
	ErrInvalidResourceType = errors.New("invalid_resource_type")
	ErrInvalidUnitPrice    = errors.New("invalid_unit_price")
	ErrInvalidPriceID      = errors.New("invalid_price_id")
	ErrPriceNotFound       = errors.New("price_not_found")
)

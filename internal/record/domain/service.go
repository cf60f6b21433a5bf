package domain

import (
	"context"
	"errors"
)

// Service exposes read-only projections over the record store.
type Service interface {
	ListByResourceID(ctx context.Context, resourceID string) ([]BillingRecord, error)
}

var (
	ErrInvalidResourceID = errors.New("invalid_resource_id")
	ErrNoRecords         = errors.New("records_not_found")
)

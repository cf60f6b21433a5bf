package domain

import (
	"context"
	"errors"
)

// Service exposes read-only projections over the resource store.
type Service interface {
	GetByID(ctx context.Context, resourceID string) (*Resource, error)
	List(ctx context.Context) ([]Resource, error)
}

var (
	ErrInvalidResourceID = errors.New("invalid_resource_id")
	ErrResourceNotFound  = errors.New("resource_not_found")
)

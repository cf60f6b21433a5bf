package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, price *Price) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Price, error)
	List(ctx context.Context, db *gorm.DB) ([]Price, error)
	// FindEffective returns the newest price for the resource type whose
	// effective_from does not exceed at, or nil when none applies.
	FindEffective(ctx context.Context, db *gorm.DB, resourceType string, at time.Time) (*Price, error)
}

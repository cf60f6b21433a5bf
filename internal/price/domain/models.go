package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cloudbill/pkg/decimal"
)

// Price is one unit price for a resource type, effective from a point in
// time until a newer price supersedes it.
type Price struct {
	ID            snowflake.ID    `json:"id" gorm:"primaryKey"`
	ResourceType  string          `json:"resource_type" gorm:"type:text;not null;index:idx_prices_type_effective"`
	Name          string          `json:"name,omitempty" gorm:"type:text"`
	Description   string          `json:"description,omitempty" gorm:"type:text"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:numeric;not null"`
	EffectiveFrom time.Time       `json:"effective_from" gorm:"not null;index:idx_prices_type_effective"`
	CreatedAt     time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"not null"`
}

func (Price) TableName() string { return "prices" }

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cloudbill/pkg/decimal"
)

// BillingRecord is one immutable accrual entry: the consumption charged for
// the interval [start_at, end_at]. Records are append-only; nothing updates
// or deletes them.
type BillingRecord struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	ResourceID  string          `json:"resource_id" gorm:"type:text;not null;index"`
	StartAt     time.Time       `json:"start_at" gorm:"not null"`
	EndAt       time.Time       `json:"end_at" gorm:"not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric;not null"`
	Consumption decimal.Decimal `json:"consumption" gorm:"type:numeric;not null"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null"`
}

func (BillingRecord) TableName() string { return "billing_records" }

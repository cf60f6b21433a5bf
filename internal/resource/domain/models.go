package domain

import (
	"time"

	"github.com/smallbiznis/cloudbill/pkg/decimal"
	"gorm.io/datatypes"
)

type Status string

var (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Resource is the current billing ledger snapshot for one billed object.
// There is at most one row per resource id; delete is a soft transition,
// the row is never removed.
type Resource struct {
	ResourceID   string          `json:"resource_id" gorm:"primaryKey;column:resource_id;type:text"`
	ResourceType string          `json:"resource_type" gorm:"type:text;not null"`
	Status       Status          `json:"status" gorm:"type:text;not null"`
	Content      datatypes.JSON  `json:"content" gorm:"type:jsonb"`
	Description  string          `json:"description,omitempty" gorm:"type:text"`
	Consumption  decimal.Decimal `json:"consumption" gorm:"type:numeric;not null"`
	CreatedAt    time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"not null"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
}

func (Resource) TableName() string { return "resources" }

// Checkpoint is the timestamp the next consumption interval measures from.
func (r *Resource) Checkpoint() time.Time {
	if r.UpdatedAt.IsZero() {
		return r.CreatedAt
	}
	return r.UpdatedAt
}

package kind

import (
	billingdomain "github.com/smallbiznis/cloudbill/internal/billing/domain"
	"github.com/smallbiznis/cloudbill/pkg/decimal"
)

// Router bills virtual routers per instance hour. Routers carry no sizing
// payload and never resize; the billable quantity is always 1.
type Router struct{}

func (Router) ResourceType() string { return "router" }

func (Router) EventTypes() []billingdomain.EventType {
	return []billingdomain.EventType{
		billingdomain.EventCreate,
		billingdomain.EventExists,
		billingdomain.EventDelete,
	}
}

func (Router) ValidateContent(content map[string]any) error {
	return nil
}

func (Router) BillableQuantity(content map[string]any) (decimal.Decimal, error) {
	return decimal.FromInt64(1), nil
}

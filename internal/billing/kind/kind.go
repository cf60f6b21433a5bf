package kind

import (
	"strings"

	billingdomain "github.com/smallbiznis/cloudbill/internal/billing/domain"
	"github.com/smallbiznis/cloudbill/pkg/decimal"
)

// Validator is the per-kind contract: which event types a kind accepts,
// what its content payload must look like, and which quantity drives
// consumption. Implementations are pure; they only inspect the event.
type Validator interface {
	ResourceType() string
	EventTypes() []billingdomain.EventType
	ValidateContent(content map[string]any) error
	BillableQuantity(content map[string]any) (decimal.Decimal, error)
}

// Registry dispatches events to the validator for their resource type.
type Registry struct {
	kinds map[string]Validator
}

func NewRegistry(validators ...Validator) *Registry {
	r := &Registry{kinds: make(map[string]Validator, len(validators))}
	for _, v := range validators {
		r.kinds[v.ResourceType()] = v
	}
	return r
}

// Default returns a registry with every built-in kind.
func Default() *Registry {
	return NewRegistry(Volume{}, Router{})
}

func (r *Registry) Lookup(resourceType string) (Validator, error) {
	v, ok := r.kinds[strings.TrimSpace(resourceType)]
	if !ok {
		return nil, billingdomain.ErrResourceTypeUnknown
	}
	return v, nil
}

// CheckEvent runs the kind's event type and content checks.
func (r *Registry) CheckEvent(event billingdomain.Event) (Validator, error) {
	v, err := r.Lookup(event.ResourceType)
	if err != nil {
		return nil, err
	}
	if !eventTypeAllowed(v, event.EventType) {
		return nil, billingdomain.ErrEventTypeInvalid
	}
	if err := v.ValidateContent(event.Content); err != nil {
		return nil, err
	}
	return v, nil
}

func eventTypeAllowed(v Validator, eventType billingdomain.EventType) bool {
	for _, allowed := range v.EventTypes() {
		if allowed == eventType {
			return true
		}
	}
	return false
}

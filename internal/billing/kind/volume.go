package kind

import (
	"encoding/json"
	"math"

	billingdomain "github.com/smallbiznis/cloudbill/internal/billing/domain"
	"github.com/smallbiznis/cloudbill/pkg/decimal"
)

// Volume bills block storage by size in GB. Size must be an integer of at
// least 1 and is the billable quantity for the whole interval it was the
// resource's recorded size.
type Volume struct{}

func (Volume) ResourceType() string { return "volume" }

func (Volume) EventTypes() []billingdomain.EventType {
	return []billingdomain.EventType{
		billingdomain.EventCreate,
		billingdomain.EventResize,
		billingdomain.EventExists,
		billingdomain.EventDelete,
	}
}

func (Volume) ValidateContent(content map[string]any) error {
	size, ok, err := volumeSize(content)
	if err != nil {
		return err
	}
	if !ok {
		return billingdomain.ErrContentInvalid
	}
	if size < 1 {
		return billingdomain.ErrVolumeSizeInvalid
	}
	return nil
}

func (Volume) BillableQuantity(content map[string]any) (decimal.Decimal, error) {
	size, ok, err := volumeSize(content)
	if err != nil {
		return decimal.Zero(), err
	}
	if !ok {
		return decimal.Zero(), billingdomain.ErrContentInvalid
	}
	return decimal.FromInt64(size), nil
}

// volumeSize extracts an integral size from the content payload. JSON
// decoding yields float64; stored content may round-trip as json.Number.
func volumeSize(content map[string]any) (int64, bool, error) {
	raw, ok := content["size"]
	if !ok || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false, billingdomain.ErrVolumeSizeInvalid
		}
		return int64(v), true, nil
	case int:
		return int64(v), true, nil
	case int64:
		return v, true, nil
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return 0, false, billingdomain.ErrVolumeSizeInvalid
		}
		return parsed, true, nil
	default:
		return 0, false, billingdomain.ErrVolumeSizeInvalid
	}
}

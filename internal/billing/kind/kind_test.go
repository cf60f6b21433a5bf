package kind

import (
	"encoding/json"
	"testing"
	"time"

	billingdomain "github.com/smallbiznis/cloudbill/internal/billing/domain"
	"github.com/smallbiznis/cloudbill/pkg/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	registry := Default()

	v, err := registry.Lookup("volume")
	require.NoError(t, err)
	assert.Equal(t, "volume", v.ResourceType())

	v, err = registry.Lookup("router")
	require.NoError(t, err)
	assert.Equal(t, "router", v.ResourceType())

	_, err = registry.Lookup("loadbalancer")
	assert.ErrorIs(t, err, billingdomain.ErrResourceTypeUnknown)
}

func TestCheckEventRejectsForeignEventType(t *testing.T) {
	registry := Default()

	_, err := registry.CheckEvent(billingdomain.Event{
		ResourceID:   "router-1",
		ResourceType: "router",
		EventType:    billingdomain.EventResize,
		EventTime:    time.Now(),
	})
	assert.ErrorIs(t, err, billingdomain.ErrEventTypeInvalid)

	_, err = registry.CheckEvent(billingdomain.Event{
		ResourceID:   "vol-1",
		ResourceType: "volume",
		EventType:    "shrink",
		EventTime:    time.Now(),
		Content:      map[string]any{"size": 1},
	})
	assert.ErrorIs(t, err, billingdomain.ErrEventTypeInvalid)
}

func TestVolumeValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		content map[string]any
		wantErr error
	}{
		{name: "valid int", content: map[string]any{"size": 10}},
		{name: "valid float from json", content: map[string]any{"size": float64(3)}},
		{name: "valid json number", content: map[string]any{"size": json.Number("7")}},
		{name: "nil content", content: nil, wantErr: billingdomain.ErrContentInvalid},
		{name: "missing size", content: map[string]any{}, wantErr: billingdomain.ErrContentInvalid},
		{name: "null size", content: map[string]any{"size": nil}, wantErr: billingdomain.ErrContentInvalid},
		{name: "zero size", content: map[string]any{"size": 0}, wantErr: billingdomain.ErrVolumeSizeInvalid},
		{name: "negative size", content: map[string]any{"size": -4}, wantErr: billingdomain.ErrVolumeSizeInvalid},
		{name: "fractional size", content: map[string]any{"size": 1.5}, wantErr: billingdomain.ErrVolumeSizeInvalid},
		{name: "string size", content: map[string]any{"size": "10"}, wantErr: billingdomain.ErrVolumeSizeInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Volume{}.ValidateContent(tc.content)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestVolumeBillableQuantity(t *testing.T) {
	quantity, err := Volume{}.BillableQuantity(map[string]any{"size": 25})
	require.NoError(t, err)
	assert.Zero(t, quantity.Cmp(decimal.FromInt64(25)))

	_, err = Volume{}.BillableQuantity(map[string]any{})
	assert.ErrorIs(t, err, billingdomain.ErrContentInvalid)
}

func TestRouterBillsFlatQuantity(t *testing.T) {
	require.NoError(t, Router{}.ValidateContent(nil))

	quantity, err := Router{}.BillableQuantity(nil)
	require.NoError(t, err)
	assert.Zero(t, quantity.Cmp(decimal.FromInt64(1)))
}

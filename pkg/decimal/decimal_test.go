package decimal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	d, err := New("12.5")
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	_, err = New("not-a-number")
	assert.Error(t, err)
}

func TestZeroValueIsZero(t *testing.T) {
	var d Decimal
	assert.True(t, d.IsZero())
	assert.Zero(t, d.Cmp(Zero()))
	assert.Equal(t, "0", d.String())
}

func TestArithmetic(t *testing.T) {
	a := MustNew("0.1")
	b := MustNew("0.2")

	// Exact decimal addition, unlike float64.
	assert.Zero(t, a.Add(b).Cmp(MustNew("0.3")))
	assert.Zero(t, MustNew("240").Mul(MustNew("2")).Cmp(MustNew("480")))
}

func TestTenDaysInMillisecondsIsExactly240Hours(t *testing.T) {
	elapsed := FromInt64(10 * 24 * 3_600_000)
	hours := elapsed.Div(FromInt64(3_600_000))
	assert.Zero(t, hours.Cmp(MustNew("240")))
}

func TestSQLRoundTrip(t *testing.T) {
	original := MustNew("123.456")

	value, err := original.Value()
	require.NoError(t, err)

	var scanned Decimal
	require.NoError(t, scanned.Scan(value))
	assert.Zero(t, original.Cmp(scanned))

	require.NoError(t, scanned.Scan([]byte("7.25")))
	assert.Zero(t, scanned.Cmp(MustNew("7.25")))

	require.NoError(t, scanned.Scan(int64(42)))
	assert.Zero(t, scanned.Cmp(FromInt64(42)))

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())

	assert.Error(t, scanned.Scan(struct{}{}))
}

func TestJSON(t *testing.T) {
	out, err := json.Marshal(MustNew("19.99"))
	require.NoError(t, err)
	assert.Equal(t, "19.99", string(out))

	var d Decimal
	require.NoError(t, json.Unmarshal([]byte(`"3.50"`), &d))
	assert.Zero(t, d.Cmp(MustNew("3.50")))

	require.NoError(t, json.Unmarshal([]byte(`240`), &d))
	assert.Zero(t, d.Cmp(MustNew("240")))

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
}

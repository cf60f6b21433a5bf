package decimal

import (
	"database/sql/driver"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

var ctx = apd.BaseContext.WithPrecision(34)

// Decimal is an exact arbitrary-precision decimal used for money amounts.
// The zero value is usable and equals 0.
type Decimal struct {
	value apd.Decimal
}

func New(s string) (Decimal, error) {
	var d apd.Decimal
	_, _, err := d.SetString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return Decimal{value: d}, nil
}

// MustNew panics on an invalid literal. For constants and tests only.
func MustNew(s string) Decimal {
	d, err := New(s)
	if err != nil {
		panic(err)
	}
	return d
}

func FromInt64(i int64) Decimal {
	var d apd.Decimal
	d.SetInt64(i)
	return Decimal{value: d}
}

func Zero() Decimal {
	return Decimal{}
}

func (d Decimal) String() string {
	return d.value.String()
}

func (d Decimal) IsZero() bool {
	return d.value.IsZero()
}

func (d Decimal) Cmp(other Decimal) int {
	return d.value.Cmp(&other.value)
}

func (d Decimal) Add(other Decimal) Decimal {
	var result apd.Decimal
	_, _ = ctx.Add(&result, &d.value, &other.value)
	return Decimal{value: result}
}

func (d Decimal) Mul(other Decimal) Decimal {
	var result apd.Decimal
	_, _ = ctx.Mul(&result, &d.value, &other.value)
	return Decimal{value: result}
}

func (d Decimal) Div(other Decimal) Decimal {
	var result apd.Decimal
	_, _ = ctx.Quo(&result, &d.value, &other.value)
	return Decimal{value: result}
}

// Float64 is a lossy conversion for display and metrics.
func (d Decimal) Float64() float64 {
	f, _ := d.value.Float64()
	return f
}

// Value stores the decimal as its canonical string so NUMERIC columns
// keep full precision across postgres, mysql and sqlite.
func (d Decimal) Value() (driver.Value, error) {
	return d.value.String(), nil
}

func (d *Decimal) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Decimal{}
		return nil
	case string:
		parsed, err := New(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := New(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case int64:
		*d = FromInt64(v)
		return nil
	case float64:
		parsed, err := New(fmt.Sprintf("%v", v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Decimal", src)
	}
}

// GormDataType maps the column to NUMERIC across supported dialects.
func (Decimal) GormDataType() string {
	return "numeric"
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.value.String()), nil
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" || s == "" {
		*d = Decimal{}
		return nil
	}
	parsed, err := New(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

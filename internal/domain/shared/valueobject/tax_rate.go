package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	basisPointsScale = 10000
	maxBasisPoints   = 100 * 100
)

// TaxRate is a percentage between 0 and 100 with two decimal places,
// held as basis points (18.5% is 1850)
type TaxRate struct {
	bp int64
}

// NewTaxRate validates a percentage value
func NewTaxRate(percent decimal.Decimal) (TaxRate, error) {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return TaxRate{}, invalidTaxRate(fmt.Sprintf("Tax rate must be between 0 and 100, got %s", percent.String()))
	}
	if !percent.Equal(percent.Truncate(2)) {
		return TaxRate{}, invalidTaxRate(fmt.Sprintf("Tax rate allows at most two decimal places, got %s", percent.String()))
	}
	return TaxRate{bp: percent.Shift(2).IntPart()}, nil
}

// TaxRateFromBasisPoints builds a rate from its stored form
func TaxRateFromBasisPoints(bp int64) (TaxRate, error) {
	if bp < 0 || bp > maxBasisPoints {
		return TaxRate{}, invalidTaxRate(fmt.Sprintf("Tax rate must be between 0 and 10000 basis points, got %d", bp))
	}
	return TaxRate{bp: bp}, nil
}

// MustTaxRate parses a literal percentage, panicking on invalid input
func MustTaxRate(percent string) TaxRate {
	r, err := NewTaxRate(decimal.RequireFromString(percent))
	if err != nil {
		panic(err)
	}
	return r
}

// BasisPoints returns the stored form
func (r TaxRate) BasisPoints() int64 {
	return r.bp
}

// Percent returns the rate as a decimal percentage
func (r TaxRate) Percent() decimal.Decimal {
	return decimal.New(r.bp, -2)
}

// IsZero reports a 0% rate
func (r TaxRate) IsZero() bool {
	return r.bp == 0
}

func (r TaxRate) String() string {
	return r.Percent().String() + "%"
}

// MarshalJSON encodes the rate as a JSON number (18.5)
func (r TaxRate) MarshalJSON() ([]byte, error) {
	return []byte(r.Percent().String()), nil
}

// UnmarshalJSON accepts a JSON number or numeric string
func (r *TaxRate) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return invalidTaxRate(fmt.Sprintf("Invalid tax rate: %s", string(data)))
	}
	parsed, err := NewTaxRate(d)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value implements driver.Valuer; rates are stored as DECIMAL(5,2)
func (r TaxRate) Value() (driver.Value, error) {
	return r.Percent().StringFixed(2), nil
}

// Scan implements sql.Scanner. Drivers hand DECIMAL back as text, sqlite as
// a float; both are validated through NewTaxRate.
func (r *TaxRate) Scan(value any) error {
	if value == nil {
		*r = TaxRate{}
		return nil
	}
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return invalidTaxRate(fmt.Sprintf("Cannot scan %v into tax rate", value))
	}
	parsed, err := NewTaxRate(d)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func invalidTaxRate(message string) *shared.DomainError {
	return shared.NewDomainError("INVALID_TAX_RATE", message)
}

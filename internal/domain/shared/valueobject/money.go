package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultMajorUnitDivisor is the number of minor units in a major unit
// (100 paise to the rupee, 100 cents to the dollar)
const DefaultMajorUnitDivisor int64 = 100

// ErrInvalidAmount is returned for negative, overflowing or unparsable amounts
var ErrInvalidAmount = shared.NewDomainError(shared.CodeInvalidAmount, "Amount must be a non-negative number of minor units")

// Money is an immutable non-negative amount counted in minor currency units.
// All arithmetic is integer; there is no floating point path.
type Money struct {
	minor int64
}

// NewMoney creates Money from a minor-unit count
func NewMoney(minor int64) (Money, error) {
	if minor < 0 {
		return Money{}, invalidAmount(fmt.Sprintf("Amount cannot be negative: %d", minor))
	}
	return Money{minor: minor}, nil
}

// MustMoney is NewMoney for literals known to be valid
func MustMoney(minor int64) Money {
	m, err := NewMoney(minor)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero amount
func Zero() Money {
	return Money{}
}

// ParseMoney parses a user-entered decimal string expressed in major units
// ("100.50" with divisor 100 is 10050 minor units)
func ParseMoney(s string, majorUnitDivisor int64) (Money, error) {
	places, ok := divisorPlaces(majorUnitDivisor)
	if !ok {
		return Money{}, invalidAmount(fmt.Sprintf("Invalid major unit divisor: %d", majorUnitDivisor))
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, invalidAmount(fmt.Sprintf("Invalid amount %q", s))
	}
	if d.IsNegative() {
		return Money{}, invalidAmount(fmt.Sprintf("Amount cannot be negative: %s", s))
	}
	scaled := d.Shift(places)
	if !scaled.Equal(scaled.Truncate(0)) {
		return Money{}, invalidAmount(fmt.Sprintf("Amount %q has more than %d decimal places", s, places))
	}
	if scaled.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return Money{}, invalidAmount(fmt.Sprintf("Amount %q is too large", s))
	}
	return Money{minor: scaled.IntPart()}, nil
}

// Minor returns the amount in minor units
func (m Money) Minor() int64 {
	return m.minor
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.minor == 0
}

// Equals compares two amounts
func (m Money) Equals(other Money) bool {
	return m.minor == other.minor
}

// Add returns the sum of both amounts
func (m Money) Add(other Money) (Money, error) {
	sum, carry := bits.Add64(uint64(m.minor), uint64(other.minor), 0)
	if carry != 0 || sum > math.MaxInt64 {
		return Money{}, invalidAmount("Amount overflow")
	}
	return Money{minor: int64(sum)}, nil
}

// Subtract returns m - other; the result may not go below zero
func (m Money) Subtract(other Money) (Money, error) {
	if other.minor > m.minor {
		return Money{}, invalidAmount(fmt.Sprintf("Cannot subtract %d from %d", other.minor, m.minor))
	}
	return Money{minor: m.minor - other.minor}, nil
}

// MultiplyByQuantity returns m * quantity
func (m Money) MultiplyByQuantity(quantity int64) (Money, error) {
	if quantity < 0 {
		return Money{}, invalidAmount(fmt.Sprintf("Quantity cannot be negative: %d", quantity))
	}
	hi, lo := bits.Mul64(uint64(m.minor), uint64(quantity))
	if hi != 0 || lo > math.MaxInt64 {
		return Money{}, invalidAmount("Amount overflow")
	}
	return Money{minor: int64(lo)}, nil
}

// PercentOf returns rate percent of m, rounded to the nearest minor unit with
// ties rounding up
func (m Money) PercentOf(rate TaxRate) Money {
	hi, lo := bits.Mul64(uint64(m.minor), uint64(rate.BasisPoints()))
	var carry uint64
	lo, carry = bits.Add64(lo, basisPointsScale/2, 0)
	hi += carry
	// rate is at most 100%, so the quotient never exceeds m and cannot overflow
	q, _ := bits.Div64(hi, lo, basisPointsScale)
	return Money{minor: int64(q)}
}

// Format renders the amount in major units for display only
func (m Money) Format(majorUnitDivisor int64) string {
	places, ok := divisorPlaces(majorUnitDivisor)
	if !ok {
		return strconv.FormatInt(m.minor, 10)
	}
	return decimal.New(m.minor, -places).StringFixed(places)
}

// String returns the minor-unit count
func (m Money) String() string {
	return strconv.FormatInt(m.minor, 10)
}

// MarshalJSON encodes Money as an integer of minor units
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.minor)
}

// UnmarshalJSON decodes an integer of minor units
func (m *Money) UnmarshalJSON(data []byte) error {
	var minor int64
	if err := json.Unmarshal(data, &minor); err != nil {
		return invalidAmount(fmt.Sprintf("Amount must be an integer of minor units: %s", string(data)))
	}
	parsed, err := NewMoney(minor)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.minor, nil
}

// Scan implements sql.Scanner for database retrieval. Stored values go
// through NewMoney, so a negative column is an error rather than a Money.
func (m *Money) Scan(value any) error {
	var (
		minor int64
		err   error
	)
	switch v := value.(type) {
	case nil:
	case int64:
		minor = v
	case []byte:
		minor, err = strconv.ParseInt(string(v), 10, 64)
	case string:
		minor, err = strconv.ParseInt(v, 10, 64)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	if err != nil {
		return fmt.Errorf("cannot scan %v into Money: %w", value, err)
	}
	parsed, err := NewMoney(minor)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func invalidAmount(message string) *shared.DomainError {
	return shared.NewDomainError(shared.CodeInvalidAmount, message)
}

// divisorPlaces returns log10(divisor) for powers of ten
func divisorPlaces(divisor int64) (int32, bool) {
	if divisor < 1 {
		return 0, false
	}
	var places int32
	for divisor > 1 {
		if divisor%10 != 0 {
			return 0, false
		}
		divisor /= 10
		places++
	}
	return places, true
}

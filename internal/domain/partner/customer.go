package partner

import (
	"regexp"
	"strings"

	"github.com/erp/billing/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ErrCustomerNotFound is returned when a document references an unknown customer
var ErrCustomerNotFound = shared.NewNotFoundError("CUSTOMER_NOT_FOUND", "Customer not found")

// Customer is the billed party of sales orders and invoices.
// Documents only reference it by ID.
type Customer struct {
	shared.BaseAggregateRoot
	Name    string
	Email   string
	Address string
}

// NewCustomer creates a new customer
func NewCustomer(name, email, address string) (*Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             strings.ToLower(email),
		Address:           strings.TrimSpace(address),
	}, nil
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

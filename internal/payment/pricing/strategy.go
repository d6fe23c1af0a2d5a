package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Type identifies how a member's share of a subscription is priced
type Type string

const (
	TypeMonthly      Type = "monthly"
	TypeInitial      Type = "initial"
	TypeProportional Type = "proportional"
)

// Input carries everything a strategy needs to price one member's share
type Input struct {
	TotalPrice  float64
	Members     int
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	Now         time.Time
}

// Strategy is the interface all pricing strategies implement
type Strategy interface {
	// Calculate computes the member's share for the billing period
	Calculate(in Input) (float64, error)

	// Type returns the type identifier for this strategy
	Type() Type

	// Validate checks if the inputs are valid for this strategy
	Validate(in Input) error
}

// Factory creates pricing strategies based on the payment type
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the appropriate strategy implementation based on the type
func (f *Factory) Create(t Type) (Strategy, error) {
	switch t {
	case TypeMonthly:
		return &MonthlyStrategy{}, nil
	case TypeInitial:
		return &InitialStrategy{}, nil
	case TypeProportional:
		return &ProportionalStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown payment type: %s", t)
	}
}

// CreateFromString creates a strategy from a string type (useful for API requests)
func (f *Factory) CreateFromString(t string) (Strategy, error) {
	return f.Create(Type(t))
}

var (
	ErrNoMembers     = errors.New("subscription has no members")
	ErrNegativePrice = errors.New("total price cannot be negative")
	ErrMissingPeriod = errors.New("billing period required for proportional pricing")
	ErrInvalidPeriod = errors.New("billing period end must be after start")
)

// roundToTwoDecimals rounds a float to 2 decimal places
func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// evenShare is one member's slice of the full subscription price
func evenShare(totalPrice float64, members int) float64 {
	return roundToTwoDecimals(totalPrice / float64(members))
}

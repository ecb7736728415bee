// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

import "github.com/shopspring/decimal"

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Driver names a single cost-volume-profit input that a sensitivity sweep
// can perturb
type Driver string

const (
	DriverFixedCosts       Driver = "fixed_costs"
	DriverUnitPrice        Driver = "unit_price"
	DriverUnitVariableCost Driver = "unit_variable_cost"
)

// String returns the string representation of the driver
func (d Driver) String() string {
	return string(d)
}

// IsValid checks if the driver is a known driver
func (d Driver) IsValid() bool {
	switch d {
	case DriverFixedCosts, DriverUnitPrice, DriverUnitVariableCost:
		return true
	default:
		return false
	}
}

// Hundred is used for percent conversions
var Hundred = decimal.NewFromInt(100)

// Money is an amount labelled with its currency, for display
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// NewMoney creates Money from a decimal amount
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

// String returns formatted money (2 decimal places)
func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + string(m.Currency)
}

package models

import (
	"fmt"
	"strings"
)

// Money is an immutable amount plus 3-letter currency code. It is embedded
// into owning models with gorm's embedded tags; a zero Currency means the
// value was never set.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `gorm:"size:3" json:"currency"`
}

// NewMoney validates and builds a Money value (amount >= 0)
func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, fmt.Errorf("money amount must not be negative: %w", ErrValidation)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("currency must be a 3-letter code: %w", ErrValidation)
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return Money{}, fmt.Errorf("currency must be a 3-letter code: %w", ErrValidation)
		}
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// NewPositiveMoney is NewMoney with a strictly positive amount (refunds, invoices)
func NewPositiveMoney(amount float64, currency string) (Money, error) {
	m, err := NewMoney(amount, currency)
	if err != nil {
		return Money{}, err
	}
	if m.Amount == 0 {
		return Money{}, fmt.Errorf("money amount must be positive: %w", ErrValidation)
	}
	return m, nil
}

// IsSet reports whether the value was ever assigned
func (m Money) IsSet() bool {
	return m.Currency != ""
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Amount, m.Currency)
}

package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidAmount indicates a malformed amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNonPositiveAmount indicates a zero or negative amount.
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	// ErrAmountPrecision indicates an amount with more than 2 fractional digits.
	ErrAmountPrecision = errors.New("amount must have at most 2 decimal places")
)

// AccountBalance holds the single mutable credits record for an account.
// All monetary fields are fixed-point decimal strings with 2 fractional
// digits. Invariant: Balance == TotalEarned - TotalSpent and Balance >= 0
// after every successful ledger operation.
type AccountBalance struct {
	AccountID   int32     `json:"account_id"`
	Balance     string    `json:"balance"`
	TotalEarned string    `json:"total_earned"`
	TotalSpent  string    `json:"total_spent"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InsufficientFundsError is returned by a debit that exceeds the current
// balance. It carries the data the caller needs to render the condition
// to the user; no mutation has occurred when it is returned.
type InsufficientFundsError struct {
	Balance   string `json:"current_balance"`
	Requested string `json:"requested_amount"`
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient credits: balance %s, requested %s", e.Balance, e.Requested)
}

package domain

import (
	"errors"
	"time"
)

// ErrPackageNotFound indicates that the credit package is not found or inactive.
var ErrPackageNotFound = errors.New("credit package not found")

// CreditPackage holds a purchasable bundle of credits. The catalog is
// read-only here; purchases are correlated through Transaction.ReferenceID
// by the external billing system.
type CreditPackage struct {
	ID          int32     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Credits     string    `json:"credits"`
	Price       string    `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreditStats is the dashboard summary assembled by the stats aggregator.
type CreditStats struct {
	Balance            string        `json:"balance"`
	TotalEarned        string        `json:"total_earned"`
	TotalSpent         string        `json:"total_spent"`
	MonthlyEarned      string        `json:"monthly_earned"`
	MonthlySpent       string        `json:"monthly_spent"`
	RecentTransactions []Transaction `json:"recent_transactions"`
}

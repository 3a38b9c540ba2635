package domain

import (
	"errors"
	"time"
)

// ErrInvalidKind indicates an unknown transaction kind.
var ErrInvalidKind = errors.New("invalid transaction kind")

// Kind enumerates the direction and nature of a transaction.
// Direction is carried by the kind, never by the sign of the amount.
type Kind string

// Transaction kinds.
const (
	KindEarned Kind = "earned"
	KindSpent  Kind = "spent"
	KindBonus  Kind = "bonus"
	KindRefund Kind = "refund"
)

// Valid reports whether k is a known transaction kind.
func (k Kind) Valid() bool {
	switch k {
	case KindEarned, KindSpent, KindBonus, KindRefund:
		return true
	}

	return false
}

// Transaction holds one immutable record of a balance-changing event.
// Amount is always strictly positive.
type Transaction struct {
	ID          int64     `json:"id"`
	AccountID   int32     `json:"account_id"`
	Amount      string    `json:"amount"`
	Kind        Kind      `json:"kind"`
	Description string    `json:"description"`
	ReferenceID string    `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTransactionParams is the input data for a single ledger operation.
type CreateTransactionParams struct {
	AccountID   int32  `json:"account_id"`
	Amount      string `json:"amount"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
	ReferenceID string `json:"reference_id"`
}

// Transaction list ordering.
const (
	OrderByCreatedAt = "created_at"
	OrderByAmount    = "amount"
	OrderAsc         = "asc"
	OrderDesc        = "desc"
)

// ListTransactionsParams is the input data to list transaction records.
// AccountID zero lists records across all accounts (admin scope).
type ListTransactionsParams struct {
	AccountID int32  `json:"account_id"`
	Kind      Kind   `json:"kind"`
	Search    string `json:"search"`
	OrderBy   string `json:"order_by"`
	Order     string `json:"order"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

// LedgerTxResult is the result of a completed credit or debit.
type LedgerTxResult struct {
	Balance     AccountBalance `json:"balance"`
	Transaction Transaction    `json:"transaction"`
}

// TransactionCompleted is the event published after a successful
// ledger operation.
type TransactionCompleted struct {
	TransactionID int64     `json:"transaction_id"`
	AccountID     int32     `json:"account_id"`
	Kind          Kind      `json:"kind"`
	Amount        string    `json:"amount"`
	Balance       string    `json:"balance"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

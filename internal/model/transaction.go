package model

import "time"

type TransactionType string

const (
	TransactionTokenPurchase   TransactionType = "token_purchase"
	TransactionTutoringPayment TransactionType = "tutoring_payment"
	TransactionTutorEarning    TransactionType = "tutor_earning"
	TransactionWithdrawal      TransactionType = "withdrawal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// Transaction is an append-only ledger entry. Rows are never updated after
// creation except for the pending->completed flip of a purchase.
type Transaction struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Type        TransactionType   `json:"type"`
	Amount      int64             `json:"amount"`
	Tokens      int64             `json:"tokens,omitempty"`
	Status      TransactionStatus `json:"status"`
	PaymentRef  string            `json:"payment_ref,omitempty"`
	SessionID   *int64            `json:"session_id,omitempty"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

type TransactionRepository struct {
	db DB
}

func NewTransactionRepository(db DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, user_id, type, amount, tokens, status, payment_ref, session_id, description, created_at`

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	var t model.Transaction
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Type,
		&t.Amount,
		&t.Tokens,
		&t.Status,
		&t.PaymentRef,
		&t.SessionID,
		&t.Description,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, type, amount, tokens, status, payment_ref, session_id, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		t.UserID,
		t.Type,
		t.Amount,
		t.Tokens,
		t.Status,
		t.PaymentRef,
		t.SessionID,
		t.Description,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	return nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.queryTransactions(ctx, query, userID, limit)
}

func (r *TransactionRepository) List(ctx context.Context) ([]*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC`
	return r.queryTransactions(ctx, query)
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*model.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) GetByRef(ctx context.Context, ref string) (*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE payment_ref = $1`

	t, err := scanTransaction(r.db.QueryRow(ctx, query, ref))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by ref: %w", err)
	}

	return t, nil
}

// CompleteByRef flips the user's pending transaction to completed and returns
// it. The status guard in the statement makes the flip exactly-once: a second
// confirm finds no pending row and reports the state error.
func (r *TransactionRepository) CompleteByRef(ctx context.Context, ref string, userID int64) (*model.Transaction, error) {
	query := `
		UPDATE transactions
		SET status = 'completed'
		WHERE payment_ref = $1 AND user_id = $2 AND status = 'pending'
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRow(ctx, query, ref, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			existing, err := r.GetByRef(ctx, ref)
			if err != nil {
				return nil, err
			}
			if existing == nil || existing.UserID != userID {
				return nil, fmt.Errorf("complete transaction: %w", apperr.ErrNotFound)
			}
			return nil, fmt.Errorf("complete transaction: %w", apperr.ErrInvalidState)
		}
		return nil, fmt.Errorf("complete transaction: %w", err)
	}

	return t, nil
}

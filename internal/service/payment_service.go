package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

// PaymentService runs the simulated token purchase flow and withdrawals.
// There is no real payment provider behind it; intents are confirmed by the
// client directly.
type PaymentService struct {
	store         Store
	notifications *NotificationService
	logger        *zap.Logger
}

func NewPaymentService(store Store, notifications *NotificationService, logger *zap.Logger) *PaymentService {
	return &PaymentService{store: store, notifications: notifications, logger: logger}
}

type PurchaseIntent struct {
	PaymentRef   string `json:"payment_ref"`
	ClientSecret string `json:"client_secret"`
}

// CreatePurchaseIntent opens a pending token purchase and hands back its ref.
func (s *PaymentService) CreatePurchaseIntent(ctx context.Context, userID, amount, tokens int64) (*PurchaseIntent, error) {
	if amount <= 0 || tokens <= 0 {
		return nil, fmt.Errorf("amount and tokens must be positive: %w", apperr.ErrValidation)
	}

	ref := "pi_" + uuid.NewString()

	t := &model.Transaction{
		UserID:      userID,
		Type:        model.TransactionTokenPurchase,
		Amount:      amount,
		Tokens:      tokens,
		Status:      model.TransactionStatusPending,
		PaymentRef:  ref,
		Description: fmt.Sprintf("Purchase %d tokens", tokens),
	}
	if err := s.store.Repos().Transactions.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("purchase intent created",
		zap.Int64("user_id", userID),
		zap.Int64("tokens", tokens),
		zap.String("payment_ref", ref),
	)

	return &PurchaseIntent{PaymentRef: ref, ClientSecret: ref + "_secret_demo"}, nil
}

// ConfirmPurchase completes the pending purchase exactly once and credits the
// tokens, all within one transaction.
func (s *PaymentService) ConfirmPurchase(ctx context.Context, userID int64, ref string) error {
	err := s.store.WithTx(ctx, func(r Repos) error {
		t, err := r.Transactions.CompleteByRef(ctx, ref, userID)
		if err != nil {
			return err
		}
		if err := r.Profiles.Credit(ctx, userID, t.Tokens); err != nil {
			return err
		}
		return s.notifications.Push(ctx, r, &model.Notification{
			UserID:  userID,
			Title:   "Payment Successful",
			Message: fmt.Sprintf("Successfully purchased %d tokens!", t.Tokens),
			Type:    model.NotificationSuccess,
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("purchase confirmed",
		zap.Int64("user_id", userID),
		zap.String("payment_ref", ref),
	)

	return nil
}

// Transactions returns the caller's latest ledger entries.
func (s *PaymentService) Transactions(ctx context.Context, userID int64) ([]*model.Transaction, error) {
	return s.store.Repos().Transactions.ListByUser(ctx, userID, 20)
}

// RequestWithdrawal lets a tutor withdraw accumulated earnings. The earnings
// debit carries the same conditional guard as the token ledger.
func (s *PaymentService) RequestWithdrawal(ctx context.Context, actor *model.Profile, amount int64) error {
	if actor == nil || !actor.IsTutor() {
		return fmt.Errorf("only tutors can withdraw earnings: %w", apperr.ErrUnauthorized)
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", apperr.ErrValidation)
	}

	err := s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Profiles.DebitEarnings(ctx, actor.UserID, amount); err != nil {
			return err
		}
		t := &model.Transaction{
			UserID:      actor.UserID,
			Type:        model.TransactionWithdrawal,
			Amount:      amount,
			Status:      model.TransactionStatusPending,
			Description: fmt.Sprintf("Withdrawal of %d tokens", amount),
		}
		if err := r.Transactions.Create(ctx, t); err != nil {
			return err
		}
		return s.notifications.Push(ctx, r, &model.Notification{
			UserID:  actor.UserID,
			Title:   "Withdrawal Requested",
			Message: fmt.Sprintf("Your withdrawal of %d tokens is being processed.", amount),
			Type:    model.NotificationInfo,
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("withdrawal requested",
		zap.Int64("user_id", actor.UserID),
		zap.Int64("amount", amount),
	)

	return nil
}

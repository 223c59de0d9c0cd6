package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

// AdminService backs the moderation dashboard. Every method requires the
// acting profile to hold the admin role.
type AdminService struct {
	store         Store
	notifications *NotificationService
	logger        *zap.Logger
}

func NewAdminService(store Store, notifications *NotificationService, logger *zap.Logger) *AdminService {
	return &AdminService{store: store, notifications: notifications, logger: logger}
}

func requireAdmin(actor *model.Profile) error {
	if actor == nil {
		return fmt.Errorf("profile required: %w", apperr.ErrUnauthenticated)
	}
	if !actor.IsAdmin() {
		return fmt.Errorf("admin access required: %w", apperr.ErrUnauthorized)
	}
	return nil
}

// ListUsers returns every profile, optionally narrowed to one role.
func (s *AdminService) ListUsers(ctx context.Context, actor *model.Profile, role model.Role) ([]*model.Profile, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if role != "" {
		return s.store.Repos().Profiles.ListByRole(ctx, role)
	}
	return s.store.Repos().Profiles.List(ctx)
}

// ApproveTutor grants or revokes a tutor's approval and tells them.
func (s *AdminService) ApproveTutor(ctx context.Context, actor *model.Profile, tutorID int64, approved bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	tutor, err := s.store.Repos().Profiles.GetByUserID(ctx, tutorID)
	if err != nil {
		return err
	}
	if tutor == nil || !tutor.IsTutor() {
		return fmt.Errorf("tutor not found: %w", apperr.ErrNotFound)
	}

	err = s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Profiles.SetApproved(ctx, tutorID, approved); err != nil {
			return err
		}

		n := &model.Notification{
			UserID: tutorID,
			Title:  "Application Approved",
			Type:   model.NotificationSuccess,
			Message: "Congratulations! Your tutor application has been approved. " +
				"You can now receive tutoring requests.",
		}
		if !approved {
			n.Title = "Application Rejected"
			n.Type = model.NotificationWarning
			n.Message = "Your tutor application has been rejected. Please contact support for more information."
		}
		return s.notifications.Push(ctx, r, n)
	})
	if err != nil {
		return err
	}

	s.logger.Info("tutor approval updated",
		zap.Int64("tutor_id", tutorID),
		zap.Bool("approved", approved),
		zap.Int64("admin_id", actor.UserID),
	)

	return nil
}

// AddTokens credits a user's balance out of band and returns the new balance.
func (s *AdminService) AddTokens(ctx context.Context, actor *model.Profile, userID, amount int64) (int64, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive: %w", apperr.ErrValidation)
	}

	var balance int64
	err := s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Profiles.Credit(ctx, userID, amount); err != nil {
			return err
		}
		t := &model.Transaction{
			UserID:      userID,
			Type:        model.TransactionTokenPurchase,
			Tokens:      amount,
			Status:      model.TransactionStatusCompleted,
			Description: fmt.Sprintf("Admin grant of %d tokens", amount),
		}
		if err := r.Transactions.Create(ctx, t); err != nil {
			return err
		}

		profile, err := r.Profiles.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return fmt.Errorf("profile: %w", apperr.ErrNotFound)
		}
		balance = profile.Tokens
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("tokens granted",
		zap.Int64("user_id", userID),
		zap.Int64("amount", amount),
		zap.Int64("admin_id", actor.UserID),
	)

	return balance, nil
}

// DeductTokens removes tokens from a user's balance. The ledger guard applies:
// a balance below amount fails without going negative.
func (s *AdminService) DeductTokens(ctx context.Context, actor *model.Profile, userID, amount int64) (int64, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive: %w", apperr.ErrValidation)
	}

	var balance int64
	err := s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Profiles.Debit(ctx, userID, amount); err != nil {
			return err
		}

		profile, err := r.Profiles.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return fmt.Errorf("profile: %w", apperr.ErrNotFound)
		}
		balance = profile.Tokens
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("tokens deducted",
		zap.Int64("user_id", userID),
		zap.Int64("amount", amount),
		zap.Int64("admin_id", actor.UserID),
	)

	return balance, nil
}

func (s *AdminService) ListNotes(ctx context.Context, actor *model.Profile) ([]*model.Note, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.Repos().Notes.List(ctx)
}

// ListSessions returns every tutoring session with both profiles attached.
func (s *AdminService) ListSessions(ctx context.Context, actor *model.Profile) ([]*model.TutoringSession, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	r := s.store.Repos()
	sessions, err := r.Sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		if session.Student, err = r.Profiles.GetByUserID(ctx, session.StudentID); err != nil {
			return nil, err
		}
		if session.Tutor, err = r.Profiles.GetByUserID(ctx, session.TutorID); err != nil {
			return nil, err
		}
	}

	return sessions, nil
}

func (s *AdminService) ListTransactions(ctx context.Context, actor *model.Profile) ([]*model.Transaction, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.Repos().Transactions.List(ctx)
}

func (s *AdminService) Stats(ctx context.Context, actor *model.Profile) (*model.SystemStats, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.Repos().Stats.SystemStats(ctx)
}

// DeleteUser removes a user's profile, notes, derived artifacts, notifications
// and study activity. Transactions and tutoring sessions stay behind as the
// financial audit trail.
func (s *AdminService) DeleteUser(ctx context.Context, actor *model.Profile, userID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(r Repos) error {
		notes, err := r.Notes.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, note := range notes {
			if err := r.Artifacts.DeleteByNote(ctx, note.ID); err != nil {
				return err
			}
		}
		if err := r.Notes.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := r.Notifications.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := r.StudySessions.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return r.Profiles.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted",
		zap.Int64("user_id", userID),
		zap.Int64("admin_id", actor.UserID),
	)

	return nil
}

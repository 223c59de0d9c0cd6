package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

// TutoringService drives the session lifecycle:
//
//	pending -> accepted -> completed (+ rating)
//	pending -> rejected
//	pending -> cancelled
//
// Acceptance moves the payment: the student debit, both transaction records,
// the tutor earnings credit and the notification commit atomically with the
// status flip or not at all.
type TutoringService struct {
	store         Store
	notifications *NotificationService
	logger        *zap.Logger
}

func NewTutoringService(store Store, notifications *NotificationService, logger *zap.Logger) *TutoringService {
	return &TutoringService{store: store, notifications: notifications, logger: logger}
}

type SessionRequestInput struct {
	TutorID       int64
	Subject       string
	Description   string
	ScheduledTime time.Time
	Duration      int // minutes
}

// Request books a session with an approved tutor. The price is snapshotted
// from the tutor's current hourly rate and never recomputed.
func (s *TutoringService) Request(ctx context.Context, student *model.Profile, in SessionRequestInput) (*model.TutoringSession, error) {
	if student == nil || !student.IsStudent() {
		return nil, fmt.Errorf("only students can request tutoring sessions: %w", apperr.ErrUnauthorized)
	}
	if in.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive: %w", apperr.ErrValidation)
	}

	tutor, err := s.store.Repos().Profiles.GetByUserID(ctx, in.TutorID)
	if err != nil {
		return nil, err
	}
	if tutor == nil || !tutor.IsTutor() || !tutor.IsApproved {
		return nil, fmt.Errorf("tutor not found or not approved: %w", apperr.ErrNotFound)
	}

	price := model.SessionPrice(tutor.HourlyRate, in.Duration)
	if student.Tokens < price {
		return nil, fmt.Errorf("session costs %d tokens: %w", price, apperr.ErrInsufficientFunds)
	}

	session := &model.TutoringSession{
		StudentID:     student.UserID,
		TutorID:       in.TutorID,
		Subject:       in.Subject,
		Description:   in.Description,
		ScheduledTime: in.ScheduledTime,
		Duration:      in.Duration,
		Status:        model.SessionStatusPending,
		Price:         price,
	}

	err = s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Sessions.Create(ctx, session); err != nil {
			return err
		}
		return s.notifications.Push(ctx, r, &model.Notification{
			UserID:    in.TutorID,
			Title:     "New Tutoring Request",
			Message:   fmt.Sprintf("You have a new tutoring request for %s", in.Subject),
			Type:      model.NotificationInfo,
			ActionURL: fmt.Sprintf("/tutor/sessions/%d", session.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session requested",
		zap.Int64("session_id", session.ID),
		zap.Int64("student_id", student.UserID),
		zap.Int64("tutor_id", in.TutorID),
		zap.Int64("price", price),
	)

	return session, nil
}

// Respond accepts or rejects a pending request. Only the session's tutor may
// respond. On accept, insufficient student funds abort the whole transition
// and the session stays pending.
func (s *TutoringService) Respond(ctx context.Context, tutor *model.Profile, sessionID int64, accept bool, meetingLink string) error {
	if tutor == nil {
		return fmt.Errorf("profile required: %w", apperr.ErrUnauthorized)
	}

	session, err := s.store.Repos().Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil || session.TutorID != tutor.UserID {
		return fmt.Errorf("session not found or access denied: %w", apperr.ErrNotFound)
	}
	if session.Status != model.SessionStatusPending {
		return fmt.Errorf("session is not pending: %w", apperr.ErrInvalidState)
	}

	if !accept {
		err := s.store.WithTx(ctx, func(r Repos) error {
			if err := r.Sessions.Respond(ctx, sessionID, model.SessionStatusRejected, meetingLink); err != nil {
				return err
			}
			return s.notifications.Push(ctx, r, &model.Notification{
				UserID:    session.StudentID,
				Title:     "Tutoring Request Rejected",
				Message:   fmt.Sprintf("Your tutoring request for %s has been rejected.", session.Subject),
				Type:      model.NotificationWarning,
				ActionURL: fmt.Sprintf("/student/sessions/%d", sessionID),
			})
		})
		if err != nil {
			return err
		}

		s.logger.Info("session rejected",
			zap.Int64("session_id", sessionID),
			zap.Int64("tutor_id", tutor.UserID),
		)
		return nil
	}

	err = s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Sessions.Respond(ctx, sessionID, model.SessionStatusAccepted, meetingLink); err != nil {
			return err
		}

		if err := r.Profiles.Debit(ctx, session.StudentID, session.Price); err != nil {
			return err
		}
		payment := &model.Transaction{
			UserID:      session.StudentID,
			Type:        model.TransactionTutoringPayment,
			Amount:      session.Price,
			Tokens:      session.Price,
			Status:      model.TransactionStatusCompleted,
			SessionID:   &session.ID,
			Description: fmt.Sprintf("Payment for tutoring session: %s", session.Subject),
		}
		if err := r.Transactions.Create(ctx, payment); err != nil {
			return err
		}

		if err := r.Profiles.AddEarnings(ctx, tutor.UserID, session.Price); err != nil {
			return err
		}
		earning := &model.Transaction{
			UserID:      tutor.UserID,
			Type:        model.TransactionTutorEarning,
			Amount:      session.Price,
			Status:      model.TransactionStatusCompleted,
			SessionID:   &session.ID,
			Description: fmt.Sprintf("Earnings from tutoring session: %s", session.Subject),
		}
		if err := r.Transactions.Create(ctx, earning); err != nil {
			return err
		}

		return s.notifications.Push(ctx, r, &model.Notification{
			UserID:    session.StudentID,
			Title:     "Tutoring Request Accepted",
			Message:   fmt.Sprintf("Your tutoring request for %s has been accepted!", session.Subject),
			Type:      model.NotificationSuccess,
			ActionURL: fmt.Sprintf("/student/sessions/%d", sessionID),
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("session accepted",
		zap.Int64("session_id", sessionID),
		zap.Int64("tutor_id", tutor.UserID),
		zap.Int64("price", session.Price),
	)

	return nil
}

// Complete closes an accepted session; only its tutor may complete it.
func (s *TutoringService) Complete(ctx context.Context, tutor *model.Profile, sessionID int64, notes string) error {
	if tutor == nil {
		return fmt.Errorf("profile required: %w", apperr.ErrUnauthorized)
	}

	session, err := s.store.Repos().Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil || session.TutorID != tutor.UserID {
		return fmt.Errorf("session not found or access denied: %w", apperr.ErrNotFound)
	}
	if session.Status != model.SessionStatusAccepted {
		return fmt.Errorf("session is not accepted: %w", apperr.ErrInvalidState)
	}

	err = s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Sessions.Complete(ctx, sessionID, notes); err != nil {
			return err
		}
		return s.notifications.Push(ctx, r, &model.Notification{
			UserID:    session.StudentID,
			Title:     "Session Completed",
			Message:   fmt.Sprintf("Your tutoring session for %s has been completed. Please rate your experience!", session.Subject),
			Type:      model.NotificationSuccess,
			ActionURL: fmt.Sprintf("/student/sessions/%d", sessionID),
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("session completed", zap.Int64("session_id", sessionID))
	return nil
}

// Rate records the student's rating for a completed session. A repeat rating
// overwrites the previous one.
func (s *TutoringService) Rate(ctx context.Context, student *model.Profile, sessionID int64, rating int, review string) error {
	if student == nil {
		return fmt.Errorf("profile required: %w", apperr.ErrUnauthorized)
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5: %w", apperr.ErrValidation)
	}

	session, err := s.store.Repos().Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil || session.StudentID != student.UserID {
		return fmt.Errorf("session not found or access denied: %w", apperr.ErrNotFound)
	}
	if session.Status != model.SessionStatusCompleted {
		return fmt.Errorf("session is not completed: %w", apperr.ErrInvalidState)
	}

	return s.store.Repos().Sessions.SetRating(ctx, sessionID, rating, review)
}

// Cancel withdraws a still-pending request. Only the requesting student may
// cancel; nothing has been charged yet so there is no financial effect.
func (s *TutoringService) Cancel(ctx context.Context, student *model.Profile, sessionID int64) error {
	if student == nil {
		return fmt.Errorf("profile required: %w", apperr.ErrUnauthorized)
	}

	session, err := s.store.Repos().Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil || session.StudentID != student.UserID {
		return fmt.Errorf("session not found or access denied: %w", apperr.ErrNotFound)
	}
	if session.Status != model.SessionStatusPending {
		return fmt.Errorf("session is not pending: %w", apperr.ErrInvalidState)
	}

	err = s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Sessions.Cancel(ctx, sessionID); err != nil {
			return err
		}
		return s.notifications.Push(ctx, r, &model.Notification{
			UserID:  session.TutorID,
			Title:   "Tutoring Request Cancelled",
			Message: fmt.Sprintf("The tutoring request for %s has been cancelled by the student.", session.Subject),
			Type:    model.NotificationInfo,
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("session cancelled", zap.Int64("session_id", sessionID))
	return nil
}

// StudentSessions lists the student's sessions, newest first, with the tutor
// profile attached to each.
func (s *TutoringService) StudentSessions(ctx context.Context, userID int64) ([]*model.TutoringSession, error) {
	r := s.store.Repos()

	sessions, err := r.Sessions.ListByStudent(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		tutor, err := r.Profiles.GetByUserID(ctx, session.TutorID)
		if err != nil {
			return nil, err
		}
		session.Tutor = tutor
	}

	return sessions, nil
}

// TutorSessions lists the tutor's sessions with student profiles attached.
func (s *TutoringService) TutorSessions(ctx context.Context, userID int64) ([]*model.TutoringSession, error) {
	r := s.store.Repos()

	sessions, err := r.Sessions.ListByTutor(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		student, err := r.Profiles.GetByUserID(ctx, session.StudentID)
		if err != nil {
			return nil, err
		}
		session.Student = student
	}

	return sessions, nil
}

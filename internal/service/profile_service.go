package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

type ProfileService struct {
	store         Store
	notifications *NotificationService
	logger        *zap.Logger
}

func NewProfileService(store Store, notifications *NotificationService, logger *zap.Logger) *ProfileService {
	return &ProfileService{store: store, notifications: notifications, logger: logger}
}

type CreateProfileInput struct {
	Role           model.Role
	FirstName      string
	LastName       string
	Bio            string
	Expertise      []string
	HourlyRate     int64
	TelegramChatID *int64
}

// Create registers the caller's profile. One profile per user; students start
// with free tokens, tutors start unapproved.
func (s *ProfileService) Create(ctx context.Context, userID int64, in CreateProfileInput) (*model.Profile, error) {
	if in.Role != model.RoleStudent && in.Role != model.RoleTutor {
		return nil, fmt.Errorf("role must be student or tutor: %w", apperr.ErrValidation)
	}

	profile := &model.Profile{
		UserID:         userID,
		Role:           in.Role,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Bio:            in.Bio,
		Expertise:      in.Expertise,
		HourlyRate:     in.HourlyRate,
		TelegramChatID: in.TelegramChatID,
	}
	if in.Role == model.RoleStudent {
		profile.Tokens = model.StarterTokens
	}

	err := s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Profiles.Create(ctx, profile); err != nil {
			return err
		}
		return s.notifications.Push(ctx, r, &model.Notification{
			UserID:  userID,
			Title:   "Welcome!",
			Message: fmt.Sprintf("Welcome to AI Study Partner! Your %s account has been created successfully.", in.Role),
			Type:    model.NotificationSuccess,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile created",
		zap.Int64("user_id", userID),
		zap.String("role", string(in.Role)),
	)

	return profile, nil
}

type UpdateProfileInput struct {
	FirstName      *string
	LastName       *string
	Bio            *string
	Expertise      []string
	HourlyRate     *int64
	TelegramChatID *int64
}

// Update patches the provided fields only. Role, balance and approval are
// never touched here.
func (s *ProfileService) Update(ctx context.Context, userID int64, in UpdateProfileInput) (*model.Profile, error) {
	r := s.store.Repos()

	profile, err := r.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("profile: %w", apperr.ErrNotFound)
	}

	if in.FirstName != nil {
		profile.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		profile.LastName = *in.LastName
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.Expertise != nil {
		profile.Expertise = in.Expertise
	}
	if in.HourlyRate != nil {
		profile.HourlyRate = *in.HourlyRate
	}
	if in.TelegramChatID != nil {
		profile.TelegramChatID = in.TelegramChatID
	}

	if err := r.Profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// Get returns the caller's profile, or (nil, nil) when none exists yet.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*model.Profile, error) {
	return s.store.Repos().Profiles.GetByUserID(ctx, userID)
}

// ListTutors returns approved tutors, optionally narrowed to those whose
// expertise matches the subject (case-insensitive substring).
func (s *ProfileService) ListTutors(ctx context.Context, subject string) ([]*model.Profile, error) {
	tutors, err := s.store.Repos().Profiles.ListApprovedTutors(ctx)
	if err != nil {
		return nil, err
	}

	if subject == "" {
		return tutors, nil
	}

	needle := strings.ToLower(subject)
	var matched []*model.Profile
	for _, tutor := range tutors {
		for _, exp := range tutor.Expertise {
			if strings.Contains(strings.ToLower(exp), needle) {
				matched = append(matched, tutor)
				break
			}
		}
	}

	return matched, nil
}

// GetTutor returns a tutor's public profile, or (nil, nil) when the user is
// missing or not a tutor.
func (s *ProfileService) GetTutor(ctx context.Context, tutorID int64) (*model.Profile, error) {
	profile, err := s.store.Repos().Profiles.GetByUserID(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	if profile == nil || !profile.IsTutor() {
		return nil, nil
	}
	return profile, nil
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

func newAdminFixture() (*memStore, *AdminService) {
	store := newMemStore()
	logger := zap.NewNop()
	notifications := NewNotificationService(store, nil, logger)
	return store, NewAdminService(store, notifications, logger)
}

func seedAdmin(store *memStore, userID int64) *model.Profile {
	return store.seedProfile(&model.Profile{UserID: userID, Role: model.RoleAdmin})
}

func TestAdminGuard(t *testing.T) {
	ctx := context.Background()
	store, svc := newAdminFixture()
	student := seedStudent(store, 1, 10)

	_, err := svc.ListUsers(ctx, student, "")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Stats(ctx, nil)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestApproveTutor(t *testing.T) {
	ctx := context.Background()
	store, svc := newAdminFixture()
	admin := seedAdmin(store, 99)
	tutor := seedTutor(store, 2, 10)
	tutor.IsApproved = false

	require.NoError(t, svc.ApproveTutor(ctx, admin, 2, true))
	assert.True(t, tutor.IsApproved)

	notifications := store.notificationsFor(2)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Application Approved", notifications[0].Title)

	require.NoError(t, svc.ApproveTutor(ctx, admin, 2, false))
	assert.False(t, tutor.IsApproved)

	notifications = store.notificationsFor(2)
	require.Len(t, notifications, 2)
	assert.Equal(t, "Application Rejected", notifications[1].Title)
}

func TestApproveTutorNotATutor(t *testing.T) {
	ctx := context.Background()
	store, svc := newAdminFixture()
	admin := seedAdmin(store, 99)
	seedStudent(store, 1, 10)

	err := svc.ApproveTutor(ctx, admin, 1, true)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAdminTokenAdjustments(t *testing.T) {
	ctx := context.Background()
	store, svc := newAdminFixture()
	admin := seedAdmin(store, 99)
	student := seedStudent(store, 1, 10)

	balance, err := svc.AddTokens(ctx, admin, 1, 15)
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance)

	balance, err = svc.DeductTokens(ctx, admin, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance)

	// The ledger guard holds for admin deductions too.
	_, err = svc.DeductTokens(ctx, admin, 1, 100)
	require.ErrorIs(t, err, apperr.ErrInsufficientFunds)
	assert.Equal(t, int64(20), student.Tokens)
}

func TestAdminListUsersByRole(t *testing.T) {
	ctx := context.Background()
	store, svc := newAdminFixture()
	admin := seedAdmin(store, 99)
	seedStudent(store, 1, 10)
	seedStudent(store, 2, 10)
	seedTutor(store, 3, 12)

	all, err := svc.ListUsers(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	students, err := svc.ListUsers(ctx, admin, model.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, students, 2)
}

func TestSystemStats(t *testing.T) {
	ctx := context.Background()
	store, svc := newAdminFixture()
	admin := seedAdmin(store, 99)
	seedStudent(store, 1, 10)
	seedTutor(store, 2, 12)

	r := store.Repos()
	require.NoError(t, r.Notes.Create(ctx, &model.Note{UserID: 1, Title: "n", Content: "c"}))
	require.NoError(t, r.Sessions.Create(ctx, &model.TutoringSession{StudentID: 1, TutorID: 2, Status: model.SessionStatusCompleted}))
	require.NoError(t, r.Transactions.Create(ctx, &model.Transaction{
		UserID: 1, Type: model.TransactionTutoringPayment, Amount: 6, Status: model.TransactionStatusCompleted,
	}))
	require.NoError(t, r.Transactions.Create(ctx, &model.Transaction{
		UserID: 1, Type: model.TransactionTokenPurchase, Amount: 100, Status: model.TransactionStatusCompleted,
	}))

	stats, err := svc.Stats(ctx, admin)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalStudents)
	assert.Equal(t, int64(1), stats.TotalTutors)
	assert.Equal(t, int64(1), stats.ApprovedTutors)
	assert.Equal(t, int64(1), stats.TotalNotes)
	assert.Equal(t, int64(1), stats.CompletedSessions)
	assert.Equal(t, int64(2), stats.TotalTransactions)
	assert.Equal(t, int64(6), stats.TotalRevenue, "revenue counts completed tutoring payments only")
}

func TestDeleteUserKeepsAuditTrail(t *testing.T) {
	ctx := context.Background()
	store, svc := newAdminFixture()
	admin := seedAdmin(store, 99)
	seedStudent(store, 1, 10)

	r := store.Repos()
	note := &model.Note{UserID: 1, Title: "n", Content: "c"}
	require.NoError(t, r.Notes.Create(ctx, note))
	require.NoError(t, r.Artifacts.CreateFlashcard(ctx, &model.Flashcard{NoteID: note.ID, UserID: 1, Question: "q", Answer: "a"}))
	require.NoError(t, r.Notifications.Create(ctx, &model.Notification{UserID: 1, Title: "t", Message: "m", Type: model.NotificationInfo}))
	require.NoError(t, r.StudySessions.Create(ctx, &model.StudySession{UserID: 1, Type: model.ActivityNotes, Duration: 10, Date: "2024-05-10"}))
	require.NoError(t, r.Transactions.Create(ctx, &model.Transaction{UserID: 1, Type: model.TransactionTokenPurchase, Amount: 100}))

	require.NoError(t, svc.DeleteUser(ctx, admin, 1))

	profile, err := r.Profiles.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, profile)

	notes, _ := r.Notes.ListByUser(ctx, 1)
	assert.Empty(t, notes)
	cards, _ := r.Artifacts.FlashcardsByNote(ctx, note.ID)
	assert.Empty(t, cards)
	assert.Empty(t, store.notificationsFor(1))
	assert.Empty(t, store.data.studySessions)

	// Financial history survives account removal.
	assert.Len(t, store.transactionsFor(1), 1)
}

package service

import (
	"context"
	"time"

	"github.com/studypartner/backend/internal/model"
)

// Repos bundles the per-entity repositories. A bundle is bound either to the
// connection pool or, inside Store.WithTx, to a single transaction.
type Repos struct {
	Profiles      ProfileRepository
	Notes         NoteRepository
	Artifacts     ArtifactRepository
	Sessions      SessionRepository
	Transactions  TransactionRepository
	Notifications NotificationRepository
	StudySessions StudySessionRepository
	Tasks         TaskRepository
	Files         FileRepository
	Stats         StatsRepository
}

// Store gives services repository access plus an all-or-nothing transaction
// boundary: everything done through the bundle passed to WithTx commits in
// full or not at all.
type Store interface {
	Repos() Repos
	WithTx(ctx context.Context, fn func(Repos) error) error
}

// Lookups return (nil, nil) when the row does not exist; callers decide
// whether absence is an error.

type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) error // apperr.ErrDuplicate on an existing user id
	GetByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
	List(ctx context.Context) ([]*model.Profile, error)
	ListByRole(ctx context.Context, role model.Role) ([]*model.Profile, error)
	ListApprovedTutors(ctx context.Context) ([]*model.Profile, error)

	// Ledger operations. Debit is a single conditional update: it fails with
	// apperr.ErrInsufficientFunds without touching the balance when the
	// profile holds fewer tokens than amount.
	Credit(ctx context.Context, userID, amount int64) error
	Debit(ctx context.Context, userID, amount int64) error
	AddEarnings(ctx context.Context, userID, amount int64) error
	DebitEarnings(ctx context.Context, userID, amount int64) error

	SetApproved(ctx context.Context, userID int64, approved bool) error
	Delete(ctx context.Context, userID int64) error
}

type NoteRepository interface {
	Create(ctx context.Context, n *model.Note) error
	GetByID(ctx context.Context, id int64) (*model.Note, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Note, error)
	List(ctx context.Context) ([]*model.Note, error)
	// UpdateStatus also maintains the processed flag (true iff completed).
	UpdateStatus(ctx context.Context, id int64, status model.NoteStatus) error
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}

type ArtifactRepository interface {
	CreateFlashcard(ctx context.Context, f *model.Flashcard) error
	CreateQuiz(ctx context.Context, q *model.Quiz) error
	CreateSummary(ctx context.Context, s *model.Summary) error
	FlashcardsByNote(ctx context.Context, noteID int64) ([]*model.Flashcard, error)
	QuizzesByNote(ctx context.Context, noteID int64) ([]*model.Quiz, error)
	SummariesByNote(ctx context.Context, noteID int64) ([]*model.Summary, error)
	DeleteByNote(ctx context.Context, noteID int64) error
}

type SessionRepository interface {
	Create(ctx context.Context, s *model.TutoringSession) error
	GetByID(ctx context.Context, id int64) (*model.TutoringSession, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.TutoringSession, error)
	ListByTutor(ctx context.Context, tutorID int64) ([]*model.TutoringSession, error)
	List(ctx context.Context) ([]*model.TutoringSession, error)

	// Transitions are conditional single-row updates guarded on the source
	// status; they fail with apperr.ErrInvalidState when the session has
	// already left it.
	Respond(ctx context.Context, id int64, status model.SessionStatus, meetingLink string) error
	Complete(ctx context.Context, id int64, notes string) error
	Cancel(ctx context.Context, id int64) error
	SetRating(ctx context.Context, id int64, rating int, review string) error
}

type TransactionRepository interface {
	Create(ctx context.Context, t *model.Transaction) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*model.Transaction, error)
	List(ctx context.Context) ([]*model.Transaction, error)
	GetByRef(ctx context.Context, ref string) (*model.Transaction, error)
	// CompleteByRef flips the caller's pending purchase to completed exactly
	// once and returns the row; apperr.ErrInvalidState when already processed.
	CompleteByRef(ctx context.Context, ref string, userID int64) (*model.Transaction, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

type StudySessionRepository interface {
	Create(ctx context.Context, s *model.StudySession) error
	ListByUserSince(ctx context.Context, userID int64, fromDate string) ([]*model.StudySession, error)
	ListByUserOnDate(ctx context.Context, userID int64, date string) ([]*model.StudySession, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

type TaskRepository interface {
	// Enqueue is idempotent per note: a second enqueue for the same note
	// collapses into the existing row.
	Enqueue(ctx context.Context, noteID int64) error
	// ClaimNext atomically takes the oldest queued task, or (nil, nil).
	ClaimNext(ctx context.Context) (*model.EnrichmentTask, error)
	MarkDone(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, lastError string) error
	// RequeueStale returns running tasks older than the visibility timeout to
	// the queue so a crashed worker's work is retried.
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type FileRepository interface {
	Create(ctx context.Context, f *model.File) error
	GetByID(ctx context.Context, id string) (*model.File, error)
}

type StatsRepository interface {
	SystemStats(ctx context.Context) (*model.SystemStats, error)
}

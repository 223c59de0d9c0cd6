package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

// memStore is an in-memory Store for service tests. WithTx runs fn against
// the same data; transactional rollback is covered by repository tests against
// a real database, not here.
type memStore struct {
	data *memData
}

type memData struct {
	nextID int64

	profiles      map[int64]*model.Profile // keyed by user id
	notes         map[int64]*model.Note
	flashcards    []*model.Flashcard
	quizzes       []*model.Quiz
	summaries     []*model.Summary
	sessions      map[int64]*model.TutoringSession
	transactions  []*model.Transaction
	notifications []*model.Notification
	studySessions []*model.StudySession
	tasks         map[int64]*model.EnrichmentTask // keyed by note id
	files         map[string]*model.File
}

func newMemStore() *memStore {
	return &memStore{data: &memData{
		profiles: make(map[int64]*model.Profile),
		notes:    make(map[int64]*model.Note),
		sessions: make(map[int64]*model.TutoringSession),
		tasks:    make(map[int64]*model.EnrichmentTask),
		files:    make(map[string]*model.File),
	}}
}

func (d *memData) id() int64 {
	d.nextID++
	return d.nextID
}

func (s *memStore) Repos() Repos {
	return Repos{
		Profiles:      (*memProfiles)(s.data),
		Notes:         (*memNotes)(s.data),
		Artifacts:     (*memArtifacts)(s.data),
		Sessions:      (*memSessions)(s.data),
		Transactions:  (*memTransactions)(s.data),
		Notifications: (*memNotifications)(s.data),
		StudySessions: (*memStudySessions)(s.data),
		Tasks:         (*memTasks)(s.data),
		Files:         (*memFiles)(s.data),
		Stats:         (*memStats)(s.data),
	}
}

func (s *memStore) WithTx(_ context.Context, fn func(Repos) error) error {
	return fn(s.Repos())
}

// seedProfile inserts a profile directly, bypassing service rules.
func (s *memStore) seedProfile(p *model.Profile) *model.Profile {
	p.ID = s.data.id()
	s.data.profiles[p.UserID] = p
	return p
}

func (s *memStore) notificationsFor(userID int64) []*model.Notification {
	var out []*model.Notification
	for _, n := range s.data.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (s *memStore) transactionsFor(userID int64) []*model.Transaction {
	var out []*model.Transaction
	for _, t := range s.data.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

type memProfiles memData

func (m *memProfiles) Create(_ context.Context, p *model.Profile) error {
	if _, ok := m.profiles[p.UserID]; ok {
		return fmt.Errorf("profile exists: %w", apperr.ErrDuplicate)
	}
	p.ID = (*memData)(m).id()
	m.profiles[p.UserID] = p
	return nil
}

func (m *memProfiles) GetByUserID(_ context.Context, userID int64) (*model.Profile, error) {
	return m.profiles[userID], nil
}

func (m *memProfiles) Update(_ context.Context, p *model.Profile) error {
	if _, ok := m.profiles[p.UserID]; !ok {
		return fmt.Errorf("profile: %w", apperr.ErrNotFound)
	}
	m.profiles[p.UserID] = p
	return nil
}

func (m *memProfiles) List(_ context.Context) ([]*model.Profile, error) {
	var out []*model.Profile
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *memProfiles) ListByRole(_ context.Context, role model.Role) ([]*model.Profile, error) {
	var out []*model.Profile
	for _, p := range m.profiles {
		if p.Role == role {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *memProfiles) ListApprovedTutors(_ context.Context) ([]*model.Profile, error) {
	var out []*model.Profile
	for _, p := range m.profiles {
		if p.Role == model.RoleTutor && p.IsApproved {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *memProfiles) Credit(_ context.Context, userID, amount int64) error {
	p, ok := m.profiles[userID]
	if !ok {
		return fmt.Errorf("profile: %w", apperr.ErrNotFound)
	}
	p.Tokens += amount
	return nil
}

func (m *memProfiles) Debit(_ context.Context, userID, amount int64) error {
	p, ok := m.profiles[userID]
	if !ok {
		return fmt.Errorf("profile: %w", apperr.ErrNotFound)
	}
	if p.Tokens < amount {
		return fmt.Errorf("balance %d below %d: %w", p.Tokens, amount, apperr.ErrInsufficientFunds)
	}
	p.Tokens -= amount
	return nil
}

func (m *memProfiles) AddEarnings(_ context.Context, userID, amount int64) error {
	p, ok := m.profiles[userID]
	if !ok {
		return fmt.Errorf("profile: %w", apperr.ErrNotFound)
	}
	p.TotalEarnings += amount
	return nil
}

func (m *memProfiles) DebitEarnings(_ context.Context, userID, amount int64) error {
	p, ok := m.profiles[userID]
	if !ok {
		return fmt.Errorf("profile: %w", apperr.ErrNotFound)
	}
	if p.TotalEarnings < amount {
		return fmt.Errorf("earnings %d below %d: %w", p.TotalEarnings, amount, apperr.ErrInsufficientFunds)
	}
	p.TotalEarnings -= amount
	return nil
}

func (m *memProfiles) SetApproved(_ context.Context, userID int64, approved bool) error {
	p, ok := m.profiles[userID]
	if !ok {
		return fmt.Errorf("profile: %w", apperr.ErrNotFound)
	}
	p.IsApproved = approved
	return nil
}

func (m *memProfiles) Delete(_ context.Context, userID int64) error {
	delete(m.profiles, userID)
	return nil
}

type memNotes memData

func (m *memNotes) Create(_ context.Context, n *model.Note) error {
	n.ID = (*memData)(m).id()
	n.CreatedAt = time.Now()
	m.notes[n.ID] = n
	return nil
}

func (m *memNotes) GetByID(_ context.Context, id int64) (*model.Note, error) {
	return m.notes[id], nil
}

func (m *memNotes) ListByUser(_ context.Context, userID int64) ([]*model.Note, error) {
	var out []*model.Note
	for _, n := range m.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memNotes) List(_ context.Context) ([]*model.Note, error) {
	var out []*model.Note
	for _, n := range m.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memNotes) UpdateStatus(_ context.Context, id int64, status model.NoteStatus) error {
	n, ok := m.notes[id]
	if !ok {
		return fmt.Errorf("note: %w", apperr.ErrNotFound)
	}
	n.Status = status
	n.Processed = status == model.NoteStatusCompleted
	return nil
}

func (m *memNotes) Delete(_ context.Context, id int64) error {
	delete(m.notes, id)
	return nil
}

func (m *memNotes) DeleteByUser(_ context.Context, userID int64) error {
	for id, n := range m.notes {
		if n.UserID == userID {
			delete(m.notes, id)
		}
	}
	return nil
}

type memArtifacts memData

func (m *memArtifacts) CreateFlashcard(_ context.Context, f *model.Flashcard) error {
	f.ID = (*memData)(m).id()
	m.flashcards = append(m.flashcards, f)
	return nil
}

func (m *memArtifacts) CreateQuiz(_ context.Context, q *model.Quiz) error {
	q.ID = (*memData)(m).id()
	m.quizzes = append(m.quizzes, q)
	return nil
}

func (m *memArtifacts) CreateSummary(_ context.Context, s *model.Summary) error {
	s.ID = (*memData)(m).id()
	m.summaries = append(m.summaries, s)
	return nil
}

func (m *memArtifacts) FlashcardsByNote(_ context.Context, noteID int64) ([]*model.Flashcard, error) {
	var out []*model.Flashcard
	for _, f := range m.flashcards {
		if f.NoteID == noteID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memArtifacts) QuizzesByNote(_ context.Context, noteID int64) ([]*model.Quiz, error) {
	var out []*model.Quiz
	for _, q := range m.quizzes {
		if q.NoteID == noteID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memArtifacts) SummariesByNote(_ context.Context, noteID int64) ([]*model.Summary, error) {
	var out []*model.Summary
	for _, s := range m.summaries {
		if s.NoteID == noteID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memArtifacts) DeleteByNote(_ context.Context, noteID int64) error {
	m.flashcards = filterOut(m.flashcards, func(f *model.Flashcard) bool { return f.NoteID == noteID })
	m.quizzes = filterOut(m.quizzes, func(q *model.Quiz) bool { return q.NoteID == noteID })
	m.summaries = filterOut(m.summaries, func(s *model.Summary) bool { return s.NoteID == noteID })
	return nil
}

func filterOut[T any](in []*T, drop func(*T) bool) []*T {
	out := in[:0]
	for _, v := range in {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}

type memSessions memData

func (m *memSessions) Create(_ context.Context, s *model.TutoringSession) error {
	s.ID = (*memData)(m).id()
	s.CreatedAt = time.Now()
	m.sessions[s.ID] = s
	return nil
}

func (m *memSessions) GetByID(_ context.Context, id int64) (*model.TutoringSession, error) {
	return m.sessions[id], nil
}

func (m *memSessions) ListByStudent(_ context.Context, studentID int64) ([]*model.TutoringSession, error) {
	var out []*model.TutoringSession
	for _, s := range m.sessions {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memSessions) ListByTutor(_ context.Context, tutorID int64) ([]*model.TutoringSession, error) {
	var out []*model.TutoringSession
	for _, s := range m.sessions {
		if s.TutorID == tutorID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memSessions) List(_ context.Context) ([]*model.TutoringSession, error) {
	var out []*model.TutoringSession
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memSessions) Respond(_ context.Context, id int64, status model.SessionStatus, meetingLink string) error {
	s, ok := m.sessions[id]
	if !ok || s.Status != model.SessionStatusPending {
		return fmt.Errorf("session is not pending: %w", apperr.ErrInvalidState)
	}
	s.Status = status
	s.MeetingLink = meetingLink
	return nil
}

func (m *memSessions) Complete(_ context.Context, id int64, notes string) error {
	s, ok := m.sessions[id]
	if !ok || s.Status != model.SessionStatusAccepted {
		return fmt.Errorf("session is not accepted: %w", apperr.ErrInvalidState)
	}
	s.Status = model.SessionStatusCompleted
	s.Notes = notes
	return nil
}

func (m *memSessions) Cancel(_ context.Context, id int64) error {
	s, ok := m.sessions[id]
	if !ok || s.Status != model.SessionStatusPending {
		return fmt.Errorf("session is not pending: %w", apperr.ErrInvalidState)
	}
	s.Status = model.SessionStatusCancelled
	return nil
}

func (m *memSessions) SetRating(_ context.Context, id int64, rating int, review string) error {
	s, ok := m.sessions[id]
	if !ok || s.Status != model.SessionStatusCompleted {
		return fmt.Errorf("session is not completed: %w", apperr.ErrInvalidState)
	}
	s.Rating = &rating
	s.Review = review
	return nil
}

type memTransactions memData

func (m *memTransactions) Create(_ context.Context, t *model.Transaction) error {
	t.ID = (*memData)(m).id()
	t.CreatedAt = time.Now()
	m.transactions = append(m.transactions, t)
	return nil
}

func (m *memTransactions) ListByUser(_ context.Context, userID int64, limit int) ([]*model.Transaction, error) {
	var out []*model.Transaction
	for i := len(m.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		if m.transactions[i].UserID == userID {
			out = append(out, m.transactions[i])
		}
	}
	return out, nil
}

func (m *memTransactions) List(_ context.Context) ([]*model.Transaction, error) {
	out := make([]*model.Transaction, len(m.transactions))
	copy(out, m.transactions)
	return out, nil
}

func (m *memTransactions) GetByRef(_ context.Context, ref string) (*model.Transaction, error) {
	for _, t := range m.transactions {
		if t.PaymentRef == ref {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memTransactions) CompleteByRef(_ context.Context, ref string, userID int64) (*model.Transaction, error) {
	for _, t := range m.transactions {
		if t.PaymentRef != ref || t.UserID != userID {
			continue
		}
		if t.Status != model.TransactionStatusPending {
			return nil, fmt.Errorf("purchase already processed: %w", apperr.ErrInvalidState)
		}
		t.Status = model.TransactionStatusCompleted
		return t, nil
	}
	return nil, fmt.Errorf("purchase: %w", apperr.ErrNotFound)
}

type memNotifications memData

func (m *memNotifications) Create(_ context.Context, n *model.Notification) error {
	n.ID = (*memData)(m).id()
	n.CreatedAt = time.Now()
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *memNotifications) ListByUser(_ context.Context, userID int64, limit int) ([]*model.Notification, error) {
	var out []*model.Notification
	for i := len(m.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if m.notifications[i].UserID == userID {
			out = append(out, m.notifications[i])
		}
	}
	return out, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id, userID int64) error {
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return fmt.Errorf("notification: %w", apperr.ErrNotFound)
}

func (m *memNotifications) MarkAllRead(_ context.Context, userID int64) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (m *memNotifications) CountUnread(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *memNotifications) DeleteByUser(_ context.Context, userID int64) error {
	m.notifications = filterOut(m.notifications, func(n *model.Notification) bool { return n.UserID == userID })
	return nil
}

type memStudySessions memData

func (m *memStudySessions) Create(_ context.Context, s *model.StudySession) error {
	s.ID = (*memData)(m).id()
	s.CreatedAt = time.Now()
	m.studySessions = append(m.studySessions, s)
	return nil
}

func (m *memStudySessions) ListByUserSince(_ context.Context, userID int64, fromDate string) ([]*model.StudySession, error) {
	var out []*model.StudySession
	for _, s := range m.studySessions {
		if s.UserID == userID && s.Date >= fromDate {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStudySessions) ListByUserOnDate(_ context.Context, userID int64, date string) ([]*model.StudySession, error) {
	var out []*model.StudySession
	for _, s := range m.studySessions {
		if s.UserID == userID && s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStudySessions) DeleteByUser(_ context.Context, userID int64) error {
	m.studySessions = filterOut(m.studySessions, func(s *model.StudySession) bool { return s.UserID == userID })
	return nil
}

type memTasks memData

func (m *memTasks) Enqueue(_ context.Context, noteID int64) error {
	if t, ok := m.tasks[noteID]; ok {
		t.Status = model.TaskStatusQueued
		t.UpdatedAt = time.Now()
		return nil
	}
	m.tasks[noteID] = &model.EnrichmentTask{
		ID:        (*memData)(m).id(),
		NoteID:    noteID,
		Status:    model.TaskStatusQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return nil
}

func (m *memTasks) ClaimNext(_ context.Context) (*model.EnrichmentTask, error) {
	var oldest *model.EnrichmentTask
	for _, t := range m.tasks {
		if t.Status != model.TaskStatusQueued {
			continue
		}
		if oldest == nil || t.ID < oldest.ID {
			oldest = t
		}
	}
	if oldest == nil {
		return nil, nil
	}
	oldest.Status = model.TaskStatusRunning
	oldest.Attempts++
	oldest.UpdatedAt = time.Now()
	return oldest, nil
}

func (m *memTasks) MarkDone(_ context.Context, id int64) error {
	for _, t := range m.tasks {
		if t.ID == id {
			t.Status = model.TaskStatusDone
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("task: %w", apperr.ErrNotFound)
}

func (m *memTasks) MarkFailed(_ context.Context, id int64, lastError string) error {
	for _, t := range m.tasks {
		if t.ID == id {
			t.Status = model.TaskStatusFailed
			t.LastError = lastError
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("task: %w", apperr.ErrNotFound)
}

func (m *memTasks) RequeueStale(_ context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	var count int64
	for _, t := range m.tasks {
		if t.Status == model.TaskStatusRunning && t.UpdatedAt.Before(cutoff) {
			t.Status = model.TaskStatusQueued
			count++
		}
	}
	return count, nil
}

type memFiles memData

func (m *memFiles) Create(_ context.Context, f *model.File) error {
	f.CreatedAt = time.Now()
	m.files[f.ID] = f
	return nil
}

func (m *memFiles) GetByID(_ context.Context, id string) (*model.File, error) {
	return m.files[id], nil
}

type memStats memData

func (m *memStats) SystemStats(_ context.Context) (*model.SystemStats, error) {
	stats := &model.SystemStats{}
	for _, p := range m.profiles {
		stats.TotalUsers++
		switch p.Role {
		case model.RoleStudent:
			stats.TotalStudents++
		case model.RoleTutor:
			stats.TotalTutors++
			if p.IsApproved {
				stats.ApprovedTutors++
			}
		}
	}
	stats.TotalNotes = int64(len(m.notes))
	for _, s := range m.sessions {
		stats.TotalSessions++
		if s.Status == model.SessionStatusCompleted {
			stats.CompletedSessions++
		}
	}
	for _, t := range m.transactions {
		stats.TotalTransactions++
		if t.Type == model.TransactionTutoringPayment && t.Status == model.TransactionStatusCompleted {
			stats.TotalRevenue += t.Amount
		}
	}
	return stats, nil
}

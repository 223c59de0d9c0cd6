package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

const dailyFocusGoalMinutes = 60

type AnalyticsService struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

func NewAnalyticsService(store Store, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, now: time.Now, logger: logger}
}

type TrackActivityInput struct {
	Type     model.ActivityType
	NoteID   *int64
	Duration int // minutes
	Score    *float64
}

// Track appends one study activity record dated today.
func (s *AnalyticsService) Track(ctx context.Context, userID int64, in TrackActivityInput) (*model.StudySession, error) {
	switch in.Type {
	case model.ActivityFlashcards, model.ActivityQuiz, model.ActivityNotes:
	default:
		return nil, fmt.Errorf("unknown activity type %q: %w", in.Type, apperr.ErrValidation)
	}
	if in.Duration < 0 {
		return nil, fmt.Errorf("duration must not be negative: %w", apperr.ErrValidation)
	}

	session := &model.StudySession{
		UserID:   userID,
		Type:     in.Type,
		NoteID:   in.NoteID,
		Duration: in.Duration,
		Score:    in.Score,
		Date:     model.Today(s.now()),
	}
	if err := s.store.Repos().StudySessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

type DailyStats struct {
	Date              string  `json:"date"`
	TotalMinutes      int     `json:"total_minutes"`
	FlashcardSessions int     `json:"flashcard_sessions"`
	QuizSessions      int     `json:"quiz_sessions"`
	NotesSessions     int     `json:"notes_sessions"`
	AverageScore      float64 `json:"average_score"`
}

type AnalyticsSummary struct {
	TotalMinutes         int     `json:"total_minutes"`
	TotalSessions        int     `json:"total_sessions"`
	AverageSessionLength float64 `json:"average_session_length"`
	Streak               int     `json:"streak"`
}

type Analytics struct {
	DailyStats []DailyStats     `json:"daily_stats"`
	Summary    AnalyticsSummary `json:"summary"`
}

// Analytics rolls up the caller's activity over the trailing window (30 days
// when days <= 0).
func (s *AnalyticsService) Analytics(ctx context.Context, userID int64, days int) (*Analytics, error) {
	if days <= 0 {
		days = 30
	}

	fromDate := model.Today(s.now().AddDate(0, 0, -days))
	sessions, err := s.store.Repos().StudySessions.ListByUserSince(ctx, userID, fromDate)
	if err != nil {
		return nil, err
	}

	daily := AggregateDaily(sessions)

	totalMinutes := 0
	for _, session := range sessions {
		totalMinutes += session.Duration
	}
	totalSessions := len(sessions)

	var avgLength float64
	if totalSessions > 0 {
		avgLength = float64(totalMinutes) / float64(totalSessions)
	}

	activeDates := make([]string, 0, len(daily))
	for _, day := range daily {
		activeDates = append(activeDates, day.Date)
	}

	return &Analytics{
		DailyStats: daily,
		Summary: AnalyticsSummary{
			TotalMinutes:         totalMinutes,
			TotalSessions:        totalSessions,
			AverageSessionLength: avgLength,
			Streak:               Streak(activeDates, model.Today(s.now())),
		},
	}, nil
}

type FocusStats struct {
	MinutesToday  int     `json:"minutes_today"`
	SessionsToday int     `json:"sessions_today"`
	Goal          int     `json:"goal"`
	Progress      float64 `json:"progress"`
}

// Focus reports progress toward the fixed daily study goal.
func (s *AnalyticsService) Focus(ctx context.Context, userID int64) (*FocusStats, error) {
	today := model.Today(s.now())
	sessions, err := s.store.Repos().StudySessions.ListByUserOnDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	minutes := 0
	for _, session := range sessions {
		minutes += session.Duration
	}

	progress := float64(minutes) / dailyFocusGoalMinutes * 100
	if progress > 100 {
		progress = 100
	}

	return &FocusStats{
		MinutesToday:  minutes,
		SessionsToday: len(sessions),
		Goal:          dailyFocusGoalMinutes,
		Progress:      progress,
	}, nil
}

// AggregateDaily groups activity records by calendar date, oldest first.
func AggregateDaily(sessions []*model.StudySession) []DailyStats {
	byDate := make(map[string]*DailyStats)
	scores := make(map[string][]float64)

	for _, session := range sessions {
		day, ok := byDate[session.Date]
		if !ok {
			day = &DailyStats{Date: session.Date}
			byDate[session.Date] = day
		}

		day.TotalMinutes += session.Duration
		switch session.Type {
		case model.ActivityFlashcards:
			day.FlashcardSessions++
		case model.ActivityQuiz:
			day.QuizSessions++
		case model.ActivityNotes:
			day.NotesSessions++
		}
		if session.Score != nil {
			scores[session.Date] = append(scores[session.Date], *session.Score)
		}
	}

	for date, vals := range scores {
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		byDate[date].AverageScore = sum / float64(len(vals))
	}

	out := make([]DailyStats, 0, len(byDate))
	for _, day := range byDate {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	return out
}

// Streak counts consecutive active days ending today or yesterday. It walks
// backward through the distinct active dates and stops at the first gap of
// more than one day.
func Streak(activeDates []string, today string) int {
	if len(activeDates) == 0 {
		return 0
	}

	dates := append([]string(nil), activeDates...)
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	cursor, err := time.Parse(model.DateFormat, today)
	if err != nil {
		return 0
	}

	streak := 0
	for _, dateStr := range dates {
		date, err := time.Parse(model.DateFormat, dateStr)
		if err != nil {
			break
		}
		diffDays := int(cursor.Sub(date).Hours() / 24)
		if diffDays <= 1 {
			streak++
			cursor = date
		} else {
			break
		}
	}

	return streak
}

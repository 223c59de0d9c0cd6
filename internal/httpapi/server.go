// Package httpapi exposes the platform over REST.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/service"
)

type Server struct {
	profiles      *service.ProfileService
	tutoring      *service.TutoringService
	payments      *service.PaymentService
	notes         *service.NoteService
	notifications *service.NotificationService
	analytics     *service.AnalyticsService
	admin         *service.AdminService
	files         *service.FileService

	jwtSecret []byte
	logger    *zap.Logger
}

type Services struct {
	Profiles      *service.ProfileService
	Tutoring      *service.TutoringService
	Payments      *service.PaymentService
	Notes         *service.NoteService
	Notifications *service.NotificationService
	Analytics     *service.AnalyticsService
	Admin         *service.AdminService
	Files         *service.FileService
}

func NewServer(svcs Services, jwtSecret string, logger *zap.Logger) *Server {
	return &Server{
		profiles:      svcs.Profiles,
		tutoring:      svcs.Tutoring,
		payments:      svcs.Payments,
		notes:         svcs.Notes,
		notifications: svcs.Notifications,
		analytics:     svcs.Analytics,
		admin:         svcs.Admin,
		files:         svcs.Files,
		jwtSecret:     []byte(jwtSecret),
		logger:        logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/profile", func(r chi.Router) {
			r.Post("/", s.handleCreateProfile)
			r.Get("/", s.handleGetProfile)
			r.Patch("/", s.handleUpdateProfile)
		})

		r.Route("/tutors", func(r chi.Router) {
			r.Get("/", s.handleListTutors)
			r.Get("/{tutorID}", s.handleGetTutor)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleRequestSession)
			r.Get("/student", s.handleStudentSessions)
			r.Get("/tutor", s.handleTutorSessions)
			r.Post("/{sessionID}/respond", s.handleRespondSession)
			r.Post("/{sessionID}/complete", s.handleCompleteSession)
			r.Post("/{sessionID}/rate", s.handleRateSession)
			r.Post("/{sessionID}/cancel", s.handleCancelSession)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/intent", s.handleCreatePurchaseIntent)
			r.Post("/confirm", s.handleConfirmPurchase)
			r.Get("/transactions", s.handleListTransactions)
			r.Post("/withdraw", s.handleRequestWithdrawal)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Post("/", s.handleUploadNote)
			r.Get("/", s.handleListNotes)
			r.Get("/{noteID}", s.handleGetNote)
			r.Delete("/{noteID}", s.handleDeleteNote)
		})

		r.Get("/flashcards", s.handleListFlashcards)
		r.Get("/quizzes", s.handleListQuizzes)
		r.Get("/summaries", s.handleListSummaries)

		r.Route("/files", func(r chi.Router) {
			r.Post("/", s.handleUploadFile)
			r.Get("/{fileID}", s.handleDownloadFile)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.handleListNotifications)
			r.Get("/unread", s.handleUnreadCount)
			r.Post("/{notificationID}/read", s.handleMarkRead)
			r.Post("/read-all", s.handleMarkAllRead)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Post("/track", s.handleTrackActivity)
			r.Get("/", s.handleAnalytics)
			r.Get("/focus", s.handleFocusStats)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/users", s.handleAdminListUsers)
			r.Delete("/users/{userID}", s.handleAdminDeleteUser)
			r.Post("/users/{userID}/tokens", s.handleAdminAdjustTokens)
			r.Post("/tutors/{tutorID}/approve", s.handleAdminApproveTutor)
			r.Get("/notes", s.handleAdminListNotes)
			r.Get("/sessions", s.handleAdminListSessions)
			r.Get("/transactions", s.handleAdminListTransactions)
			r.Get("/stats", s.handleAdminStats)
		})
	})

	return r
}

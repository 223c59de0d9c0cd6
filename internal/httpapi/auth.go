package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/studypartner/backend/internal/apperr"
	"github.com/studypartner/backend/internal/model"
)

type contextKey string

const identityKey contextKey = "identity"

// identity is resolved once per request by the auth middleware. Profile is nil
// for authenticated users who have not created one yet.
type identity struct {
	UserID  int64
	Profile *model.Profile
}

// authMiddleware validates the bearer token and loads the caller's profile
// into the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, fmt.Errorf("missing bearer token: %w", apperr.ErrUnauthenticated))
			return
		}

		token, err := jwt.Parse(
			strings.TrimPrefix(header, "Bearer "),
			func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return s.jwtSecret, nil
			},
			jwt.WithValidMethods([]string{"HS256"}),
		)
		if err != nil || !token.Valid {
			writeError(w, fmt.Errorf("invalid token: %w", apperr.ErrUnauthenticated))
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			writeError(w, fmt.Errorf("token has no subject: %w", apperr.ErrUnauthenticated))
			return
		}
		userID, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			writeError(w, fmt.Errorf("invalid token subject: %w", apperr.ErrUnauthenticated))
			return
		}

		profile, err := s.profiles.Get(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity{UserID: userID, Profile: profile})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerIdentity(r *http.Request) identity {
	id, _ := r.Context().Value(identityKey).(identity)
	return id
}

// callerProfile returns the caller's profile or writes a 403 when none exists.
func callerProfile(w http.ResponseWriter, r *http.Request) (*model.Profile, bool) {
	id := callerIdentity(r)
	if id.Profile == nil {
		writeError(w, fmt.Errorf("profile required: %w", apperr.ErrUnauthorized))
		return nil, false
	}
	return id.Profile, true
}

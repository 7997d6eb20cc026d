package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aalok2006/PSGTC/internal/goals"
)

type ctxKey string

const ctxUserNameKey ctxKey = "user_name"

// ProfileRegistry is the slice of the tracker sessions need.
type ProfileRegistry interface {
	EnsureUser(name string) (string, error)
	GoalsStored(user string) []goals.Goal
}

// SessionHandler issues bearer tokens binding REST calls to a profile.
// Profiles are open (no passwords): naming one is claiming it, exactly as
// in the browser UI.
type SessionHandler struct {
	Secret   []byte
	Profiles ProfileRegistry
}

type sessionRequest struct {
	UserName string `json:"userName"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
}

// CreateSession: POST /session
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	name, err := h.Profiles.EnsureUser(req.UserName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := h.generateToken(name)
	if err != nil {
		http.Error(w, "token generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sessionResponse{Token: token, UserName: name})
}

// Me: GET /users/me
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	name, ok := UserNameFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"userName":  name,
		"goalCount": len(h.Profiles.GoalsStored(name)),
	})
}

// ------------------------------------------------------------------
// Middleware
// ------------------------------------------------------------------

func (h *SessionHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer := r.Header.Get("Authorization")
		if !strings.HasPrefix(bearer, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		tokenStr := strings.TrimPrefix(bearer, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return h.Secret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		name, _ := claims["user"].(string)
		if name == "" {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserNameKey, name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(ctxUserNameKey).(string)
	return name, ok && name != ""
}

// ------------------------------------------------------------------
// Token generator
// ------------------------------------------------------------------

func (h *SessionHandler) generateToken(userName string) (string, error) {
	claims := jwt.MapClaims{
		"user": userName,
		"exp":  time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.Secret)
}

package tracker

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aalok2006/PSGTC/internal/analytics"
	"github.com/aalok2006/PSGTC/internal/auth"
	"github.com/aalok2006/PSGTC/internal/goals"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, goals.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, goals.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error: "+err.Error(), http.StatusInternalServerError)
	}
}

type goalRequest struct {
	Name     string  `json:"name"`
	Target   float64 `json:"targetAmount"`
	Priority string  `json:"priority"`
}

// GoalsHandler serves the /goals collection: GET lists the profile's goals
// (display sort order), POST creates one.
func GoalsHandler(tr *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserNameFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		switch r.Method {
		case http.MethodGet:
			list := tr.Goals(user)
			if list == nil {
				list = []goals.Goal{}
			}
			writeJSON(w, list)

		case http.MethodPost:
			var body goalRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			g, err := tr.CreateGoal(user, body.Name, body.Target, body.Priority)
			if err != nil {
				writeErr(w, err)
				return
			}

			env := analytics.FromRequest(r)
			env.UserName = user
			analytics.Log(env, "goal_created", map[string]any{"goal_id": g.ID})

			w.WriteHeader(http.StatusCreated)
			writeJSON(w, g)

		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// GoalHandler serves /goals/{id} and /goals/{id}/add_funds.
func GoalHandler(tr *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserNameFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rest := strings.TrimPrefix(r.URL.Path, "/goals/")
		id, action, _ := strings.Cut(rest, "/")
		if id == "" {
			http.Error(w, "goal id required", http.StatusBadRequest)
			return
		}

		if action == "add_funds" {
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			var body struct {
				Amount float64 `json:"amount"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			g, err := tr.AddFundsByID(user, id, body.Amount)
			if err != nil {
				writeErr(w, err)
				return
			}

			env := analytics.FromRequest(r)
			env.UserName = user
			analytics.Log(env, "funds_added", map[string]any{"goal_id": g.ID})

			writeJSON(w, g)
			return
		}
		if action != "" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		switch r.Method {
		case http.MethodGet:
			g, err := tr.GoalByID(user, id)
			if err != nil {
				writeErr(w, err)
				return
			}
			writeJSON(w, g)

		case http.MethodPut:
			var body goalRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			g, err := tr.UpdateGoal(user, id, body.Name, body.Target, body.Priority)
			if err != nil {
				writeErr(w, err)
				return
			}

			env := analytics.FromRequest(r)
			env.UserName = user
			analytics.Log(env, "goal_updated", map[string]any{"goal_id": g.ID})

			writeJSON(w, g)

		case http.MethodDelete:
			// Deletion is irreversible and always needs explicit
			// confirmation from the caller.
			if r.URL.Query().Get("confirm") != "true" {
				http.Error(w, "deletion requires ?confirm=true", http.StatusConflict)
				return
			}
			g, err := tr.DeleteGoal(user, id)
			if err != nil {
				writeErr(w, err)
				return
			}

			env := analytics.FromRequest(r)
			env.UserName = user
			analytics.Log(env, "goal_deleted", map[string]any{"goal_id": g.ID})

			writeJSON(w, map[string]any{"ok": true, "deleted": g.ID})

		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// SummaryHandler serves GET /summary for the session's profile.
func SummaryHandler(tr *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserNameFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, tr.Summary(user))
	}
}

package chat

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aalok2006/PSGTC/internal/analytics"
	"github.com/aalok2006/PSGTC/internal/tracker"
)

// Handler serves POST /chat: local command interpretation first, upstream
// assistant fallthrough for everything else.
func Handler(it *Interpreter, tr *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message  string `json:"message"`
			UserName string `json:"userName"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(body.Message) == "" {
			http.Error(w, "no message received", http.StatusBadRequest)
			return
		}

		// The browser client sends its active profile with every message;
		// absent that, the last active profile acts.
		user := tr.ActiveUser()
		if name := strings.TrimSpace(body.UserName); name != "" {
			if switched, err := tr.SwitchUser(name); err == nil {
				user = switched
			}
		}

		res := it.Handle(r.Context(), user, body.Message)

		env := analytics.FromRequest(r)
		env.UserName = user
		event := "chat_forwarded"
		if res.Handled {
			event = "chat_command"
		}
		analytics.Log(env, event, map[string]any{
			"message_len": len(body.Message),
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"reply": res.Reply,
			"clear": res.Clear,
		})
	}
}

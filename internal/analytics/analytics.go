package analytics

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

// Envelope is what we attach to every event.
type Envelope struct {
	UserName     string `json:"user_name,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
	Platform     string `json:"platform,omitempty"`
	AppVersion   string `json:"app_version,omitempty"`
	DeviceLocale string `json:"device_locale,omitempty"`
}

// FromRequest extracts envelope fields from request headers.
// Backend-trustable fields only.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "ios", "android", "web":
	default:
		platform = "unknown"
	}

	locale := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if locale == "" {
		locale = strings.TrimSpace(r.Header.Get("X-Device-Locale"))
	}

	return Envelope{
		SessionID:    strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:     platform,
		AppVersion:   strings.TrimSpace(r.Header.Get("X-App-Version")),
		DeviceLocale: locale,
	}
}

// Log emits one JSON event line. Never raises: analytics must not break a
// request.
func Log(env Envelope, event string, props map[string]any) {
	record := map[string]any{
		"event": event,
		"ts":    time.Now().UTC().Format(time.RFC3339),
		"env":   env,
	}
	if len(props) > 0 {
		record["props"] = props
	}
	raw, err := json.Marshal(record)
	if err != nil {
		log.Printf("analytics: drop event %s: %v", event, err)
		return
	}
	log.Printf("📊 %s", raw)
}

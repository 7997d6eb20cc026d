package main

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/rs/cors"
	"golang.org/x/net/netutil"

	"github.com/aalok2006/PSGTC/internal/ai"
	"github.com/aalok2006/PSGTC/internal/auth"
	"github.com/aalok2006/PSGTC/internal/chat"
	"github.com/aalok2006/PSGTC/internal/config"
	"github.com/aalok2006/PSGTC/internal/store"
	"github.com/aalok2006/PSGTC/internal/tracker"
)

func main() {
	cfg := config.Load()

	// ----- STATE STORE -----
	var st store.Store
	if cfg.UsePostgres() {
		pg, err := store.OpenPostgres(cfg.ConnString())
		if err != nil {
			log.Fatal("❌ Failed to connect DB:", err)
		}
		defer pg.Close()
		log.Println("✅ Connected to PostgreSQL!")
		st = pg
	} else {
		st = store.NewFileStore(cfg.DataDir)
		log.Printf("💾 Using file store in %s", cfg.DataDir)
	}

	state, err := st.Load()
	if err != nil {
		if !errors.Is(err, store.ErrCorrupt) {
			log.Fatal("❌ Failed to load state:", err)
		}
		// Corrupt state is never fatal: reset to empty and carry on.
		log.Printf("⚠️ Corrupted save data detected and reset: %v", err)
		state = store.NewState()
	}
	tr := tracker.New(state, st)

	// ----- AI ASSISTANT -----
	gemini := ai.New(cfg.GeminiKey, cfg.GeminiModel)
	if !gemini.Configured() {
		log.Println("⚠️ GEMINI_API_KEY not set: unrecognized chat input will get the fallback reply")
	}
	interp := chat.NewInterpreter(tr, gemini)

	// ----- SESSIONS -----
	sessions := &auth.SessionHandler{
		Secret:   []byte(cfg.JWTSecret),
		Profiles: tr,
	}

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- CHAT (open, like the browser app) -----
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			chat.Handler(interp, tr)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// ----- SESSIONS -----
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			sessions.CreateSession(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// ----- GOALS API (session-scoped) -----
	mux.Handle("/goals", sessions.Middleware(tracker.GoalsHandler(tr)))
	mux.Handle("/goals/", sessions.Middleware(tracker.GoalHandler(tr)))
	mux.Handle("/summary", sessions.Middleware(tracker.SummaryHandler(tr)))
	mux.Handle("/users/me", sessions.Middleware(http.HandlerFunc(sessions.Me)))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	handler := c.Handler(mux)

	addr := fmt.Sprintf(":%d", cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal("❌ Failed to listen:", err)
	}
	ln = netutil.LimitListener(ln, cfg.MaxConns)

	log.Printf("🚀 API server is running on %s", addr)
	log.Fatal(http.Serve(ln, handler))
}

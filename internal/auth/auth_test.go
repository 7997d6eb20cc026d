package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalok2006/PSGTC/internal/auth"
	"github.com/aalok2006/PSGTC/internal/store"
	"github.com/aalok2006/PSGTC/internal/tracker"
)

func newSessionHandler(t *testing.T) *auth.SessionHandler {
	t.Helper()
	tr := tracker.New(store.NewState(), store.NewFileStore(t.TempDir()))
	return &auth.SessionHandler{Secret: []byte("test-secret"), Profiles: tr}
}

func createToken(t *testing.T, h *auth.SessionHandler, name string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"userName": name})
	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateSession(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Token    string `json:"token"`
		UserName string `json:"userName"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestCreateSessionNormalizesName(t *testing.T) {
	h := newSessionHandler(t)
	body, _ := json.Marshal(map[string]string{"userName": "  samir "})
	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateSession(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		UserName string `json:"userName"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "SAMIR", res.UserName)
}

func TestCreateSessionRejectsEmptyName(t *testing.T) {
	h := newSessionHandler(t)
	body, _ := json.Marshal(map[string]string{"userName": "   "})
	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateSession(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMiddlewareInjectsUserName(t *testing.T) {
	h := newSessionHandler(t)
	token := createToken(t, h, "SAMIR")

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.UserNameFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/goals", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.Middleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SAMIR", got)
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	h := newSessionHandler(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/goals", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("next handler must not run")
			})).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestMiddlewareRejectsWrongSecret(t *testing.T) {
	h := newSessionHandler(t)
	token := createToken(t, h, "SAMIR")

	other := &auth.SessionHandler{Secret: []byte("different-secret"), Profiles: h.Profiles}
	req := httptest.NewRequest(http.MethodGet, "/goals", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	other.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next handler must not run")
	})).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New("test-key", "gemini-2.0-flash-lite")
	c.BaseURL = srv.URL
	return c
}

func TestGenerate(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "SAVE MORE."}}}},
			},
		})
	})

	reply, err := c.Generate(context.Background(), "how do I save faster?")
	require.NoError(t, err)
	assert.Equal(t, "SAVE MORE.", reply)
	assert.Equal(t, "/models/gemini-2.0-flash-lite:generateContent", gotPath)

	// The fixed system instruction rides along with every call.
	assert.Contains(t, gotBody, "system_instruction")
	contents := gotBody["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	assert.Equal(t, "how do I save faster?", parts[0].(map[string]any)["text"])
}

func TestGenerateUpstreamStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	_, err := c.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGenerateBlockedPrompt(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"promptFeedback": map[string]any{"blockReason": "SAFETY"},
		})
	})
	_, err := c.Generate(context.Background(), "hello")
	require.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGenerateEmptyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})
	_, err := c.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	c := New("", "gemini-2.0-flash-lite")
	assert.False(t, c.Configured())
	_, err := c.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUpstream)
}

package odin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-passport/internal/ports/auth"
)

func newOdin(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != verifyPath || r.Header.Get("X-Api-Key") != "key" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var in struct {
			Token string `json:"token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		switch in.Token {
		case "good":
			_ = json.NewEncoder(w).Encode(map[string]string{"user_id": " owner-a ", "email": "a@example.com"})
		case "anon":
			_ = json.NewEncoder(w).Encode(map[string]string{"email": "x@example.com"})
		case "down":
			http.Error(w, "boom", http.StatusBadGateway)
		default:
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifier(t *testing.T) {
	srv := newOdin(t)
	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "key", Timeout: time.Second})
	require.NoError(t, err)
	require.True(t, c.IsConfigured())
	v := NewVerifier(c)

	claims, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "owner-a", Email: "a@example.com", Issuer: "odin"}, claims)

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = v.Verify(context.Background(), "down")
	assert.ErrorIs(t, err, ErrOdinUpstream)
	assert.NotErrorIs(t, err, auth.ErrInvalidToken)

	_, err = v.Verify(context.Background(), "anon")
	assert.ErrorContains(t, err, "missing user_id")

	_, err = v.Verify(context.Background(), " ")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}

func TestVerifier_WrongAPIKey(t *testing.T) {
	srv := newOdin(t)
	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "other"})
	require.NoError(t, err)

	_, err = NewVerifier(c).Verify(context.Background(), "good")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifier_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://odin.local"})
	require.NoError(t, err)
	assert.False(t, c.IsConfigured())

	_, err = NewVerifier(c).Verify(context.Background(), "good")
	assert.ErrorIs(t, err, ErrOdinNotConfigured)

	var nilVerifier *Verifier
	_, err = nilVerifier.Verify(context.Background(), "good")
	assert.ErrorIs(t, err, ErrOdinNotConfigured)
}

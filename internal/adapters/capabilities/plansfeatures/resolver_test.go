package plansfeatures

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-passport/internal/ports/capabilities"
)

func newPlans(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch r.URL.Query().Get("user_id") {
		case "vet 1":
			_ = json.NewEncoder(w).Encode(CapabilitiesResponse{Capabilities: map[string]bool{capabilities.CapabilityVerifyRecords: true}})
		case "broken":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolver_Has(t *testing.T) {
	srv := newPlans(t)
	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "key", Timeout: time.Second})
	require.NoError(t, err)
	r := NewResolver(c, false)

	ok, err := r.Has(context.Background(), "vet 1", capabilities.CapabilityVerifyRecords)
	require.NoError(t, err)
	assert.True(t, ok, "user_id viaja escapado")

	ok, err = r.Has(context.Background(), "owner-a", capabilities.CapabilityVerifyRecords)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.Has(context.Background(), "broken", capabilities.CapabilityVerifyRecords)
	assert.ErrorIs(t, err, ErrPlansUpstream)

	_, err = r.Has(context.Background(), "vet 1", " ")
	assert.Error(t, err)
}

func TestResolver_Unauthorized(t *testing.T) {
	srv := newPlans(t)
	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "wrong"})
	require.NoError(t, err)

	_, err = NewResolver(c, false).Has(context.Background(), "vet 1", capabilities.CapabilityVerifyRecords)
	assert.ErrorIs(t, err, ErrPlansUnauthorized)
}

func TestResolver_AllowAllAndNotConfigured(t *testing.T) {
	ok, err := NewResolver(nil, true).Has(context.Background(), "anyone", capabilities.CapabilityVerifyRecords)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = NewResolver(nil, false).Has(context.Background(), "anyone", capabilities.CapabilityVerifyRecords)
	assert.ErrorIs(t, err, ErrPlansNotConfigured)
}

func TestVerifierRegistry(t *testing.T) {
	srv := newPlans(t)
	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "key"})
	require.NoError(t, err)

	reg := VerifierRegistry{Resolver: NewResolver(c, false)}
	ok, err := reg.IsAuthorizedVerifier(context.Background(), "vet 1")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = VerifierRegistry{}.IsAuthorizedVerifier(context.Background(), "vet 1")
	assert.ErrorIs(t, err, ErrPlansNotConfigured)
}

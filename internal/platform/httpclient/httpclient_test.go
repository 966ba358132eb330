package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/echo":
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"got":        in["name"],
				"api_key":    r.Header.Get("X-Api-Key"),
				"extra":      r.Header.Get("X-Extra"),
				"user_agent": r.Header.Get("User-Agent"),
				"ct":         r.Header.Get("Content-Type"),
			})
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "nope", http.StatusTeapot)
		}
	}))
	defer srv.Close()

	c, err := NewWithBaseURL(srv.URL+"/", time.Second)
	require.NoError(t, err)
	c.WithHeader("X-Api-Key", "k1").WithHeader(" ", "ignored")

	var out map[string]string
	err = c.DoJSON(context.Background(), http.MethodPost, "echo",
		map[string]string{"X-Extra": "yes"}, map[string]string{"name": "Rex"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Rex", out["got"])
	assert.Equal(t, "k1", out["api_key"])
	assert.Equal(t, "yes", out["extra"])
	assert.Equal(t, DefaultUserAgent, out["user_agent"])
	assert.Equal(t, "application/json", out["ct"])

	require.NoError(t, c.DoJSON(context.Background(), http.MethodGet, srv.URL+"/empty", nil, nil, &out))

	err = c.DoJSON(context.Background(), http.MethodGet, "/missing", nil, nil, nil)
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusTeapot, StatusCode(err))
	assert.Equal(t, "nope", he.Body)
}

func TestDoJSON_Errors(t *testing.T) {
	var nilClient *Client
	assert.Error(t, nilClient.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil))

	c := New(0)
	assert.Equal(t, DefaultTimeout, c.HTTP.Timeout)
	assert.ErrorContains(t, c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil), "requires BaseURL")
	assert.ErrorContains(t, c.DoJSON(context.Background(), http.MethodGet, "  ", nil, nil, nil), "empty url")

	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}

func TestNewWithBaseURL_Invalid(t *testing.T) {
	_, err := NewWithBaseURL("not a url", time.Second)
	assert.Error(t, err)

	c, err := NewWithBaseURL("", time.Second)
	require.NoError(t, err)
	assert.Empty(t, c.BaseURL)
}

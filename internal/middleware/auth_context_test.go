package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-passport/internal/platform/logger"
	"pet-passport/internal/ports/auth"
)

type stubVerifier map[string]string

func (s stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	uid, ok := s[token]
	if !ok {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return auth.Claims{UserID: uid, Issuer: "stub"}, nil
}

// echoCaller responde el caller que quedó en el contexto.
func echoCaller() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(Caller(r.Context())))
	})
}

func serve(h http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/passports", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAuthContext_DevMode(t *testing.T) {
	h := AuthContext(nil)(echoCaller())

	rr := serve(h, map[string]string{DebugUserHeader: "  owner-a "})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "owner-a", rr.Body.String())

	rr = serve(h, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestAuthContext_Bearer(t *testing.T) {
	h := AuthContext(stubVerifier{"good": "owner-a"})(echoCaller())

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"token válido", "Bearer good", http.StatusOK, "owner-a"},
		{"esquema en minúsculas", "bearer good", http.StatusOK, "owner-a"},
		{"sin header sigue anónimo", "", http.StatusOK, ""},
		{"otro esquema se ignora", "Basic Zm9vOmJhcg==", http.StatusOK, ""},
		{"token inválido", "Bearer bad", http.StatusUnauthorized, "invalid token\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			rr := serve(h, headers)
			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestAuthContext_DebugHeaderIgnoredWithVerifier(t *testing.T) {
	h := AuthContext(stubVerifier{})(echoCaller())
	rr := serve(h, map[string]string{DebugUserHeader: "owner-a"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestGetClaims(t *testing.T) {
	_, ok := GetClaims(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), auth.Claims{UserID: "vet-1", Email: "vet@example.com"})
	c, ok := GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, "vet@example.com", c.Email)
	assert.Equal(t, "vet-1", Caller(ctx))
}

func TestRequestLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Output: &buf})

	h := chimw.RequestID(AuthContext(nil)(RequestLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))))

	req := httptest.NewRequest(http.MethodPost, "/passports", nil)
	req.Header.Set(DebugUserHeader, "owner-a")
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, `"level":"DEBUG"`)
	assert.Contains(t, line, `"status":201`)
	assert.Contains(t, line, `"caller":"owner-a"`)
	assert.Contains(t, line, `"request_id"`)

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	line = buf.String()
	assert.Contains(t, line, `"level":"ERROR"`)
	assert.Contains(t, line, `"status":500`)
	assert.False(t, strings.Contains(line, `"caller"`))
}

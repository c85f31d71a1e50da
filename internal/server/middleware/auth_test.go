package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClaims struct {
	sessionID string
}

func (c *mockClaims) GetSessionID() string {
	return c.sessionID
}

type mockValidator struct {
	tokens map[string]string
}

func (m *mockValidator) ValidateToken(tokenString string) (SessionIDGetter, error) {
	id, ok := m.tokens[tokenString]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &mockClaims{sessionID: id}, nil
}

func okHandler(t *testing.T, wantSession string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetSessionID(r)
		require.NoError(t, err)
		assert.Equal(t, wantSession, id)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminOnly(t *testing.T) {
	validator := &mockValidator{tokens: map[string]string{"good-token": "session-1"}}
	handler := AdminOnly(validator)(okHandler(t, "session-1"))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer good-token", http.StatusOK},
		{"lowercase scheme", "bearer good-token", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"extra parts", "Bearer good-token extra", http.StatusUnauthorized},
		{"invalid token", "Bearer bad-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/leads", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
				var body map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, "unauthorized", body["error"])
			}
		})
	}
}

func TestGetSessionID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetSessionID(req)
	assert.Error(t, err)
}

func TestGetSessionID_FromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), SessionIDKey(), "abc"))

	id, err := GetSessionID(req)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := BearerToken(req)
	assert.False(t, ok)

	req.Header.Set("Authorization", "Bearer   tok  ")
	token, ok := BearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
}

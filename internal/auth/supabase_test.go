package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupabaseVerifierResolvesUser(t *testing.T) {
	var gotPath, gotAPIKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "user-abc", "email": "user@example.com"}`))
	}))
	defer srv.Close()

	v := NewSupabaseVerifier(srv.URL+"/", "service-key")
	userID, err := v.VerifyToken(context.Background(), "caller-token")

	require.NoError(t, err)
	assert.Equal(t, "user-abc", userID)
	assert.Equal(t, "/auth/v1/user", gotPath)
	assert.Equal(t, "service-key", gotAPIKey)
	assert.Equal(t, "Bearer caller-token", gotAuth)
}

func TestSupabaseVerifierRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "invalid token"}`))
	}))
	defer srv.Close()

	v := NewSupabaseVerifier(srv.URL, "service-key")
	_, err := v.VerifyToken(context.Background(), "bad-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSupabaseVerifierMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	v := NewSupabaseVerifier(srv.URL, "service-key")
	_, err := v.VerifyToken(context.Background(), "token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSupabaseVerifierUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	v := NewSupabaseVerifier(srv.URL, "service-key")
	_, err := v.VerifyToken(context.Background(), "token")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

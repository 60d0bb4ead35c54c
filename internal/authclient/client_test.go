package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/refresh", r.URL.Path)

		rc, err := r.Cookie("refreshToken")
		require.NoError(t, err)
		assert.Equal(t, "r1", rc.Value)
		ac, err := r.Cookie("accessToken")
		require.NoError(t, err)
		assert.Equal(t, "a1", ac.Value)

		_ = json.NewEncoder(w).Encode(RefreshResponse{
			AccessToken:  "a2",
			RefreshToken: "r2",
			AccessExp:    100,
			RefreshExp:   200,
		})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).RefreshTokens(context.Background(), "r1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "a2", resp.AccessToken)
	assert.Equal(t, "r2", resp.RefreshToken)
	assert.EqualValues(t, 200, resp.RefreshExp)
}

func TestRefreshTokens_NonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL + "/").RefreshTokens(context.Background(), "r", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

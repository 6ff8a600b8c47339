package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/salon/internal/repositories/repotest"
)

func TestSocialLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/userinfo":
			_, _ = w.Write([]byte(`{"sub":"1","email":"g@Example.com"}`))
		case "/me":
			assert.Equal(t, "id,email", r.URL.Query().Get("fields"))
			_, _ = w.Write([]byte(`{"id":"2","email":"f@example.com"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.GoogleUserInfoURL = srv.URL + "/userinfo"
	cfg.FacebookGraphURL = srv.URL
	users := repotest.NewUsers()
	auth := NewAuthService(users, cfg, zap.NewNop())
	svc := NewSocialService(users, auth, cfg, zap.NewNop())
	ctx := context.Background()

	user, pair, err := svc.Login(ctx, ProviderGoogle, "good")
	require.NoError(t, err)
	assert.Equal(t, "g@example.com", user.EmailValue())
	assert.NotEmpty(t, pair.AccessToken)

	again, _, err := svc.Login(ctx, ProviderGoogle, "good")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID, "second sign-in reuses the account")

	fbUser, _, err := svc.Login(ctx, ProviderFacebook, "good")
	require.NoError(t, err)
	assert.Equal(t, "f@example.com", fbUser.EmailValue())

	_, _, err = svc.Login(ctx, ProviderGoogle, "bad")
	assert.ErrorIs(t, err, ErrProviderRejected)
	_, _, err = svc.Login(ctx, "myspace", "good")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != "valid" ||
			r.PostForm.Get("grant_type") != "authorization_code" ||
			r.PostForm.Get("client_id") != "client-id" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"ya29","token_type":"Bearer","expires_in":3599,"id_token":"eyJ.x.y","scope":"email"}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.GoogleTokenURL = srv.URL
	cfg.GoogleClientID = "client-id"
	svc := NewSocialService(repotest.NewUsers(), nil, cfg, zap.NewNop())

	raw, err := svc.ExchangeCode(context.Background(), "valid")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "ya29", got["access_token"])
	assert.Equal(t, "Bearer", got["token_type"])
	assert.Equal(t, "eyJ.x.y", got["id_token"])
	assert.Equal(t, "email", got["scope"])
	assert.InDelta(t, 3599, got["expires_in"], 2)

	_, err = svc.ExchangeCode(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrProviderRejected)
}

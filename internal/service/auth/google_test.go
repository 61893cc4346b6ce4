package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGoogleAuthCodeURL(t *testing.T) {
	p := NewGoogleProvider("client", "secret", "http://localhost/callback")

	u, err := url.Parse(p.AuthCodeURL("state-123"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "code", q.Get("response_type"))
}

func TestGoogleExchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"sub":"1234","email":"doc@example.com","email_verified":true,"name":"Doc"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGoogleProvider("client", "secret", "http://localhost/callback")
	p.config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	p.userInfoURL = srv.URL + "/userinfo"

	profile, err := p.Exchange(context.Background(), "code")
	require.NoError(t, err)

	assert.Equal(t, ProviderGoogle, profile.Provider)
	assert.Equal(t, "1234", profile.ID)
	assert.Equal(t, "doc@example.com", profile.Email)
}

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailerSend(t *testing.T) {
	var got ResendEmailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	m := NewMailer("re_test", "Folio <hello@folio.example.com>", srv.Client()).WithEndpoint(srv.URL)
	require.NoError(t, m.Send(context.Background(), "Hi", "<p>hi</p>", []string{"alice@gmail.com"}))

	assert.Equal(t, "Folio <hello@folio.example.com>", got.From)
	assert.Equal(t, []string{"alice@gmail.com"}, got.To)
	assert.Equal(t, "<p>hi</p>", got.Html)
}

func TestMailerSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	m := NewMailer("re_test", "bad", srv.Client()).WithEndpoint(srv.URL)
	err := m.Send(context.Background(), "Hi", "<p>hi</p>", []string{"alice@gmail.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
	assert.Contains(t, err.Error(), "422")
}

func TestMailerUnconfiguredDropsMail(t *testing.T) {
	m := NewMailerFromConfig(map[string]string{}, nil)
	assert.False(t, m.Enabled())
	assert.NoError(t, m.Send(context.Background(), "Hi", "<p>hi</p>", []string{"alice@gmail.com"}))
	assert.Error(t, m.Send(context.Background(), "Hi", "<p>hi</p>", nil))
}

func TestBuildPublicPortfolioURL(t *testing.T) {
	assert.Equal(t, "https://folio.example.com/p/alice", BuildPublicPortfolioURL("https://folio.example.com/", "alice"))
	assert.Empty(t, BuildPublicPortfolioURL("", "alice"))
	assert.Empty(t, BuildPublicPortfolioURL("https://folio.example.com", ""))
	assert.Equal(t, "https://cdn.example.com/users/a.png", BuildObjectURL("https://cdn.example.com/", "/users/a.png"))
}

package authprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonbelle/salon-site/internal/config"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

func testConfig(url string) *config.Config {
	return &config.Config{
		ServiceName:      "salon-site",
		AuthProviderURL:  url,
		AuthProviderKey:  "anon-key",
		AuthRedirectURL:  "https://salon.test/admin",
		AuthProviderWait: 2 * time.Second,
	}
}

func TestSendMagicLink(t *testing.T) {
	var got otpRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/otp", r.URL.Path)
		assert.Equal(t, "https://salon.test/admin", r.URL.Query().Get("redirect_to"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL+"/"), zerolog.Nop())
	require.NotNil(t, client)
	require.NoError(t, client.SendMagicLink(context.Background(), "owner@salon.test"))
	assert.Equal(t, "owner@salon.test", got.Email)
}

func TestSendMagicLinkProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"msg":"email rate limit exceeded"}`))
	}))
	defer server.Close()

	err := NewClient(testConfig(server.URL), zerolog.Nop()).SendMagicLink(context.Background(), "owner@salon.test")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
}

func TestNewSenderUnconfigured(t *testing.T) {
	assert.Nil(t, NewClient(testConfig(""), zerolog.Nop()))
	assert.Nil(t, NewSender(testConfig(""), zerolog.Nop()))
}

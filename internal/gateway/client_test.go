package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"binapp/internal/config"
	apperrors "binapp/internal/errors"
)

func testTwilioConfig(baseURL string) config.TwilioConfig {
	return config.TwilioConfig{
		AccountSID:   "AC123",
		AuthToken:    "token",
		FromNumber:   "+61400000000",
		WhatsAppFrom: "+61400000001",
		BaseURL:      baseURL,
	}
}

func TestNewClient_MissingConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.TwilioConfig)
		setting string
	}{
		{"missing account sid", func(c *config.TwilioConfig) { c.AccountSID = "" }, "TWILIO_ACCOUNT_SID"},
		{"missing auth token", func(c *config.TwilioConfig) { c.AuthToken = "" }, "TWILIO_AUTH_TOKEN"},
		{"missing from number", func(c *config.TwilioConfig) { c.FromNumber = "" }, "TWILIO_FROM_NUMBER"},
		{"missing whatsapp from", func(c *config.TwilioConfig) { c.WhatsAppFrom = "" }, "TWILIO_WHATSAPP_FROM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testTwilioConfig("")
			tt.mutate(&cfg)

			_, err := NewClient(cfg, zap.NewNop())
			require.Error(t, err)

			ce, ok := apperrors.IsConfigError(err)
			require.True(t, ok, "missing credentials must fail as a config error")
			assert.Equal(t, tt.setting, ce.Setting)
		})
	}
}

func TestSendSMS_Success(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"To":   r.PostFormValue("To"),
			"From": r.PostFormValue("From"),
			"Body": r.PostFormValue("Body"),
		}

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "token", pass)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"sid": "SM42"})
	}))
	defer srv.Close()

	client, err := NewClient(testTwilioConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)

	sid, err := client.SendSMS(context.Background(), "+61412345678", "your bin is due")
	require.NoError(t, err)
	assert.Equal(t, "SM42", sid)
	assert.Equal(t, "+61412345678", gotForm["To"])
	assert.Equal(t, "+61400000000", gotForm["From"])
	assert.Equal(t, "your bin is due", gotForm["Body"])
}

func TestSendWhatsApp_ChannelPrefix(t *testing.T) {
	var to, from string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		to = r.PostFormValue("To")
		from = r.PostFormValue("From")
		json.NewEncoder(w).Encode(map[string]string{"sid": "WA7"})
	}))
	defer srv.Close()

	client, err := NewClient(testTwilioConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)

	sid, err := client.SendWhatsApp(context.Background(), "+61412345678", "hi")
	require.NoError(t, err)
	assert.Equal(t, "WA7", sid)
	assert.Equal(t, "whatsapp:+61412345678", to)
	assert.Equal(t, "whatsapp:+61400000001", from)
}

func TestStartCall_PostsToCallsResource(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{"sid": "CA9"})
	}))
	defer srv.Close()

	client, err := NewClient(testTwilioConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)

	sid, err := client.StartCall(context.Background(), "+61412345678")
	require.NoError(t, err)
	assert.Equal(t, "CA9", sid)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Calls.json", path)
}

func TestSendSMS_InvalidNumberClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    21211,
			"message": "The 'To' number is not a valid phone number.",
			"status":  400,
		})
	}))
	defer srv.Close()

	client, err := NewClient(testTwilioConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)

	_, err = client.SendSMS(context.Background(), "+610000", "hello")
	require.Error(t, err)

	ge, ok := apperrors.IsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.GatewayInvalidNumber, ge.Kind)
	assert.Equal(t, 21211, ge.ProviderCode)
}

func TestSendSMS_AuthFailureClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    20003,
			"message": "Authenticate",
			"status":  401,
		})
	}))
	defer srv.Close()

	client, err := NewClient(testTwilioConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)

	_, err = client.SendSMS(context.Background(), "+61412345678", "hello")
	require.Error(t, err)

	ge, ok := apperrors.IsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.GatewayAuthFailure, ge.Kind)
}

func TestSendSMS_NetworkFailureClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client, err := NewClient(testTwilioConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)

	_, err = client.SendSMS(context.Background(), "+61412345678", "hello")
	require.Error(t, err)

	ge, ok := apperrors.IsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.GatewayUnavailable, ge.Kind)
}

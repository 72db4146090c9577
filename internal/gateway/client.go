package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"binapp/internal/config"
	"binapp/internal/errors"
)

// callTwimlURL tells the provider what to play when an outbound call
// connects. The stock announcement is enough for "we tried to reach you"
// reminder calls.
const callTwimlURL = "http://demo.twilio.com/docs/voice.xml"

// Client talks to the Twilio REST API. All requests are form-encoded POSTs
// with basic auth and a hard timeout.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	accountSID   string
	authToken    string
	fromNumber   string
	whatsAppFrom string
	logger       *zap.Logger
}

func NewClient(cfg config.TwilioConfig, logger *zap.Logger) (*Client, error) {
	switch {
	case cfg.AccountSID == "":
		return nil, errors.NewConfigError("TWILIO_ACCOUNT_SID", "provider account id is required")
	case cfg.AuthToken == "":
		return nil, errors.NewConfigError("TWILIO_AUTH_TOKEN", "provider auth token is required")
	case cfg.FromNumber == "":
		return nil, errors.NewConfigError("TWILIO_FROM_NUMBER", "sender phone number is required")
	case cfg.WhatsAppFrom == "":
		return nil, errors.NewConfigError("TWILIO_WHATSAPP_FROM", "WhatsApp sender number is required")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}

	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      baseURL,
		accountSID:   cfg.AccountSID,
		authToken:    cfg.AuthToken,
		fromNumber:   cfg.FromNumber,
		whatsAppFrom: cfg.WhatsAppFrom,
		logger:       logger,
	}, nil
}

// SendSMS delivers a text message to an E.164 number and returns the
// provider message id.
func (c *Client) SendSMS(ctx context.Context, to, body string) (string, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.fromNumber)
	form.Set("Body", body)

	return c.post(ctx, "Messages.json", form)
}

// SendWhatsApp delivers a WhatsApp message. The provider addresses WhatsApp
// endpoints with a channel prefix on both sides.
func (c *Client) SendWhatsApp(ctx context.Context, to, body string) (string, error) {
	form := url.Values{}
	form.Set("To", "whatsapp:"+to)
	form.Set("From", "whatsapp:"+c.whatsAppFrom)
	form.Set("Body", body)

	return c.post(ctx, "Messages.json", form)
}

// StartCall places an outbound reminder call and returns the provider call
// id.
func (c *Client) StartCall(ctx context.Context, to string) (string, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.fromNumber)
	form.Set("Url", callTwimlURL)

	return c.post(ctx, "Calls.json", form)
}

type providerResponse struct {
	SID     string `json:"sid"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (c *Client) post(ctx context.Context, resource string, form url.Values) (string, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/%s", c.baseURL, c.accountSID, resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.NewInternalError("building provider request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.NewGatewayError(errors.GatewayUnavailable, 0, err.Error())
	}
	defer resp.Body.Close()

	var decoded providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return "", errors.NewInternalError("decoding provider response", err)
		}
		return "", errors.NewGatewayError(errors.GatewayGeneric, 0,
			fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decoded.SID, nil
	}

	kind := classifyProviderCode(decoded.Code, resp.StatusCode)
	c.logger.Warn("provider rejected request",
		zap.String("resource", resource),
		zap.Int("statusCode", resp.StatusCode),
		zap.Int("providerCode", decoded.Code),
		zap.String("kind", string(kind)))

	return "", errors.NewGatewayError(kind, decoded.Code, decoded.Message)
}

// Provider error codes worth distinguishing: 21211/21214/21614 are recipient
// number problems, 20003 is an authentication failure.
func classifyProviderCode(code, statusCode int) errors.GatewayErrorKind {
	switch code {
	case 21211, 21214, 21614:
		return errors.GatewayInvalidNumber
	case 20003:
		return errors.GatewayAuthFailure
	}
	if statusCode >= 500 {
		return errors.GatewayUnavailable
	}
	return errors.GatewayGeneric
}

package gateway

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "binapp/internal/errors"
)

// mockSender records every provider call.
type mockSender struct {
	mu       sync.Mutex
	smsCalls []string
	waCalls  []string
	calls    []string
	fail     map[string]error
}

func newMockSender() *mockSender {
	return &mockSender{fail: make(map[string]error)}
}

func (m *mockSender) SendSMS(ctx context.Context, to, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[to]; err != nil {
		return "", err
	}
	m.smsCalls = append(m.smsCalls, to)
	return "SM" + to, nil
}

func (m *mockSender) SendWhatsApp(ctx context.Context, to, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[to]; err != nil {
		return "", err
	}
	m.waCalls = append(m.waCalls, to)
	return "WA" + to, nil
}

func (m *mockSender) StartCall(ctx context.Context, to string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[to]; err != nil {
		return "", err
	}
	m.calls = append(m.calls, to)
	return "CA" + to, nil
}

func TestBulkSend_PartialFailure(t *testing.T) {
	sender := newMockSender()
	bulk := NewBulkSender(sender, zap.NewNop())

	// Three recipients, one with an unusable number: the two valid sends
	// must still complete.
	result := bulk.Send(context.Background(), KindSMS,
		[]string{"0412345678", "not-a-number", "0498765432"}, "hello")

	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Details, 3)

	assert.ElementsMatch(t, []string{"+61412345678", "+61498765432"}, sender.smsCalls)

	// The malformed recipient never reached the provider.
	assert.False(t, result.Details[1].Success)
	assert.Equal(t, "not-a-number", result.Details[1].To)
	assert.NotEmpty(t, result.Details[1].Error)
}

func TestBulkSend_ProviderRejectionDoesNotCancelOthers(t *testing.T) {
	sender := newMockSender()
	sender.fail["+61412345678"] = apperrors.NewGatewayError(apperrors.GatewayInvalidNumber, 21211, "not a valid number")
	bulk := NewBulkSender(sender, zap.NewNop())

	result := bulk.Send(context.Background(), KindSMS,
		[]string{"0412345678", "0498765432"}, "hello")

	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"+61498765432"}, sender.smsCalls)
}

func TestBulkSend_WhatsAppAndCallKinds(t *testing.T) {
	sender := newMockSender()
	bulk := NewBulkSender(sender, zap.NewNop())

	result := bulk.Send(context.Background(), KindWhatsApp, []string{"0412345678"}, "hi")
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, []string{"+61412345678"}, sender.waCalls)

	result = bulk.Send(context.Background(), KindCall, []string{"0412345678"}, "")
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, []string{"+61412345678"}, sender.calls)
}

func TestBulkSend_EmptyRecipients(t *testing.T) {
	bulk := NewBulkSender(newMockSender(), zap.NewNop())

	result := bulk.Send(context.Background(), KindSMS, nil, "hello")
	assert.Zero(t, result.Successful)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Details)
}

func TestBulkSend_ResultsKeepRecipientOrder(t *testing.T) {
	sender := newMockSender()
	bulk := NewBulkSender(sender, zap.NewNop())

	recipients := []string{"0412000001", "0412000002", "0412000003"}
	result := bulk.Send(context.Background(), KindSMS, recipients, "hello")

	require.Len(t, result.Details, 3)
	assert.Equal(t, "+61412000001", result.Details[0].To)
	assert.Equal(t, "+61412000002", result.Details[1].To)
	assert.Equal(t, "+61412000003", result.Details[2].To)
}

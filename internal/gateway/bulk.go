package gateway

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type MessageKind string

const (
	KindSMS      MessageKind = "sms"
	KindWhatsApp MessageKind = "whatsapp"
	KindCall     MessageKind = "call"
)

// Sender is the provider surface the bulk layer depends on.
type Sender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
	SendWhatsApp(ctx context.Context, to, body string) (string, error)
	StartCall(ctx context.Context, to string) (string, error)
}

type RecipientResult struct {
	To        string `json:"to"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

type BulkResult struct {
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Details    []RecipientResult `json:"details"`
}

// bulkConcurrency caps simultaneous provider calls for a group send.
const bulkConcurrency = 8

// BulkSender fans a message out to every recipient concurrently and folds
// the outcomes into one summary. Recipients are isolated: a malformed number
// or a provider rejection for one never cancels the others.
type BulkSender struct {
	sender Sender
	logger *zap.Logger
}

func NewBulkSender(sender Sender, logger *zap.Logger) *BulkSender {
	return &BulkSender{sender: sender, logger: logger}
}

func (b *BulkSender) Send(ctx context.Context, kind MessageKind, recipients []string, body string) BulkResult {
	results := make([]RecipientResult, len(recipients))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for i, recipient := range recipients {
		i, recipient := i, recipient
		g.Go(func() error {
			results[i] = b.sendOne(ctx, kind, recipient, body)
			return nil
		})
	}
	_ = g.Wait()

	result := BulkResult{Details: results}
	for _, r := range results {
		if r.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}

	b.logger.Info("bulk send complete",
		zap.String("kind", string(kind)),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed))
	return result
}

func (b *BulkSender) sendOne(ctx context.Context, kind MessageKind, recipient, body string) RecipientResult {
	normalized, err := NormalizePhone(recipient)
	if err != nil {
		// Fail fast on malformed numbers; the provider never sees them.
		return RecipientResult{To: recipient, Error: err.Error()}
	}

	var messageID string
	switch kind {
	case KindWhatsApp:
		messageID, err = b.sender.SendWhatsApp(ctx, normalized, body)
	case KindCall:
		messageID, err = b.sender.StartCall(ctx, normalized)
	default:
		messageID, err = b.sender.SendSMS(ctx, normalized, body)
	}

	if err != nil {
		b.logger.Warn("bulk recipient failed",
			zap.String("kind", string(kind)),
			zap.String("to", normalized),
			zap.Error(err))
		return RecipientResult{To: normalized, Error: err.Error()}
	}

	return RecipientResult{To: normalized, Success: true, MessageID: messageID}
}

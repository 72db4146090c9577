package gateway

import (
	"go.uber.org/zap"

	"binapp/internal/config"
)

func NewModule(cfg config.TwilioConfig, logger *zap.Logger) (*Controller, error) {
	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	bulk := NewBulkSender(client, logger)
	return NewController(client, bulk, logger), nil
}

// Package notify delivers outcome events back to the client that holds the
// session. Delivery is best-effort by contract: the association is already
// committed, so a failed publish is logged and forgotten, never rolled back.
package notify

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/scan/dto"
	"github.com/warekit/rfid-scan-service/pkg/broker"
)

type Dispatcher interface {
	Deliver(ctx context.Context, outcome *dto.Outcome)
}

type BrokerDispatcher struct {
	publisher broker.Publisher
	topic     string
	logger    *zap.Logger
}

func NewBrokerDispatcher(publisher broker.Publisher, topic string, log *zap.Logger) *BrokerDispatcher {
	return &BrokerDispatcher{
		publisher: publisher,
		topic:     topic,
		logger:    log,
	}
}

func (d *BrokerDispatcher) Deliver(ctx context.Context, outcome *dto.Outcome) {
	payload, err := json.Marshal(outcome)
	if err != nil {
		d.logger.Error("failed to marshal outcome", zap.Error(err))
		return
	}

	// Keyed by session id so a reconnecting client keeps reading its own
	// results in order.
	if err := d.publisher.Publish(ctx, d.topic, []byte(outcome.SessionID), payload); err != nil {
		d.logger.Error("failed to publish outcome",
			zap.String("session_id", outcome.SessionID),
			zap.String("tag_uid", outcome.TagUID),
			zap.Error(err),
		)
	}
}

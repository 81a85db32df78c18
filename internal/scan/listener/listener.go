package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/scan"
	"github.com/warekit/rfid-scan-service/internal/scan/dto"
	"github.com/warekit/rfid-scan-service/pkg/broker"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Listener is the single consumer of the tag-read channel. One goroutine,
// one message at a time: this ordering is what makes the ingestor's
// idempotency check race-free.
type Listener struct {
	consumer broker.Consumer
	uc       scan.UseCase
	logger   *zap.Logger
}

func NewListener(consumer broker.Consumer, uc scan.UseCase, log *zap.Logger) *Listener {
	return &Listener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *Listener) Start(ctx context.Context) {
	l.logger.Info("starting tag read listener")
	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping tag read listener")
			return
		default:
		}

		msg, err := l.consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// Connection loss is recoverable: the session stays intact and
			// the physical reader will re-read whatever we missed.
			l.logger.Error("failed to read tag message, reconnecting", zap.Error(err))
			time.Sleep(backoff)
			if backoff *= 2; backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = initialBackoff

		l.processMessage(ctx, msg)
	}
}

func (l *Listener) processMessage(ctx context.Context, msg broker.Message) {
	var read dto.TagRead
	if err := json.Unmarshal(msg.Value, &read); err != nil {
		l.logger.Error("failed to unmarshal tag read", zap.Error(err))
		return
	}
	if read.UID == "" {
		l.logger.Warn("tag read without uid, dropping")
		return
	}
	if read.ReadAt.IsZero() {
		read.ReadAt = msg.Time
	}

	if _, err := l.uc.Apply(ctx, &read); err != nil {
		l.logger.Error("failed to process tag read",
			zap.String("tag_uid", read.UID),
			zap.Error(err),
		)
	}
}

package listener

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/scan/dto"
	"github.com/warekit/rfid-scan-service/pkg/broker"
)

// scriptConsumer replays a fixed sequence of messages and errors, then blocks
// until the context is cancelled, like a quiet topic would.
type scriptConsumer struct {
	script []scriptEntry
	pos    int
}

type scriptEntry struct {
	msg broker.Message
	err error
}

func (c *scriptConsumer) ReadMessage(ctx context.Context) (broker.Message, error) {
	if c.pos >= len(c.script) {
		<-ctx.Done()
		return broker.Message{}, ctx.Err()
	}
	entry := c.script[c.pos]
	c.pos++
	return entry.msg, entry.err
}

func (c *scriptConsumer) Close() error { return nil }

type recordingUseCase struct {
	reads []dto.TagRead
	err   error
}

func (u *recordingUseCase) Apply(ctx context.Context, read *dto.TagRead) (*dto.Outcome, error) {
	u.reads = append(u.reads, *read)
	return &dto.Outcome{TagUID: read.UID, Outcome: dto.OutcomeApplied}, u.err
}

func runListener(t *testing.T, consumer broker.Consumer, uc *recordingUseCase) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewListener(consumer, uc, zap.NewNop()).Start(ctx)
	}()

	// Drain the script, then stop.
	require.Eventually(t, func() bool {
		return consumer.(*scriptConsumer).pos >= len(consumer.(*scriptConsumer).script)
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop on context cancel")
	}
}

func TestListener_DeliversReadsInOrder(t *testing.T) {
	consumer := &scriptConsumer{script: []scriptEntry{
		{msg: broker.Message{Value: []byte(`{"uid":"tag-a"}`)}},
		{msg: broker.Message{Value: []byte(`{"uid":"tag-b"}`)}},
	}}
	uc := &recordingUseCase{}

	runListener(t, consumer, uc)

	require.Len(t, uc.reads, 2)
	assert.Equal(t, "tag-a", uc.reads[0].UID)
	assert.Equal(t, "tag-b", uc.reads[1].UID)
}

func TestListener_SkipsMalformedAndEmptyReads(t *testing.T) {
	consumer := &scriptConsumer{script: []scriptEntry{
		{msg: broker.Message{Value: []byte(`not json`)}},
		{msg: broker.Message{Value: []byte(`{"uid":""}`)}},
		{msg: broker.Message{Value: []byte(`{"uid":"tag-a"}`)}},
	}}
	uc := &recordingUseCase{}

	runListener(t, consumer, uc)

	require.Len(t, uc.reads, 1)
	assert.Equal(t, "tag-a", uc.reads[0].UID)
}

func TestListener_FillsReadTimeFromMessage(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	consumer := &scriptConsumer{script: []scriptEntry{
		{msg: broker.Message{Value: []byte(`{"uid":"tag-a"}`), Time: at}},
	}}
	uc := &recordingUseCase{}

	runListener(t, consumer, uc)

	require.Len(t, uc.reads, 1)
	assert.Equal(t, at, uc.reads[0].ReadAt)
}

func TestListener_SurvivesReadAndApplyErrors(t *testing.T) {
	consumer := &scriptConsumer{script: []scriptEntry{
		{err: io.ErrUnexpectedEOF},
		{msg: broker.Message{Value: []byte(`{"uid":"tag-a"}`)}},
		{msg: broker.Message{Value: []byte(`{"uid":"tag-b"}`)}},
	}}
	uc := &recordingUseCase{err: errors.New("db down")}

	runListener(t, consumer, uc)

	// Both reads reach the ingestor despite the broker hiccup and the
	// downstream failures.
	require.Len(t, uc.reads, 2)
}

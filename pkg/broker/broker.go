// Package broker wraps the kafka-go reader/writer behind small interfaces so
// the ingestion loop and the outcome dispatcher can be exercised without a
// running cluster.
package broker

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

type Message struct {
	Key   []byte
	Value []byte
	Time  time.Time
}

// Consumer is the read side of the tag-read channel.
type Consumer interface {
	ReadMessage(ctx context.Context) (Message, error)
	Close() error
}

// Publisher is the write side used for outcome events.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
	Close() error
}

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewConsumer(cfg *Config) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    cfg.Topic,
			GroupID:  cfg.GroupID,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  500 * time.Millisecond,
		}),
	}
}

func (c *KafkaConsumer) ReadMessage(ctx context.Context) (Message, error) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return Message{}, err
	}
	return Message{Key: msg.Key, Value: msg.Value, Time: msg.Time}, nil
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewPublisher(cfg *Config) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			// Outcome events are small and latency-sensitive.
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

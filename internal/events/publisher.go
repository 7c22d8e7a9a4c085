// Package events publishes catalog change events.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// EntityEvent describes a change to an asset type, entity or port configuration.
type EntityEvent struct {
	EventType      string          `json:"event_type"`
	OrganizationID uint            `json:"organization_id"`
	EntityType     string          `json:"entity_type"`
	EntityID       uint            `json:"entity_id"`
	AssetNumber    string          `json:"asset_number,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// RelationshipEvent describes a created or deleted edge.
type RelationshipEvent struct {
	EventType      string    `json:"event_type"`
	OrganizationID uint      `json:"organization_id"`
	RelationshipID uint      `json:"relationship_id"`
	RelationType   string    `json:"relation_type"`
	SourceType     string    `json:"source_type"`
	SourceID       uint      `json:"source_id"`
	TargetType     string    `json:"target_type"`
	TargetID       uint      `json:"target_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// Publisher is called after a change has committed.
type Publisher interface {
	PublishEntityEvent(ctx context.Context, event *EntityEvent) error
	PublishRelationshipEvent(ctx context.Context, event *RelationshipEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishEntityEvent(context.Context, *EntityEvent) error { return nil }

func (NopPublisher) PublishRelationshipEvent(context.Context, *RelationshipEvent) error { return nil }

func (NopPublisher) Close() error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single topic keyed by organization, so
// events of one tenant stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	log    *zap.Logger
}

// KafkaConfig holds producer settings.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

func NewKafkaPublisher(cfg KafkaConfig, log *zap.Logger) *KafkaPublisher {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 50 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		RequiredAcks:           kafka.RequireOne,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, cfg.Topic, log)
}

func newKafkaPublisher(w messageWriter, topic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, log: log.Named("events")}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) PublishEntityEvent(ctx context.Context, event *EntityEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return p.publish(ctx, event.OrganizationID, event, []kafka.Header{
		{Key: "event_type", Value: []byte(event.EventType)},
		{Key: "entity_type", Value: []byte(event.EntityType)},
	})
}

func (p *KafkaPublisher) PublishRelationshipEvent(ctx context.Context, event *RelationshipEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return p.publish(ctx, event.OrganizationID, event, []kafka.Header{
		{Key: "event_type", Value: []byte(event.EventType)},
		{Key: "entity_type", Value: []byte("relationship")},
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, org uint, event any, headers []kafka.Header) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	orgKey := strconv.FormatUint(uint64(org), 10)
	msg := kafka.Message{
		Topic:   p.topic,
		Key:     []byte(orgKey),
		Value:   data,
		Headers: append(headers, kafka.Header{Key: "organization_id", Value: []byte(orgKey)}),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish event", zap.String("organization_id", orgKey), zap.Error(err))
		return err
	}
	p.log.Debug("published event", zap.String("organization_id", orgKey), zap.String("topic", p.topic))
	return nil
}

// Snapshot encodes the committed state carried in EntityEvent.Data. An
// unencodable value yields no payload rather than failing the write.
func Snapshot(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

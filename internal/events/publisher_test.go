package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_EntityEvent(t *testing.T) {
	w := &captureWriter{}
	p := newKafkaPublisher(w, "catalog-events", zap.NewNop())

	err := p.PublishEntityEvent(context.Background(), &EntityEvent{
		EventType:      Created,
		OrganizationID: 7,
		EntityType:     "flexible_asset",
		EntityID:       42,
		AssetNumber:    "SRV-0007",
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "catalog-events", msg.Topic)
	assert.Equal(t, "7", string(msg.Key))
	assert.Equal(t, "created", header(msg, "event_type"))
	assert.Equal(t, "flexible_asset", header(msg, "entity_type"))
	assert.Equal(t, "7", header(msg, "organization_id"))

	var decoded EntityEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "SRV-0007", decoded.AssetNumber)
	assert.False(t, decoded.Timestamp.IsZero())
}

func TestKafkaPublisher_RelationshipEvent(t *testing.T) {
	w := &captureWriter{}
	p := newKafkaPublisher(w, "catalog-events", zap.NewNop())

	require.NoError(t, p.PublishRelationshipEvent(context.Background(), &RelationshipEvent{
		EventType:      Deleted,
		OrganizationID: 3,
		RelationType:   "depends",
		SourceType:     "asset",
		SourceID:       10,
		TargetType:     "asset",
		TargetID:       11,
	}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "relationship", header(w.msgs[0], "entity_type"))
	assert.Equal(t, "deleted", header(w.msgs[0], "event_type"))
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &captureWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w, "catalog-events", zap.NewNop())

	err := p.PublishEntityEvent(context.Background(), &EntityEvent{EventType: Updated, OrganizationID: 1})
	assert.EqualError(t, err, "broker down")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishEntityEvent(context.Background(), &EntityEvent{}))
	assert.NoError(t, p.PublishRelationshipEvent(context.Background(), &RelationshipEvent{}))
	assert.NoError(t, p.Close())
}

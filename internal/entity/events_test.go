package entity

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"asset-catalog/internal/catalog"
	"asset-catalog/internal/events"
	"asset-catalog/internal/metrics"
	"asset-catalog/internal/validation"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.EntityEvent
}

func (p *recordingPublisher) PublishEntityEvent(_ context.Context, event *events.EntityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) PublishRelationshipEvent(context.Context, *events.RelationshipEvent) error {
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) last(t *testing.T) *events.EntityEvent {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.events)
	return p.events[len(p.events)-1]
}

type eventSnapshot struct {
	AssetNumber string `json:"asset_number"`
	Name        string `json:"name"`
	Active      bool   `json:"active"`
	Values      map[string]struct {
		Kind  string          `json:"kind"`
		Value json.RawMessage `json:"value"`
	} `json:"values"`
}

func decodeSnapshot(t *testing.T, event *events.EntityEvent) eventSnapshot {
	t.Helper()
	require.NotEmpty(t, event.Data, "%s event carries the committed state", event.EventType)
	var snap eventSnapshot
	require.NoError(t, json.Unmarshal(event.Data, &snap))
	return snap
}

func TestStore_EventsCarrySnapshot(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	v := validation.New()
	f.store = NewStore(f.db, f.registry, v, catalog.NewLinker(catalog.NewDBSource(f.db)), pub, zap.NewNop())
	ctx := context.Background()
	at := f.serverType(t, orgA, "SRV-")

	fa, err := f.store.CreateFlexibleAsset(ctx, orgA, at.ID, "web-01", map[string]any{"power_status": "on"})
	require.NoError(t, err)
	created := pub.last(t)
	assert.Equal(t, events.Created, created.EventType)
	snap := decodeSnapshot(t, created)
	assert.Equal(t, "SRV-0001", snap.AssetNumber)
	require.Contains(t, snap.Values, "power_status")
	assert.JSONEq(t, `"on"`, string(snap.Values["power_status"].Value))

	name := "web-01a"
	_, err = f.store.UpdateFlexibleAsset(ctx, orgA, fa.ID, FlexibleAssetUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "web-01a", decodeSnapshot(t, pub.last(t)).Name)

	require.NoError(t, f.store.DeactivateFlexibleAsset(ctx, orgA, fa.ID))
	assert.False(t, decodeSnapshot(t, pub.last(t)).Active)

	asset, err := f.store.CreateAsset(ctx, orgA, AssetInput{Name: "sw-01", AssetTypeID: &at.ID})
	require.NoError(t, err)
	assert.Equal(t, asset.AssetNumber, decodeSnapshot(t, pub.last(t)).AssetNumber)

	require.NoError(t, f.store.DeactivateAsset(ctx, orgA, asset.ID))
	assert.False(t, decodeSnapshot(t, pub.last(t)).Active)
}

func TestUpdateAsset_CountsValidationFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	asset, err := f.store.CreateAsset(ctx, orgA, AssetInput{Name: "sw-01"})
	require.NoError(t, err)

	counter := metrics.ValidationFailuresTotal.WithLabelValues(EntityAsset)
	before := testutil.ToFloat64(counter)

	_, err = f.store.UpdateAsset(ctx, orgA, asset.ID, AssetInput{Name: "sw-01", IPAddress: "10.0.0.300"})
	require.Error(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	_, err = f.store.UpdateAsset(ctx, orgA, asset.ID+100, AssetInput{Name: "sw-01"})
	require.Error(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(counter), "not found is not a validation failure")
}

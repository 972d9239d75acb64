package provider

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdamokos/travel-tracker/models"
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestTravelSnapshot_DeterministicAcrossPartialPayloads(t *testing.T) {
	p := ForTravel()

	// Same logical state, one payload omits the empty collections and the
	// other spells them out with a different timezone representation.
	a, err := p.Snapshot([]byte(`{"id":"t1","name":"Nordics","start_date":"2025-06-01T10:00:00+02:00"}`))
	require.NoError(t, err)
	b, err := p.Snapshot([]byte(`{"id":"t1","name":"Nordics","start_date":"2025-06-01T08:00:00Z","locations":[],"routes":[],"accommodations":[]}`))
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b))
}

func TestTravelCreateDelta_NilWhenEqual(t *testing.T) {
	p := ForTravel()
	snap, err := p.Snapshot(mustJSON(t, models.Travel{ID: "t1", Name: "Nordics"}))
	require.NoError(t, err)

	d, err := p.CreateDelta(snap, snap)
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.True(t, p.IsDeltaEmpty(d))
}

func TestTravelCreateDelta_ScalarsAndCollections(t *testing.T) {
	p := ForTravel()

	base, err := p.Snapshot(mustJSON(t, models.Travel{
		ID:   "t1",
		Name: "Nordics",
		Locations: []models.Location{
			{ID: "1", Name: "Paris"},
		},
	}))
	require.NoError(t, err)

	current, err := p.Snapshot(mustJSON(t, models.Travel{
		ID:          "t1",
		Name:        "Nordics 2025",
		Description: "with a detour",
		Locations: []models.Location{
			{ID: "1", Name: "Paris"},
			{ID: "2", Name: "Rome"},
		},
	}))
	require.NoError(t, err)

	raw, err := p.CreateDelta(base, current)
	require.NoError(t, err)
	require.NotNil(t, raw)

	var d TravelDelta
	require.NoError(t, json.Unmarshal(raw, &d))
	require.NotNil(t, d.Name)
	assert.Equal(t, "Nordics 2025", *d.Name)
	require.NotNil(t, d.Description)
	require.NotNil(t, d.Locations)
	require.Len(t, d.Locations.Added, 1)
	assert.Equal(t, "2", d.Locations.Added[0].ID)
	assert.Empty(t, d.Locations.Order)
	assert.Nil(t, d.Routes)
	assert.Nil(t, d.Accommodations)
}

func TestTravelApplyDelta_RoundTrip(t *testing.T) {
	p := ForTravel()
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	base, err := p.Snapshot(mustJSON(t, models.Travel{
		ID:        "t1",
		Name:      "Nordics",
		StartDate: &start,
		Locations: []models.Location{
			{ID: "1", Name: "Oslo"},
			{ID: "2", Name: "Bergen"},
		},
		Routes: []models.Route{
			{ID: "r1", FromLocationID: "1", ToLocationID: "2", Mode: "train"},
		},
	}))
	require.NoError(t, err)

	current, err := p.Snapshot(mustJSON(t, models.Travel{
		ID:        "t1",
		Name:      "Nordics",
		StartDate: &start,
		Locations: []models.Location{
			{ID: "2", Name: "Bergen"},
			{ID: "1", Name: "Oslo", Notes: "two extra days"},
			{ID: "3", Name: "Tromsø"},
		},
		Routes: []models.Route{
			{ID: "r1", FromLocationID: "1", ToLocationID: "2", Mode: "bus"},
		},
	}))
	require.NoError(t, err)

	d, err := p.CreateDelta(base, current)
	require.NoError(t, err)
	require.False(t, p.IsDeltaEmpty(d))

	applied, err := p.ApplyDelta(base, d)
	require.NoError(t, err)
	assert.JSONEq(t, string(current), string(applied))

	// Replaying the same delta must not change anything further.
	again, err := p.ApplyDelta(applied, d)
	require.NoError(t, err)
	assert.JSONEq(t, string(applied), string(again))
}

func TestTravelCreateDelta_ClearedDateRoundTrip(t *testing.T) {
	p := ForTravel()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	base, err := p.Snapshot(mustJSON(t, models.Travel{ID: "t1", Name: "Nordics", StartDate: &start}))
	require.NoError(t, err)
	current, err := p.Snapshot(mustJSON(t, models.Travel{ID: "t1", Name: "Nordics"}))
	require.NoError(t, err)

	raw, err := p.CreateDelta(base, current)
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.False(t, p.IsDeltaEmpty(raw))

	// The cleared field travels as an explicit null, not an omission.
	assert.Contains(t, string(raw), `"start_date":null`)

	applied, err := p.ApplyDelta(base, raw)
	require.NoError(t, err)
	assert.JSONEq(t, string(current), string(applied))
}

func TestTravelCoerceServer_ClearedDateIsAChange(t *testing.T) {
	p := ForTravel()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	base, err := p.Snapshot(mustJSON(t, models.Travel{ID: "t1", Name: "Nordics", StartDate: &start}))
	require.NoError(t, err)

	// The server cleared the date. The coerced state must diff against the
	// base as a real change, otherwise the divergence goes unnoticed.
	coerced, err := p.CoerceServer([]byte(`{"start_date":null}`), base)
	require.NoError(t, err)

	d, err := p.CreateDelta(base, coerced)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.False(t, p.IsDeltaEmpty(d))
}

func TestTravelCoerceServer_PartialResponseFallsBackToBase(t *testing.T) {
	p := ForTravel()

	base, err := p.Snapshot(mustJSON(t, models.Travel{
		ID:   "t1",
		Name: "Nordics",
		Locations: []models.Location{
			{ID: "1", Name: "Oslo"},
		},
	}))
	require.NoError(t, err)

	// Server response without the collections: must not register as the
	// collections having been emptied.
	coerced, err := p.CoerceServer([]byte(`{"id":"t1","name":"Nordics"}`), base)
	require.NoError(t, err)

	d, err := p.CreateDelta(base, coerced)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestTravelIsDeltaEmpty(t *testing.T) {
	p := ForTravel()

	assert.True(t, p.IsDeltaEmpty(nil))
	assert.True(t, p.IsDeltaEmpty([]byte(`{}`)))
	assert.False(t, p.IsDeltaEmpty([]byte(`{"name":"x"}`)))
	assert.False(t, p.IsDeltaEmpty([]byte(`not json`)))
}

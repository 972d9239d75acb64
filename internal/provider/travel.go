package provider

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bdamokos/travel-tracker/internal/delta"
	"github.com/bdamokos/travel-tracker/models"
)

// TravelDelta is the wire delta for the travel aggregate: changed scalar
// fields as replacement values plus one collection delta per nested
// collection. Unchanged fields are omitted. Nullable dates use [Optional] so
// clearing a date is encoded as an explicit null rather than an omission.
type TravelDelta struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	StartDate   Optional[time.Time] `json:"start_date,omitzero"`
	EndDate     Optional[time.Time] `json:"end_date,omitzero"`

	Locations      *delta.CollectionDelta[models.Location]      `json:"locations,omitempty"`
	Routes         *delta.CollectionDelta[models.Route]         `json:"routes,omitempty"`
	Accommodations *delta.CollectionDelta[models.Accommodation] `json:"accommodations,omitempty"`
}

// Empty reports whether the delta carries no change.
func (d *TravelDelta) Empty() bool {
	if d == nil {
		return true
	}
	return d.Name == nil && d.Description == nil &&
		!d.StartDate.Set && !d.EndDate.Set &&
		d.Locations.Empty() && d.Routes.Empty() && d.Accommodations.Empty()
}

type travelProvider struct{}

// ForTravel returns the delta provider for the travel aggregate.
func ForTravel() Provider { return travelProvider{} }

func (travelProvider) Kind() models.EntityKind { return models.KindTravel }

func (travelProvider) NormalizeID(id string) string { return strings.TrimSpace(id) }

// Snapshot implements [Provider].
func (p travelProvider) Snapshot(raw json.RawMessage) (json.RawMessage, error) {
	var travel models.Travel
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &travel); err != nil {
			return nil, fmt.Errorf("decode travel payload: %w", err)
		}
	}
	return canonicalTravel(&travel)
}

// CoerceServer implements [Provider]. Decoding the server payload on top of
// the base-populated struct leaves absent fields at their base values.
func (p travelProvider) CoerceServer(raw, base json.RawMessage) (json.RawMessage, error) {
	var travel models.Travel
	if len(base) > 0 {
		if err := json.Unmarshal(base, &travel); err != nil {
			return nil, fmt.Errorf("decode travel base: %w", err)
		}
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &travel); err != nil {
			return nil, fmt.Errorf("decode travel server payload: %w", err)
		}
	}
	return canonicalTravel(&travel)
}

// CreateDelta implements [Provider].
func (p travelProvider) CreateDelta(baseRaw, currentRaw json.RawMessage) (json.RawMessage, error) {
	var base, current models.Travel
	if len(baseRaw) > 0 {
		if err := json.Unmarshal(baseRaw, &base); err != nil {
			return nil, fmt.Errorf("decode travel base: %w", err)
		}
	}
	if len(currentRaw) > 0 {
		if err := json.Unmarshal(currentRaw, &current); err != nil {
			return nil, fmt.Errorf("decode travel current: %w", err)
		}
	}

	d := &TravelDelta{}
	var err error
	if d.Locations, err = delta.Diff(base.Locations, current.Locations); err != nil {
		return nil, fmt.Errorf("diff locations: %w", err)
	}
	if d.Routes, err = delta.Diff(base.Routes, current.Routes); err != nil {
		return nil, fmt.Errorf("diff routes: %w", err)
	}
	if d.Accommodations, err = delta.Diff(base.Accommodations, current.Accommodations); err != nil {
		return nil, fmt.Errorf("diff accommodations: %w", err)
	}
	if base.Name != current.Name {
		d.Name = ptr(current.Name)
	}
	if base.Description != current.Description {
		d.Description = ptr(current.Description)
	}
	if !timesEqual(base.StartDate, current.StartDate) {
		d.StartDate = replace(current.StartDate)
	}
	if !timesEqual(base.EndDate, current.EndDate) {
		d.EndDate = replace(current.EndDate)
	}

	if d.Empty() {
		return nil, nil
	}
	return json.Marshal(d)
}

// IsDeltaEmpty implements [Provider].
func (p travelProvider) IsDeltaEmpty(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	var d TravelDelta
	if err := json.Unmarshal(raw, &d); err != nil {
		return false
	}
	return d.Empty()
}

// ApplyDelta implements [Provider].
func (p travelProvider) ApplyDelta(snapshot, raw json.RawMessage) (json.RawMessage, error) {
	var travel models.Travel
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &travel); err != nil {
			return nil, fmt.Errorf("decode travel snapshot: %w", err)
		}
	}
	var d TravelDelta
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode travel delta: %w", err)
		}
	}

	if d.Name != nil {
		travel.Name = *d.Name
	}
	if d.Description != nil {
		travel.Description = *d.Description
	}
	if d.StartDate.Set {
		travel.StartDate = d.StartDate.Value
	}
	if d.EndDate.Set {
		travel.EndDate = d.EndDate.Value
	}

	var err error
	if travel.Locations, err = delta.Apply(travel.Locations, d.Locations); err != nil {
		return nil, fmt.Errorf("apply locations delta: %w", err)
	}
	if travel.Routes, err = delta.Apply(travel.Routes, d.Routes); err != nil {
		return nil, fmt.Errorf("apply routes delta: %w", err)
	}
	if travel.Accommodations, err = delta.Apply(travel.Accommodations, d.Accommodations); err != nil {
		return nil, fmt.Errorf("apply accommodations delta: %w", err)
	}

	return canonicalTravel(&travel)
}

// canonicalTravel clamps optional fields to deterministic defaults and
// returns the canonical encoding.
func canonicalTravel(t *models.Travel) (json.RawMessage, error) {
	t.ID = strings.TrimSpace(t.ID)
	if t.Locations == nil {
		t.Locations = []models.Location{}
	}
	if t.Routes == nil {
		t.Routes = []models.Route{}
	}
	if t.Accommodations == nil {
		t.Accommodations = []models.Accommodation{}
	}
	t.StartDate = utc(t.StartDate)
	t.EndDate = utc(t.EndDate)

	return delta.Canonical(t)
}

func ptr[T any](v T) *T { return &v }

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

package provider

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bdamokos/travel-tracker/internal/delta"
	"github.com/bdamokos/travel-tracker/models"
)

// legacyCostIDPrefix is the redundant prefix older clients put in front of
// the trip id when addressing its cost tracker. Normalization strips it so
// that legacy and current ids address the same queue entry and server row.
const legacyCostIDPrefix = "cost-"

// CostDelta is the wire delta for the cost aggregate. Nullable dates use
// [Optional] so clearing a date is encoded as an explicit null rather than
// an omission.
type CostDelta struct {
	Currency      *string             `json:"currency,omitempty"`
	OverallBudget *float64            `json:"overall_budget,omitempty"`
	StartDate     Optional[time.Time] `json:"start_date,omitzero"`
	EndDate       Optional[time.Time] `json:"end_date,omitzero"`

	Expenses       *delta.CollectionDelta[models.Expense]       `json:"expenses,omitempty"`
	CountryBudgets *delta.CollectionDelta[models.CountryBudget] `json:"country_budgets,omitempty"`
}

// Empty reports whether the delta carries no change.
func (d *CostDelta) Empty() bool {
	if d == nil {
		return true
	}
	return d.Currency == nil && d.OverallBudget == nil &&
		!d.StartDate.Set && !d.EndDate.Set &&
		d.Expenses.Empty() && d.CountryBudgets.Empty()
}

type costProvider struct{}

// ForCost returns the delta provider for the cost aggregate.
func ForCost() Provider { return costProvider{} }

func (costProvider) Kind() models.EntityKind { return models.KindCost }

// NormalizeID strips the legacy "cost-" prefix. Applied on every id
// comparison of this kind: queue lookups, deduplication, server addressing.
func (costProvider) NormalizeID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), legacyCostIDPrefix)
}

// Snapshot implements [Provider].
func (p costProvider) Snapshot(raw json.RawMessage) (json.RawMessage, error) {
	var cost models.Cost
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cost); err != nil {
			return nil, fmt.Errorf("decode cost payload: %w", err)
		}
	}
	return canonicalCost(&cost)
}

// CoerceServer implements [Provider].
func (p costProvider) CoerceServer(raw, base json.RawMessage) (json.RawMessage, error) {
	var cost models.Cost
	if len(base) > 0 {
		if err := json.Unmarshal(base, &cost); err != nil {
			return nil, fmt.Errorf("decode cost base: %w", err)
		}
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cost); err != nil {
			return nil, fmt.Errorf("decode cost server payload: %w", err)
		}
	}
	return canonicalCost(&cost)
}

// CreateDelta implements [Provider].
func (p costProvider) CreateDelta(baseRaw, currentRaw json.RawMessage) (json.RawMessage, error) {
	var base, current models.Cost
	if len(baseRaw) > 0 {
		if err := json.Unmarshal(baseRaw, &base); err != nil {
			return nil, fmt.Errorf("decode cost base: %w", err)
		}
	}
	if len(currentRaw) > 0 {
		if err := json.Unmarshal(currentRaw, &current); err != nil {
			return nil, fmt.Errorf("decode cost current: %w", err)
		}
	}

	d := &CostDelta{}
	var err error
	if d.Expenses, err = delta.Diff(base.Expenses, current.Expenses); err != nil {
		return nil, fmt.Errorf("diff expenses: %w", err)
	}
	if d.CountryBudgets, err = delta.Diff(base.CountryBudgets, current.CountryBudgets); err != nil {
		return nil, fmt.Errorf("diff country budgets: %w", err)
	}
	if base.Currency != current.Currency {
		d.Currency = ptr(current.Currency)
	}
	if base.OverallBudget != current.OverallBudget {
		d.OverallBudget = ptr(current.OverallBudget)
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
func (p costProvider) IsDeltaEmpty(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	var d CostDelta
	if err := json.Unmarshal(raw, &d); err != nil {
		return false
	}
	return d.Empty()
}

// ApplyDelta implements [Provider].
func (p costProvider) ApplyDelta(snapshot, raw json.RawMessage) (json.RawMessage, error) {
	var cost models.Cost
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &cost); err != nil {
			return nil, fmt.Errorf("decode cost snapshot: %w", err)
		}
	}
	var d CostDelta
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode cost delta: %w", err)
		}
	}

	if d.Currency != nil {
		cost.Currency = *d.Currency
	}
	if d.OverallBudget != nil {
		cost.OverallBudget = *d.OverallBudget
	}
	if d.StartDate.Set {
		cost.StartDate = d.StartDate.Value
	}
	if d.EndDate.Set {
		cost.EndDate = d.EndDate.Value
	}

	var err error
	if cost.Expenses, err = delta.Apply(cost.Expenses, d.Expenses); err != nil {
		return nil, fmt.Errorf("apply expenses delta: %w", err)
	}
	if cost.CountryBudgets, err = delta.Apply(cost.CountryBudgets, d.CountryBudgets); err != nil {
		return nil, fmt.Errorf("apply country budgets delta: %w", err)
	}

	return canonicalCost(&cost)
}

// canonicalCost clamps optional fields to deterministic defaults and returns
// the canonical encoding. The tracker id is normalized here as well so
// snapshots never carry the legacy prefix.
func canonicalCost(c *models.Cost) (json.RawMessage, error) {
	c.ID = costProvider{}.NormalizeID(c.ID)
	if c.Expenses == nil {
		c.Expenses = []models.Expense{}
	}
	if c.CountryBudgets == nil {
		c.CountryBudgets = []models.CountryBudget{}
	}
	c.StartDate = utc(c.StartDate)
	c.EndDate = utc(c.EndDate)

	return delta.Canonical(c)
}

package models

import "time"

// Cost is the expense-tracking aggregate attached to one trip. Its ID equals
// the trip ID; legacy payloads carried a redundant "cost-" prefix which the
// cost delta provider strips before any lookup or comparison.
type Cost struct {
	// ID is the trip identifier this tracker belongs to (normalized form,
	// without the legacy "cost-" prefix).
	ID string `json:"id"`

	// Currency is the tracker's display currency (ISO 4217 code).
	Currency string `json:"currency"`

	// OverallBudget is the total budget for the trip in Currency.
	// Zero means no budget was set.
	OverallBudget float64 `json:"overall_budget"`

	// StartDate and EndDate bound the tracked period. Either may be nil.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	// Expenses are the individual spending records in entry order.
	Expenses []Expense `json:"expenses"`

	// CountryBudgets are per-country budget allocations.
	CountryBudgets []CountryBudget `json:"country_budgets"`
}

// Expense is one spending record.
type Expense struct {
	ID          string     `json:"id"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Category    string     `json:"category"`
	Country     string     `json:"country,omitempty"`
	Description string     `json:"description,omitempty"`
	SpentAt     *time.Time `json:"spent_at,omitempty"`
}

// RecordID returns the stable identity used by the collection delta
// machinery.
func (e Expense) RecordID() string { return e.ID }

// CountryBudget is a budget allocation for one country of the trip.
type CountryBudget struct {
	ID      string  `json:"id"`
	Country string  `json:"country"`
	Amount  float64 `json:"amount"`
}

// RecordID returns the stable identity used by the collection delta
// machinery.
func (b CountryBudget) RecordID() string { return b.ID }

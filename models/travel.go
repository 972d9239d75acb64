package models

import "time"

// Travel is the trip-journal aggregate: the scalar trip attributes plus the
// ordered collections that make up the journal (visited locations, travel
// routes between them, and booked accommodations).
//
// Every collection element carries a stable string ID; identity is the only
// thing the delta machinery relies on, so IDs must never be reused within
// one collection.
type Travel struct {
	// ID is the trip identifier, unique per user.
	ID string `json:"id"`

	// Name is the user-visible trip title.
	Name string `json:"name"`

	// Description is an optional free-form trip summary.
	Description string `json:"description"`

	// StartDate and EndDate bound the trip. Either may be nil for
	// open-ended trips.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	// Locations are the visited places in itinerary order.
	Locations []Location `json:"locations"`

	// Routes connect locations in travel order.
	Routes []Route `json:"routes"`

	// Accommodations are the booked stays in check-in order.
	Accommodations []Accommodation `json:"accommodations"`
}

// Location is one visited place on a trip.
type Location struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Country   string     `json:"country,omitempty"`
	ArrivalAt *time.Time `json:"arrival_at,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// RecordID returns the stable identity used by the collection delta
// machinery.
func (l Location) RecordID() string { return l.ID }

// Route is one leg between two locations.
type Route struct {
	ID             string     `json:"id"`
	FromLocationID string     `json:"from_location_id"`
	ToLocationID   string     `json:"to_location_id"`
	// Mode is the means of transport ("train", "plane", "bus", ...).
	Mode        string     `json:"mode"`
	DepartureAt *time.Time `json:"departure_at,omitempty"`
	ArrivalAt   *time.Time `json:"arrival_at,omitempty"`
}

// RecordID returns the stable identity used by the collection delta
// machinery.
func (r Route) RecordID() string { return r.ID }

// Accommodation is one booked stay.
type Accommodation struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LocationID string     `json:"location_id,omitempty"`
	CheckIn    *time.Time `json:"check_in,omitempty"`
	CheckOut   *time.Time `json:"check_out,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// RecordID returns the stable identity used by the collection delta
// machinery.
func (a Accommodation) RecordID() string { return a.ID }

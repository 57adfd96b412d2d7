package model

// EventItem records one item's contribution to a ScheduleEvent.
type EventItem struct {
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name"`
	ReservationID string `json:"reservation_id"`
	User          string `json:"user,omitempty"`
	Location      string `json:"location,omitempty"`
}

// ScheduleEvent aggregates every reservation sharing the same
// (project, start, end) key into a single calendar entry. Items appear
// in the order they were encountered while scanning the flattened
// reservation list. Recomputed on demand, never persisted.
type ScheduleEvent struct {
	Project   string      `json:"project"`
	Start     string      `json:"start"`
	End       string      `json:"end"`
	Items     []EventItem `json:"items"`
	ItemCount int         `json:"item_count"`
}

// ViewCell is one date of a rendered calendar grid. InMonth is false
// for the padding days a month grid borrows from adjacent months.
type ViewCell struct {
	Date    string          `json:"date"`
	InMonth bool            `json:"in_month"`
	Events  []ScheduleEvent `json:"events"`
}

// ScheduleView is a fully rendered day, week, or month grid around an
// anchor date.
type ScheduleView struct {
	Anchor string     `json:"anchor"`
	Mode   string     `json:"mode"`
	Cells  []ViewCell `json:"cells"`
}

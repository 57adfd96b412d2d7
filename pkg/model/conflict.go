package model

// CheckoutConflictType is the only conflict type a checkout can produce.
const CheckoutConflictType = "checked-out"

// CheckoutConflict describes a collision between a proposed reservation
// interval and the item's current checkout. DueBack is empty for an
// open-ended checkout.
type CheckoutConflict struct {
	Type           string `json:"type"`
	Message        string `json:"message"`
	CheckedOutTo   string `json:"checked_out_to"`
	CheckedOutDate string `json:"checked_out_date"`
	DueBack        string `json:"due_back,omitempty"`
}

// ConflictResult is computed per query and never persisted.
// ReservationConflicts preserves the order of the item's reservation
// list; it is not sorted.
type ConflictResult struct {
	ReservationConflicts []Reservation     `json:"reservation_conflicts"`
	CheckoutConflict     *CheckoutConflict `json:"checkout_conflict,omitempty"`
	HasConflicts         bool              `json:"has_conflicts"`
}

package model

// Event types published on the inventory events topic.
const (
	EventItemCheckedOut        = "item.checked_out"
	EventItemCheckedIn         = "item.checked_in"
	EventReservationCreated    = "reservation.created"
	EventReservationUpdated    = "reservation.updated"
	EventReservationCancelled  = "reservation.cancelled"
	EventMaintenanceLogged     = "maintenance.logged"
)

// CheckoutEvent is the payload for item.checked_out / item.checked_in.
type CheckoutEvent struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	To       string `json:"to,omitempty"`
	Date     string `json:"date,omitempty"`
	DueBack  string `json:"due_back,omitempty"`
}

// ReservationEvent is the payload for the reservation.* events.
type ReservationEvent struct {
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name"`
	ReservationID string `json:"reservation_id"`
	Start         string `json:"start,omitempty"`
	End           string `json:"end,omitempty"`
	Project       string `json:"project,omitempty"`
	User          string `json:"user,omitempty"`
}

// MaintenanceEvent is the payload for maintenance.logged.
type MaintenanceEvent struct {
	ItemID      string `json:"item_id"`
	EntryID     string `json:"entry_id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Cost        string `json:"cost,omitempty"`
}

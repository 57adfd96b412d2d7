package model

import "time"

// Reservation is embedded in its owning Item document; reservations are
// never shared across items. Start and End are inclusive calendar dates
// in YYYY-MM-DD form, so lexical order equals calendar order.
type Reservation struct {
	ID        string    `json:"id,omitempty" bson:"id,omitempty" validate:"omitempty,uuid4"`
	Start     string    `json:"start" bson:"start" validate:"required,caldate"`
	End       string    `json:"end" bson:"end" validate:"required,caldate"`
	Project   string    `json:"project,omitempty" bson:"project,omitempty" validate:"omitempty,max=100"`
	User      string    `json:"user,omitempty" bson:"user,omitempty" validate:"omitempty,max=100"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=100"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ReservationUpdate struct {
	Start    string `json:"start,omitempty" validate:"omitempty,caldate"`
	End      string `json:"end,omitempty" validate:"omitempty,caldate"`
	Project  *string `json:"project,omitempty" validate:"omitempty,max=100"`
	User     *string `json:"user,omitempty" validate:"omitempty,max=100"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=100"`
}

package model

import (
	"time"
)

// Item statuses. An item carries checkout state only while its status
// is StatusCheckedOut; check-in clears the three checkout fields.
const (
	StatusAvailable   = "available"
	StatusCheckedOut  = "checked-out"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
)

type Item struct {
	ID           string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	Name         string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Category     string `json:"category" bson:"category" validate:"required,min=2,max=50"`
	SerialNumber string `json:"serial_number" bson:"serial_number" validate:"required,min=2,max=100"`
	Location     string `json:"location,omitempty" bson:"location" validate:"omitempty,max=100"`
	Status       string `json:"status" bson:"status" validate:"required,oneof=available checked-out maintenance retired"`

	CheckedOutTo   string `json:"checked_out_to,omitempty" bson:"checked_out_to,omitempty" validate:"omitempty,min=2,max=100"`
	CheckedOutDate string `json:"checked_out_date,omitempty" bson:"checked_out_date,omitempty" validate:"omitempty,caldate"`
	DueBack        string `json:"due_back,omitempty" bson:"due_back,omitempty" validate:"omitempty,caldate"`

	PurchaseDate     string `json:"purchase_date,omitempty" bson:"purchase_date,omitempty" validate:"omitempty,caldate"`
	PurchasePrice    string `json:"purchase_price,omitempty" bson:"purchase_price,omitempty" validate:"omitempty,money"`
	SalvageValue     string `json:"salvage_value,omitempty" bson:"salvage_value,omitempty" validate:"omitempty,money"`
	UsefulLifeMonths int    `json:"useful_life_months,omitempty" bson:"useful_life_months,omitempty" validate:"omitempty,min=1,max=600"`

	Reservations []Reservation `json:"reservations" bson:"reservations" validate:"omitempty,dive"`
	Notes        string        `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ItemUpdate struct {
	Name             string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Category         string `json:"category,omitempty" validate:"omitempty,min=2,max=50"`
	SerialNumber     string `json:"serial_number,omitempty" validate:"omitempty,min=2,max=100"`
	Location         string `json:"location,omitempty" validate:"omitempty,max=100"`
	Status           string `json:"status,omitempty" validate:"omitempty,oneof=available checked-out maintenance retired"`
	PurchaseDate     string `json:"purchase_date,omitempty" validate:"omitempty,caldate"`
	PurchasePrice    string `json:"purchase_price,omitempty" validate:"omitempty,money"`
	SalvageValue     string `json:"salvage_value,omitempty" validate:"omitempty,money"`
	UsefulLifeMonths *int   `json:"useful_life_months,omitempty" validate:"omitempty,min=1,max=600"`
	Notes            *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// CheckoutRequest is the body of POST /items/:id/checkout. An empty
// DueBack produces an open-ended checkout, which conflicts with every
// proposed reservation interval until the item is checked back in.
type CheckoutRequest struct {
	To      string `json:"to" validate:"required,min=2,max=100"`
	Date    string `json:"date" validate:"required,caldate"`
	DueBack string `json:"due_back,omitempty" validate:"omitempty,caldate"`
}

package model

import "time"

// MaintenanceEntry lives in its own collection, keyed back to the item.
// Cost is a decimal string; arithmetic on it goes through
// shopspring/decimal, never float64.
type MaintenanceEntry struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	ItemID      string    `json:"item_id" bson:"item_id" validate:"required,uuid4"`
	Date        string    `json:"date" bson:"date" validate:"required,caldate"`
	Description string    `json:"description" bson:"description" validate:"required,min=2,max=1000"`
	Cost        string    `json:"cost,omitempty" bson:"cost,omitempty" validate:"omitempty,money"`
	PerformedBy string    `json:"performed_by,omitempty" bson:"performed_by,omitempty" validate:"omitempty,max=100"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type MaintenanceUpdate struct {
	Date        string  `json:"date,omitempty" validate:"omitempty,caldate"`
	Description string  `json:"description,omitempty" validate:"omitempty,min=2,max=1000"`
	Cost        *string `json:"cost,omitempty" validate:"omitempty,money"`
	PerformedBy *string `json:"performed_by,omitempty" validate:"omitempty,max=100"`
}

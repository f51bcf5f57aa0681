package model

import "time"

// Canonical state names the conflict resolver depends on. The catalog may
// carry more states, but these four must exist.
const (
	StatePending   = "Pending"
	StateApproved  = "Approved"
	StateRejected  = "Rejected"
	StateCancelled = "Cancelled"
)

// ReservationState is one named point in the approval lifecycle.
type ReservationState struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name       string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	ColorHex   string    `json:"color_hex,omitempty" bson:"color_hex,omitempty" validate:"omitempty,hexcolor"`
	AllowsEdit bool      `json:"allows_edit" bson:"allows_edit"`
	IsFinal    bool      `json:"is_final" bson:"is_final"`
	SortOrder  int       `json:"sort_order" bson:"sort_order"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

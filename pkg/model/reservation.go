package model

import (
	"time"
)

// Reservation books (or administratively blocks) one space for one contiguous
// interval on one calendar date. Date and times are wall-clock values in the
// space's local day; minute resolution.
type Reservation struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Code             string    `json:"code" bson:"code" validate:"omitempty"`
	UserID           string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	SpaceID          string    `json:"space_id" bson:"space_id" validate:"required,mongodb"`
	EventTypeID      string    `json:"event_type_id,omitempty" bson:"event_type_id,omitempty" validate:"omitempty,mongodb"`
	StateID          string    `json:"state_id,omitempty" bson:"state_id,omitempty" validate:"omitempty,mongodb"`
	Date             string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime        string    `json:"start_time" bson:"start_time" validate:"required,datetime=15:04"`
	EndTime          string    `json:"end_time" bson:"end_time" validate:"required,datetime=15:04"`
	Title            string    `json:"title,omitempty" bson:"title,omitempty" validate:"omitempty,max=250"`
	Description      string    `json:"description,omitempty" bson:"description,omitempty"`
	IsBlock          bool      `json:"is_block" bson:"is_block"`
	BlockReason      string    `json:"block_reason,omitempty" bson:"block_reason,omitempty" validate:"omitempty,max=500"`
	AttendeeEstimate *int      `json:"attendee_estimate,omitempty" bson:"attendee_estimate,omitempty" validate:"omitempty,min=1"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// ReservationPatch enumerates the fields a caller may change on an existing
// reservation. Nil/empty means "leave as is"; state changes go through the
// state endpoint, never through a patch.
type ReservationPatch struct {
	Title            *string `json:"title,omitempty" validate:"omitempty,max=250"`
	Description      *string `json:"description,omitempty"`
	EventTypeID      *string `json:"event_type_id,omitempty" validate:"omitempty,mongodb"`
	Date             *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime        *string `json:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime          *string `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	AttendeeEstimate *int    `json:"attendee_estimate,omitempty" validate:"omitempty,min=1"`
}

// StateChange is the body of the state transition endpoint.
type StateChange struct {
	StateID string `json:"state_id" validate:"required,mongodb"`
}

// StateChangeResult reports the outcome of one state transition. AutoRejected
// is populated only by approvals: every pending sibling that overlapped the
// approved interval and was rejected in the same transaction.
type StateChangeResult struct {
	Reservation  *Reservation   `json:"reservation"`
	AutoRejected []*Reservation `json:"auto_rejected,omitempty"`
}

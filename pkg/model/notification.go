package model

import "time"

// Notification is the persisted record behind a `notificacion` event. Stored
// best-effort: failures to write one never fail the originating operation.
type Notification struct {
	ID            string         `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        string         `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	Title         string         `json:"title" bson:"title" validate:"required,max=250"`
	Message       string         `json:"message" bson:"message"`
	Read          bool           `json:"read" bson:"read"`
	ReservationID string         `json:"reservation_id,omitempty" bson:"reservation_id,omitempty"`
	SpaceID       string         `json:"space_id,omitempty" bson:"space_id,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	ReadAt        *time.Time     `json:"read_at,omitempty" bson:"read_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
}

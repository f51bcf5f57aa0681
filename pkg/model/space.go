package model

import "time"

const (
	SpaceStatusActive   = "active"
	SpaceStatusInactive = "inactive"
)

// Space is the bookable physical resource. The engine reads only identity and
// display fields; catalog management beyond that lives elsewhere.
type Space struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Code        string    `json:"code" bson:"code" validate:"required,min=2,max=50"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	Capacity    int       `json:"capacity" bson:"capacity" validate:"required,min=1"`
	Status      string    `json:"status" bson:"status" validate:"omitempty,oneof=active inactive"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

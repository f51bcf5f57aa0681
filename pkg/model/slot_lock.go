package model

import (
	"fmt"
	"time"
)

// SlotLock is an advisory lock serializing approval transactions per
// (space, date). The _id encodes the coordinates, so a duplicate insert means
// another request holds the slot.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SlotLockID builds the lock document id for a (space, date) pair.
func SlotLockID(spaceID, date string) string {
	return fmt.Sprintf("%s_%s", spaceID, date)
}

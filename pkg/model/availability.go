package model

// OccupiedSlot is one blocking reservation as seen by availability queries.
type OccupiedSlot struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Title     string `json:"title,omitempty"`
	UserID    string `json:"user_id"`
}

// FreeSlot is one gap in the booking window.
type FreeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AvailabilityResult partitions the booking window into occupied and free
// slots for one space and date. SpaceName is nil when the space id does not
// resolve; Weekday is cosmetic.
type AvailabilityResult struct {
	SpaceID   string         `json:"space_id"`
	SpaceName *string        `json:"space_name"`
	Date      string         `json:"date"`
	Weekday   string         `json:"weekday"`
	Occupied  []OccupiedSlot `json:"occupied"`
	Free      []FreeSlot     `json:"free"`
}

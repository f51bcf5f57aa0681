package testutil

import (
	"reservas/pkg/model"
)

// Stable 24-hex actor ids for tests.
const (
	OwnerUserID = "64f000000000000000000101"
	OtherUserID = "64f000000000000000000102"
	AdminUserID = "64f000000000000000000103"
)

type ReservationBuilder struct {
	r model.Reservation
}

func NewReservationBuilder(spaceID string) *ReservationBuilder {
	return &ReservationBuilder{
		r: model.Reservation{
			UserID:    OwnerUserID,
			SpaceID:   spaceID,
			Date:      "2026-09-15",
			StartTime: "09:00",
			EndTime:   "10:00",
			Title:     "Team sync",
		},
	}
}

func (b *ReservationBuilder) WithUser(userID string) *ReservationBuilder {
	b.r.UserID = userID
	return b
}

func (b *ReservationBuilder) WithDate(date string) *ReservationBuilder {
	b.r.Date = date
	return b
}

func (b *ReservationBuilder) WithTimes(start, end string) *ReservationBuilder {
	b.r.StartTime = start
	b.r.EndTime = end
	return b
}

func (b *ReservationBuilder) WithTitle(title string) *ReservationBuilder {
	b.r.Title = title
	return b
}

func (b *ReservationBuilder) Build() model.Reservation {
	return b.r
}

func ValidSpace() model.Space {
	return model.Space{
		Code:     "ROOM-A",
		Name:     "Conference Room A",
		Capacity: 12,
		Status:   model.SpaceStatusActive,
	}
}

package service

import (
	"context"
	"time"

	apperrors "reservas/pkg/errors"
	"reservas/pkg/interval"
	"reservas/pkg/model"
)

// Availability computes the occupied and free intervals for one (space, date)
// pair against the booking window. Approved reservations always block the
// calendar; pending ones block only when includePending is set. The picture is
// a consistent read, not a hold: a slot reported free can be taken by the time
// a caller acts on it.
func (s *reservationService) Availability(ctx context.Context, spaceID, date string, includePending bool) (*model.AvailabilityResult, error) {
	if spaceID == "" {
		return nil, apperrors.InvalidInput("space_id is required")
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, apperrors.InvalidInput("date must be in YYYY-MM-DD format")
	}

	blockingNames := []string{model.StateApproved}
	if includePending {
		blockingNames = append(blockingNames, model.StatePending)
	}

	stateNames := make(map[string]string)
	var blockingIDs []string
	for _, name := range blockingNames {
		state, err := s.catalog.StateByName(ctx, name)
		if err != nil {
			// An unseeded state cannot have reservations attached; it simply
			// does not constrain the calendar.
			if apperrors.IsCode(err, apperrors.CodeNotFound) {
				s.cfg.Log.Warn("Blocking state missing from catalog", "state", name)
				continue
			}
			return nil, err
		}
		blockingIDs = append(blockingIDs, state.ID)
		stateNames[state.ID] = state.Name
	}

	reservations, err := s.repo.FindBySpaceAndDate(ctx, spaceID, date, blockingIDs)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservations for availability",
			"space_id", spaceID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to compute availability", err)
	}

	window := s.cfg.BookingWindow()

	occupied := make([]model.OccupiedSlot, 0, len(reservations))
	occupiedIvs := make([]interval.Interval, 0, len(reservations))
	for _, r := range reservations {
		iv, err := reservationInterval(r)
		if err != nil {
			s.cfg.Log.Warn("Skipping reservation with unparsable times", "id", r.ID, "error", err)
			continue
		}
		occupied = append(occupied, model.OccupiedSlot{
			ID:        r.ID,
			State:     stateNames[r.StateID],
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Title:     r.Title,
			UserID:    r.UserID,
		})
		occupiedIvs = append(occupiedIvs, iv)
	}

	free := make([]model.FreeSlot, 0)
	for _, gap := range interval.Free(window, occupiedIvs) {
		free = append(free, model.FreeSlot{
			StartTime: gap.Start.Clock(),
			EndTime:   gap.End.Clock(),
		})
	}

	result := &model.AvailabilityResult{
		SpaceID:  spaceID,
		Date:     date,
		Weekday:  day.Weekday().String(),
		Occupied: occupied,
		Free:     free,
	}

	if space, err := s.catalog.GetSpace(ctx, spaceID); err == nil {
		result.SpaceName = &space.Name
	} else if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		return nil, err
	}

	return result, nil
}

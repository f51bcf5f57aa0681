package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reservas/internal/events"
	reservationerrors "reservas/internal/reservations/errors"
	apperrors "reservas/pkg/errors"
	"reservas/pkg/interval"
	"reservas/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// allowedTransitions maps current state name to the set of reachable states.
// Rejected and Cancelled are terminal.
var allowedTransitions = map[string]map[string]bool{
	model.StatePending: {
		model.StateApproved:  true,
		model.StateRejected:  true,
		model.StateCancelled: true,
	},
	model.StateApproved: {
		model.StateCancelled: true,
	},
}

func (s *reservationService) ChangeState(ctx context.Context, actor model.Actor, id string, stateID string) (*model.StateChangeResult, error) {
	reservation, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target, err := s.catalog.StateByID(ctx, stateID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown reservation state: %s", stateID))
		}
		return nil, err
	}

	current, err := s.catalog.StateByID(ctx, reservation.StateID)
	if err != nil {
		return nil, err
	}

	if !allowedTransitions[current.Name][target.Name] {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"Cannot transition reservation from %s to %s", current.Name, target.Name,
		))
	}

	if !actor.CanManage(reservation.UserID) {
		return nil, apperrors.Forbidden("Only the reservation owner or an administrator may change its state")
	}

	if target.Name == model.StateApproved {
		return s.approve(ctx, reservation, current, target)
	}

	if err := s.repo.TransitionState(ctx, id, []string{current.ID}, target.ID); err != nil {
		return nil, s.translateTransitionError(err, id)
	}
	reservation.StateID = target.ID

	s.cfg.Log.Info("Reservation state changed",
		"id", id,
		"from", current.Name,
		"to", target.Name,
	)

	eventName := events.ReservationUpdated
	if target.Name == model.StateCancelled {
		eventName = events.ReservationCancelled
	}
	s.dispatcher.Emit(events.Event{
		Name:    eventName,
		Payload: events.ReservationPayload(reservation, target.Name),
	})
	s.emitAvailabilityUpdated(ctx, reservation.SpaceID, reservation.Date)

	s.notifyStateChange(ctx, reservation, target.Name)

	return &model.StateChangeResult{Reservation: reservation}, nil
}

// approve moves the target to Approved and rejects every overlapping pending
// sibling atomically. The (space, date) advisory lock serializes competing
// approvals; lock contention and concurrent state flips get a bounded number
// of retries before surfacing as a conflict.
func (s *reservationService) approve(ctx context.Context, reservation *model.Reservation, current, approved *model.ReservationState) (*model.StateChangeResult, error) {
	pending, err := s.catalog.StateByName(ctx, model.StatePending)
	if err != nil {
		return nil, err
	}
	rejected, err := s.catalog.StateByName(ctx, model.StateRejected)
	if err != nil {
		return nil, err
	}

	targetIv, err := reservationInterval(reservation)
	if err != nil {
		return nil, apperrors.Internal("Stored reservation has unparsable times", err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.ApproveRetryAttempts; attempt++ {
		result, err := s.approveOnce(ctx, reservation, targetIv, pending, approved, rejected)
		if err == nil {
			s.emitApprovalEvents(ctx, result, approved.Name, rejected.Name)
			return result, nil
		}

		if !isRetryableApprovalError(err) {
			return nil, err
		}
		lastErr = err

		s.cfg.Log.Warn("Approval attempt failed, retrying",
			"id", reservation.ID,
			"attempt", attempt,
			"error", err,
		)
		time.Sleep(s.cfg.ApproveRetryBackoff * time.Duration(attempt))

		// The state may have moved while we were contending; re-read so the
		// next attempt validates against fresh data.
		fresh, freshErr := s.GetByID(ctx, reservation.ID)
		if freshErr != nil {
			return nil, freshErr
		}
		if fresh.StateID != current.ID {
			return nil, apperrors.Conflict("Reservation is no longer pending")
		}
		reservation = fresh
	}

	s.cfg.Log.Error("Approval gave up after retries",
		"id", reservation.ID,
		"attempts", s.cfg.ApproveRetryAttempts,
		"error", lastErr,
	)
	return nil, apperrors.Conflict("The slot is busy with another approval. Please try again.")
}

func (s *reservationService) approveOnce(
	ctx context.Context,
	reservation *model.Reservation,
	targetIv interval.Interval,
	pending, approved, rejected *model.ReservationState,
) (*model.StateChangeResult, error) {
	lock, err := s.lockRepo.Acquire(ctx, reservation.SpaceID, reservation.Date)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrSlotContended) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to acquire slot lock", err)
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lock.ID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lock.ID, "error", releaseErr)
		}
	}()

	var autoRejected []*model.Reservation

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		autoRejected = autoRejected[:0]

		// Re-read inside the transaction; the pre-lock snapshot may be stale.
		fresh, err := s.repo.FindByID(sessCtx, reservation.ID)
		if err != nil {
			if errors.Is(err, reservationerrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Reservation", reservation.ID)
			}
			return apperrors.Internal("Failed to re-read reservation", err)
		}
		if fresh.StateID != pending.ID {
			return apperrors.Conflict("Reservation is no longer pending")
		}

		siblings, err := s.repo.FindBySpaceAndDate(sessCtx, fresh.SpaceID, fresh.Date, []string{pending.ID})
		if err != nil {
			return apperrors.Internal("Failed to load pending reservations", err)
		}

		for _, sibling := range siblings {
			if sibling.ID == fresh.ID {
				continue
			}
			siblingIv, err := reservationInterval(sibling)
			if err != nil {
				s.cfg.Log.Warn("Skipping sibling with unparsable times", "id", sibling.ID, "error", err)
				continue
			}
			if interval.Overlaps(targetIv, siblingIv) {
				autoRejected = append(autoRejected, sibling)
			}
		}

		if err := s.repo.TransitionState(sessCtx, fresh.ID, []string{pending.ID}, approved.ID); err != nil {
			return err
		}
		for _, sibling := range autoRejected {
			if err := s.repo.TransitionState(sessCtx, sibling.ID, []string{pending.ID}, rejected.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	reservation.StateID = approved.ID
	for _, sibling := range autoRejected {
		sibling.StateID = rejected.ID
	}

	s.cfg.Log.Info("Reservation approved",
		"id", reservation.ID,
		"space_id", reservation.SpaceID,
		"date", reservation.Date,
		"auto_rejected", len(autoRejected),
	)

	return &model.StateChangeResult{Reservation: reservation, AutoRejected: autoRejected}, nil
}

func (s *reservationService) emitApprovalEvents(ctx context.Context, result *model.StateChangeResult, approvedName, rejectedName string) {
	s.dispatcher.Emit(events.Event{
		Name:    events.ReservationUpdated,
		Payload: events.ReservationPayload(result.Reservation, approvedName),
	})
	s.notifyStateChange(ctx, result.Reservation, approvedName)

	for _, sibling := range result.AutoRejected {
		s.dispatcher.Emit(events.Event{
			Name:    events.ReservationUpdated,
			Payload: events.ReservationPayload(sibling, rejectedName),
		})
		s.notifyStateChange(ctx, sibling, rejectedName)
	}

	s.emitAvailabilityUpdated(ctx, result.Reservation.SpaceID, result.Reservation.Date)
}

func (s *reservationService) notifyStateChange(ctx context.Context, reservation *model.Reservation, stateName string) {
	var title, message string
	switch stateName {
	case model.StateApproved:
		title = "Reservation approved"
		message = fmt.Sprintf("Your reservation for %s %s-%s was approved", reservation.Date, reservation.StartTime, reservation.EndTime)
	case model.StateRejected:
		title = "Reservation rejected"
		message = fmt.Sprintf("Your reservation for %s %s-%s was rejected", reservation.Date, reservation.StartTime, reservation.EndTime)
	case model.StateCancelled:
		title = "Reservation cancelled"
		message = fmt.Sprintf("Your reservation for %s %s-%s was cancelled", reservation.Date, reservation.StartTime, reservation.EndTime)
	default:
		return
	}

	s.notifications.Notify(ctx, &model.Notification{
		UserID:        reservation.UserID,
		Title:         title,
		Message:       message,
		ReservationID: reservation.ID,
		SpaceID:       reservation.SpaceID,
	})
}

func (s *reservationService) translateTransitionError(err error, id string) error {
	if errors.Is(err, reservationerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Reservation", id)
	}
	if errors.Is(err, reservationerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid reservation ID format")
	}
	if errors.Is(err, reservationerrors.ErrStateChanged) {
		return apperrors.Conflict("Reservation state changed concurrently. Please retry.")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to change reservation state", err)
}

func isRetryableApprovalError(err error) bool {
	return errors.Is(err, reservationerrors.ErrSlotContended) ||
		errors.Is(err, reservationerrors.ErrStateChanged)
}

func reservationInterval(r *model.Reservation) (interval.Interval, error) {
	start, err := interval.ParseClock(r.StartTime)
	if err != nil {
		return interval.Interval{}, err
	}
	end, err := interval.ParseClock(r.EndTime)
	if err != nil {
		return interval.Interval{}, err
	}
	return interval.Interval{Start: start, End: end}, nil
}

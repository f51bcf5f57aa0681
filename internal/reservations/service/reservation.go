package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	catalogservice "reservas/internal/catalog/service"
	"reservas/internal/events"
	notificationservice "reservas/internal/notifications/service"
	reservationerrors "reservas/internal/reservations/errors"
	"reservas/internal/reservations/repository"
	"reservas/internal/reservations/validator"
	"reservas/pkg/config"
	apperrors "reservas/pkg/errors"
	"reservas/pkg/model"
	"reservas/pkg/sanitizer"

	"github.com/google/uuid"
)

type ReservationService interface {
	// Create persists a new reservation in the Pending state. Overlap with
	// existing reservations is allowed here; conflicts are resolved at
	// approval time.
	Create(ctx context.Context, actor model.Actor, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, filter repository.ListFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
	Patch(ctx context.Context, actor model.Actor, id string, patch *model.ReservationPatch) (*model.Reservation, error)
	// ChangeState applies one transition of the reservation lifecycle.
	// Approval additionally rejects every overlapping pending sibling in the
	// same transaction and reports them in the result.
	ChangeState(ctx context.Context, actor model.Actor, id string, stateID string) (*model.StateChangeResult, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
	Availability(ctx context.Context, spaceID, date string, includePending bool) (*model.AvailabilityResult, error)
}

type reservationService struct {
	repo          repository.ReservationRepository
	lockRepo      repository.SlotLockRepository
	catalog       catalogservice.CatalogService
	notifications notificationservice.NotificationService
	dispatcher    *events.Dispatcher
	validator     *validator.ReservationValidator
	cfg           *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.SlotLockRepository,
	catalog catalogservice.CatalogService,
	notifications notificationservice.NotificationService,
	dispatcher *events.Dispatcher,
	resValidator *validator.ReservationValidator,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:          repo,
		lockRepo:      lockRepo,
		catalog:       catalog,
		notifications: notifications,
		dispatcher:    dispatcher,
		validator:     resValidator,
		cfg:           cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, actor model.Actor, reservation *model.Reservation) error {
	if reservation.UserID == "" {
		reservation.UserID = actor.UserID
	}
	if !actor.CanManage(reservation.UserID) {
		return apperrors.Forbidden("Only administrators may create reservations for other users")
	}
	if reservation.IsBlock && !actor.IsAdmin() {
		return apperrors.Forbidden("Only administrators may create block reservations")
	}

	s.sanitize(reservation)
	if err := s.validate(reservation); err != nil {
		return err
	}

	if _, err := s.catalog.GetSpace(ctx, reservation.SpaceID); err != nil {
		return err
	}

	pending, err := s.catalog.StateByName(ctx, model.StatePending)
	if err != nil {
		s.cfg.Log.Error("Pending state missing from catalog", "error", err)
		return apperrors.Internal("Reservation state catalog is not seeded", err)
	}

	reservation.StateID = pending.ID
	if reservation.Code == "" {
		reservation.Code = uuid.New().String()
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return apperrors.Internal("Failed to create reservation", err)
	}

	s.cfg.Log.Info("Reservation created",
		"id", reservation.ID,
		"space_id", reservation.SpaceID,
		"date", reservation.Date,
		"start_time", reservation.StartTime,
		"end_time", reservation.EndTime,
	)

	s.dispatcher.Emit(events.Event{
		Name:    events.ReservationCreated,
		Payload: events.ReservationPayload(reservation, pending.Name),
	})
	s.emitAvailabilityUpdated(ctx, reservation.SpaceID, reservation.Date)

	s.notifications.Notify(ctx, &model.Notification{
		UserID:        reservation.UserID,
		Title:         "Reservation received",
		Message:       fmt.Sprintf("Your reservation for %s %s-%s is pending approval", reservation.Date, reservation.StartTime, reservation.EndTime),
		ReservationID: reservation.ID,
		SpaceID:       reservation.SpaceID,
	})

	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context, filter repository.ListFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) Patch(ctx context.Context, actor model.Actor, id string, patch *model.ReservationPatch) (*model.Reservation, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanManage(existing.UserID) {
		return nil, apperrors.Forbidden("Only the reservation owner or an administrator may edit it")
	}

	state, err := s.catalog.StateByID(ctx, existing.StateID)
	if err != nil {
		return nil, err
	}
	if !state.AllowsEdit {
		return nil, apperrors.Conflict(fmt.Sprintf("Reservations in state %s cannot be edited", state.Name))
	}

	if err := s.validator.ValidatePatch(patch); err != nil {
		s.cfg.Log.Warn("Reservation patch validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid patch input", map[string]any{"error": err.Error()})
	}

	merged := s.mergePatch(existing, patch)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, id, merged); err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to update reservation", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update reservation", err)
	}

	s.cfg.Log.Info("Reservation updated", "id", id)

	s.dispatcher.Emit(events.Event{
		Name:    events.ReservationUpdated,
		Payload: events.ReservationPayload(merged, state.Name),
	})
	s.emitAvailabilityUpdated(ctx, merged.SpaceID, merged.Date)
	if merged.Date != existing.Date {
		s.emitAvailabilityUpdated(ctx, existing.SpaceID, existing.Date)
	}

	return merged, nil
}

func (s *reservationService) Delete(ctx context.Context, actor model.Actor, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.CanManage(existing.UserID) {
		return apperrors.Forbidden("Only the reservation owner or an administrator may delete it")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to delete reservation", "id", id, "error", err)
		return apperrors.Internal("Failed to delete reservation", err)
	}

	s.cfg.Log.Info("Reservation deleted", "id", id)

	s.dispatcher.Emit(events.Event{
		Name:    events.ReservationCancelled,
		Payload: events.DeletionPayload(existing),
	})
	s.emitAvailabilityUpdated(ctx, existing.SpaceID, existing.Date)
	return nil
}

// --- Helpers ---

func (s *reservationService) sanitize(r *model.Reservation) {
	r.Title = sanitizer.SanitizeTitle(r.Title)
	r.Description = sanitizer.SanitizeText(r.Description)
	r.BlockReason = sanitizer.SanitizeText(r.BlockReason)
}

func (s *reservationService) validate(r *model.Reservation) error {
	if err := s.validator.Validate(r); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *reservationService) mergePatch(existing *model.Reservation, patch *model.ReservationPatch) *model.Reservation {
	merged := *existing

	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.EventTypeID != nil {
		merged.EventTypeID = *patch.EventTypeID
	}
	if patch.Date != nil {
		merged.Date = *patch.Date
	}
	if patch.StartTime != nil {
		merged.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		merged.EndTime = *patch.EndTime
	}
	if patch.AttendeeEstimate != nil {
		merged.AttendeeEstimate = patch.AttendeeEstimate
	}

	return &merged
}

// emitAvailabilityUpdated recomputes the full free/occupied picture for the
// (space, date) pair and publishes it, pending reservations included. The
// event is best effort: a failed recomputation is logged, not surfaced.
func (s *reservationService) emitAvailabilityUpdated(ctx context.Context, spaceID, date string) {
	availability, err := s.Availability(ctx, spaceID, date, true)
	if err != nil {
		s.cfg.Log.Warn("Failed to recompute availability for event",
			"space_id", spaceID,
			"date", date,
			"error", err,
		)
		return
	}
	s.dispatcher.Emit(events.Event{
		Name:    events.AvailabilityUpdated,
		Payload: events.AvailabilityPayload(availability),
	})
}

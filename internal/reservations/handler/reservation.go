package handler

import (
	"encoding/json"
	"net/http"

	"reservas/internal/reservations/repository"
	"reservas/internal/reservations/service"
	apperrors "reservas/pkg/errors"
	httputil "reservas/pkg/http"
	"reservas/pkg/logger"
	"reservas/pkg/middleware"
	"reservas/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := h.requireActor(w, r, "Create")
	if !ok {
		return
	}

	var reservation model.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), actor, &reservation); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	reservation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	filter := repository.ListFilter{
		UserID:  query.Get("user_id"),
		SpaceID: query.Get("space_id"),
		StateID: query.Get("state_id"),
	}

	reservations, total, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) Patch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.requireActor(w, r, "Patch")
	if !ok {
		return
	}
	id := ps.ByName("id")

	var patch model.ReservationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Patch", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	updated, err := h.service.Patch(r.Context(), actor, id, &patch)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Patch", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "Patch", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) ChangeState(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.requireActor(w, r, "ChangeState")
	if !ok {
		return
	}
	id := ps.ByName("id")

	var change model.StateChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "ChangeState", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	if change.StateID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("state_id is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ChangeState", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.service.ChangeState(r.Context(), actor, id, change.StateID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ChangeState", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "ChangeState", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.requireActor(w, r, "Delete")
	if !ok {
		return
	}
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	spaceID := query.Get("space_id")
	date := query.Get("date")

	if spaceID == "" || date == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Both 'space_id' and 'date' query parameters are required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Availability", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	// Pending reservations block the calendar unless the caller opts out.
	includePending := query.Get("include_pending") != "false"

	result, err := h.service.Availability(r.Context(), spaceID, date, includePending)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) requireActor(w http.ResponseWriter, r *http.Request, op string) (model.Actor, bool) {
	actor := middleware.ActorFromContext(r.Context())
	if actor.UserID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("X-User-ID header is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", op, "operation", "WriteError", "error", writeErr)
		}
		return model.Actor{}, false
	}
	return actor, true
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.GetAll)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PATCH("/api/v1/reservations/id/:id", h.Patch)
	router.PATCH("/api/v1/reservations/id/:id/state", h.ChangeState)
	router.DELETE("/api/v1/reservations/id/:id", h.Delete)
	router.GET("/api/v1/availability", h.Availability)
}

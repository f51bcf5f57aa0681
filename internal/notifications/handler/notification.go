package handler

import (
	"net/http"

	"reservas/internal/notifications/service"
	apperrors "reservas/pkg/errors"
	httputil "reservas/pkg/http"
	"reservas/pkg/logger"
	"reservas/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type NotificationHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

func NewNotificationHandler(service service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor := middleware.ActorFromContext(r.Context())
	if actor.UserID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("X-User-ID header is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	unreadOnly := query.Get("unread") == "true"

	// Admins may inspect another user's feed; everyone else sees their own.
	userID := actor.UserID
	if requested := query.Get("user_id"); requested != "" {
		if !actor.CanManage(requested) {
			if writeErr := httputil.WriteError(w, apperrors.Forbidden("Cannot list notifications for another user")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		userID = requested
	}

	notifications, total, err := h.service.ListForUser(r.Context(), userID, unreadOnly, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, notifications, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := middleware.ActorFromContext(r.Context())
	if actor.UserID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("X-User-ID header is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "MarkRead", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.MarkRead(r.Context(), actor, ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "MarkRead", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/notifications", h.List)
	router.PATCH("/api/v1/notifications/id/:id/read", h.MarkRead)
}

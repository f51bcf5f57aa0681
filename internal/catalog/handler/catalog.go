package handler

import (
	"encoding/json"
	"net/http"

	"reservas/internal/catalog/service"
	apperrors "reservas/pkg/errors"
	httputil "reservas/pkg/http"
	"reservas/pkg/logger"
	"reservas/pkg/middleware"
	"reservas/pkg/model"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
)

type CatalogHandler struct {
	service  service.CatalogService
	validate *validator.Validate
	log      *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

func (h *CatalogHandler) CreateSpace(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor := middleware.ActorFromContext(r.Context())
	if !actor.IsAdmin() {
		if writeErr := httputil.WriteError(w, apperrors.Forbidden("Only administrators may create spaces")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateSpace", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var space model.Space
	if err := json.NewDecoder(r.Body).Decode(&space); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateSpace", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.validate.Struct(&space); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.Validation("Space validation failed", map[string]any{"error": err.Error()})); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateSpace", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	created, err := h.service.CreateSpace(r.Context(), &space)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateSpace", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateSpace", "operation", "WriteCreated", "error", err)
	}
}

func (h *CatalogHandler) GetSpace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	space, err := h.service.GetSpace(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSpace", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, space); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSpace", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) ListSpaces(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSpaces", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	spaces, total, err := h.service.ListSpaces(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSpaces", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, spaces, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListSpaces", "operation", "WritePaginated", "error", err)
	}
}

func (h *CatalogHandler) ListStates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	states, err := h.service.ListStates(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListStates", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, states); err != nil {
		h.log.Error("failed to write success response", "handler", "ListStates", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/spaces", h.CreateSpace)
	router.GET("/api/v1/spaces", h.ListSpaces)
	router.GET("/api/v1/spaces/id/:id", h.GetSpace)
	router.GET("/api/v1/states", h.ListStates)
}

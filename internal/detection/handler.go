package detection

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/pkg/handlers"
	"github.com/barometerhq/barometer/pkg/routes"
)

// Handler provides HTTP endpoints for detection operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "detection"),
	}
}

// Routes returns the route group definition for detection endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/detection",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{ownerId}", Handler: h.Detect},
			{Method: "GET", Pattern: "/{ownerId}/readiness", Handler: h.Readiness},
		},
	}
}

// Detect runs the detection engine for the owner in the path.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(r.PathValue("ownerId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidOwner)
		return
	}

	result, err := h.sys.Detect(r.Context(), ownerID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Readiness reports whether the owner's history can support insights.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(r.PathValue("ownerId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidOwner)
		return
	}

	readiness, err := h.sys.Readiness(r.Context(), ownerID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, readiness)
}

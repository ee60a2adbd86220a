package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tixmojo-server/internal/catalog"
	"tixmojo-server/internal/logger"
	"tixmojo-server/internal/utils"
)

type Handler struct {
	service *catalog.Service
	logger  *logger.Logger
}

func NewHandler(service *catalog.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterEventRoutes mounts the event endpoints on r.
func (h *Handler) RegisterEventRoutes(r chi.Router) {
	r.Get("/", h.EventsByLocation)
	r.Get("/spotlight", h.SpotlightEvents)
	r.Get("/flyers", h.Flyers)
	r.Get("/{eventId}", h.Event)
}

// RegisterOrganizerRoutes mounts the organizer endpoints on r.
func (h *Handler) RegisterOrganizerRoutes(r chi.Router) {
	r.Get("/{organizerId}", h.Organizer)
}

func (h *Handler) internalError(w http.ResponseWriter, operation string, err error) {
	h.logger.Error("CATALOG", fmt.Sprintf("%s failed: %v", operation, err))
	utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error", nil)
}

func (h *Handler) EventsByLocation(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")

	events, err := h.service.EventsByLocation(r.Context(), location)
	if err != nil {
		h.internalError(w, "events by location", err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, events)
}

func (h *Handler) SpotlightEvents(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")

	events, err := h.service.SpotlightEvents(r.Context(), location)
	if err != nil {
		h.internalError(w, "spotlight events", err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, events)
}

func (h *Handler) Flyers(w http.ResponseWriter, r *http.Request) {
	flyers, err := h.service.Flyers(r.Context())
	if err != nil {
		h.internalError(w, "flyers", err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, flyers)
}

func (h *Handler) Event(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.Event(r.Context(), chi.URLParam(r, "eventId"))
	if errors.Is(err, catalog.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	if err != nil {
		h.internalError(w, "event", err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, event)
}

func (h *Handler) Organizer(w http.ResponseWriter, r *http.Request) {
	organizer, err := h.service.Organizer(r.Context(), chi.URLParam(r, "organizerId"))
	if errors.Is(err, catalog.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Organizer not found", nil)
		return
	}
	if err != nil {
		h.internalError(w, "organizer", err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, organizer)
}

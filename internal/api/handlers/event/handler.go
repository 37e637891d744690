package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/event-reminder/internal/api/dto"
	"github.com/aliskhannn/event-reminder/internal/api/respond"
	"github.com/aliskhannn/event-reminder/internal/metrics"
	"github.com/aliskhannn/event-reminder/internal/model"
	eventsvc "github.com/aliskhannn/event-reminder/internal/service/event"
	"github.com/aliskhannn/event-reminder/internal/worker"
)

// eventStore is the part of the event store the handler depends on.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/event/mock.go -package=mocks
type eventStore interface {
	Submit(ctx context.Context, f *eventsvc.Form) (model.Event, error)
	Events() []model.Event
	Get(id string) (model.Event, error)
	Remove(ctx context.Context, id string) error
}

// reminderLookup exposes the state of scheduled reminders.
type reminderLookup interface {
	Get(handle string) (worker.Reminder, error)
}

// Handler handles HTTP requests related to events.
//
// It provides endpoints for adding events, listing them, looking one up,
// removing one and checking the state of its reminder.
type Handler struct {
	store     eventStore
	reminders reminderLookup
	validator *validator.Validate
}

// NewHandler creates a new Handler instance.
func NewHandler(s eventStore, r reminderLookup, v *validator.Validate) *Handler {
	return &Handler{store: s, reminders: r, validator: v}
}

// Create handles POST requests that add an event from the two form inputs.
//
// Validation failures are answered with 400 and the alert the user should see.
func (h *Handler) Create(c *ginext.Context) {
	var req dto.CreateRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		metrics.Rejections.WithLabelValues("missing_field").Inc()
		h.alert(c, eventsvc.ErrMissingField)
		return
	}

	form := eventsvc.Form{Name: req.Name, Reminder: req.Reminder}

	ev, err := h.store.Submit(c.Request.Context(), &form)
	if err != nil {
		if eventsvc.IsValidation(err) {
			zlog.Logger.Warn().Err(err).Msg("event rejected")
			h.alert(c, err)
			return
		}

		zlog.Logger.Error().Err(err).Str("name", req.Name).Msg("failed to add event")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.Created(c.Writer, ev)
}

// List handles GET requests for the whole collection.
func (h *Handler) List(c *ginext.Context) {
	respond.OK(c.Writer, h.store.Events())
}

// Get handles GET requests for a single event.
func (h *Handler) Get(c *ginext.Context) {
	id := c.Param("id")
	if id == "" {
		zlog.Logger.Warn().Msg("missing id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing id"))
		return
	}

	ev, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, eventsvc.ErrEventNotFound) {
			zlog.Logger.Warn().Str("id", id).Msg("event not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("event not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id).Msg("failed to get event")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, ev)
}

// Remove handles DELETE requests. Removing an unknown id succeeds.
func (h *Handler) Remove(c *ginext.Context) {
	id := c.Param("id")
	if id == "" {
		zlog.Logger.Warn().Msg("missing id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing id"))
		return
	}

	if err := h.store.Remove(c.Request.Context(), id); err != nil {
		zlog.Logger.Error().Err(err).Str("id", id).Msg("failed to remove event")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, "event removed")
}

// GetReminder handles GET requests for the state of a scheduled reminder.
func (h *Handler) GetReminder(c *ginext.Context) {
	handle := c.Param("handle")

	r, err := h.reminders.Get(handle)
	if err != nil {
		if errors.Is(err, worker.ErrReminderNotFound) {
			zlog.Logger.Warn().Str("handle", handle).Msg("reminder not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("reminder not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("handle", handle).Msg("failed to get reminder")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, r)
}

func (h *Handler) alert(c *ginext.Context, err error) {
	title, message, _ := eventsvc.Alert(err)
	respond.Alert(c.Writer, http.StatusBadRequest, title, message)
}

package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"eventease/internal/auth"
	"eventease/internal/errors"
	"eventease/internal/ical"
	"eventease/internal/model"
	"eventease/internal/service"
)

// EventHandler handles event CRUD endpoints.
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest represents an event creation request.
type CreateEventRequest struct {
	Title        string             `json:"title" validate:"required"`
	Description  string             `json:"description"`
	Location     string             `json:"location" validate:"required"`
	StartDate    time.Time          `json:"startDate" validate:"required"`
	EndDate      *time.Time         `json:"endDate"`
	IsPublic     *bool              `json:"isPublic"`
	MaxAttendees *int               `json:"maxAttendees" validate:"omitempty,min=1"`
	CustomFields model.CustomFields `json:"customFields"`
}

// UpdateEventRequest represents a partial event update; absent fields are
// left unchanged.
type UpdateEventRequest struct {
	Title        *string            `json:"title"`
	Description  *string            `json:"description"`
	Location     *string            `json:"location"`
	StartDate    *time.Time         `json:"startDate"`
	EndDate      *time.Time         `json:"endDate"`
	IsPublic     *bool              `json:"isPublic"`
	MaxAttendees *int               `json:"maxAttendees" validate:"omitempty,min=1"`
	CustomFields model.CustomFields `json:"customFields"`
}

// parseEventID reads the path parameter. Malformed IDs answer the same
// not-found as missing events so nothing leaks about what exists.
func parseEventID(c echo.Context) (uuid.UUID, *errors.HTTPError) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.MapErrorToHTTP(errors.ErrEventNotFound)
	}
	return id, nil
}

// CreateEvent godoc
// @Summary Create a new event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEventRequest true "Event data"
// @Success 201 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity := auth.IdentityFrom(c)

	event, err := h.eventService.Create(c.Request().Context(), identity.UserID, service.CreateEventInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsPublic:     req.IsPublic,
		MaxAttendees: req.MaxAttendees,
		CustomFields: req.CustomFields,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List the caller's events with RSVP counts
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Event
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events [get]
func (h *EventHandler) ListEvents(c echo.Context) error {
	identity := auth.IdentityFrom(c)

	events, err := h.eventService.ListForCreator(c.Request().Context(), identity.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get one event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} model.Event
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, httpErr := parseEventID(c)
	if httpErr != nil {
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	event, err := h.eventService.Get(c.Request().Context(), id, auth.IdentityFrom(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update an event the caller owns
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body UpdateEventRequest true "Fields to update"
// @Success 200 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, httpErr := parseEventID(c)
	if httpErr != nil {
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.Update(c.Request().Context(), id, auth.IdentityFrom(c), service.UpdateEventInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsPublic:     req.IsPublic,
		MaxAttendees: req.MaxAttendees,
		CustomFields: req.CustomFields,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event the caller owns
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, httpErr := parseEventID(c)
	if httpErr != nil {
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if err := h.eventService.Delete(c.Request().Context(), id, auth.IdentityFrom(c)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Event deleted successfully",
	})
}

// DownloadCalendar godoc
// @Summary Download the event as an iCalendar file
// @Tags events
// @Produce plain
// @Param id path string true "Event ID"
// @Success 200 {string} string "text/calendar document"
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events/{id}/calendar [get]
func (h *EventHandler) DownloadCalendar(c echo.Context) error {
	id, httpErr := parseEventID(c)
	if httpErr != nil {
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	event, err := h.eventService.Get(c.Request().Context(), id, auth.IdentityFrom(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+ical.Filename(event)+`"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(ical.Render(event)))
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"eventease/internal/errors"
	"eventease/internal/service"
)

// RSVPHandler handles public RSVP submission.
type RSVPHandler struct {
	rsvpService service.RSVPService
}

// NewRSVPHandler creates a new RSVP handler.
func NewRSVPHandler(rsvpService service.RSVPService) *RSVPHandler {
	return &RSVPHandler{rsvpService: rsvpService}
}

// SubmitRSVPRequest represents an RSVP submission. Required-field and email
// checks live in the admission pipeline so the caller sees pipeline-ordered
// error messages, not validator output.
type SubmitRSVPRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// RSVPView is the subset of the created RSVP echoed to the attendee. Phone
// and message are accepted but not echoed back.
type RSVPView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmitRSVPResponse represents a successful admission.
type SubmitRSVPResponse struct {
	Message string   `json:"message"`
	RSVP    RSVPView `json:"rsvp"`
}

// SubmitRSVP godoc
// @Summary RSVP to a public event
// @Tags rsvps
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body SubmitRSVPRequest true "Attendee data"
// @Success 201 {object} SubmitRSVPResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events/{id}/rsvp [post]
func (h *RSVPHandler) SubmitRSVP(c echo.Context) error {
	id, httpErr := parseEventID(c)
	if httpErr != nil {
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req SubmitRSVPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rsvp, err := h.rsvpService.Admit(c.Request().Context(), id, service.Attendee{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, SubmitRSVPResponse{
		Message: "RSVP submitted successfully",
		RSVP: RSVPView{
			ID:        rsvp.ID.String(),
			Name:      rsvp.Name,
			Email:     rsvp.Email,
			Status:    string(rsvp.Status),
			CreatedAt: rsvp.CreatedAt,
		},
	})
}

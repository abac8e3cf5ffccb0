package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"unihub/internal/middleware"
	"unihub/internal/model"
	"unihub/internal/service"
)

// EventHandler serves events, attendance and registration forms.
type EventHandler struct {
	svc service.EventService
}

// NewEventHandler creates an event handler.
func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// QuestionRequest is one registration question.
type QuestionRequest struct {
	QuestionText string             `json:"questionText" validate:"required,max=500"`
	QuestionType model.QuestionType `json:"questionType" validate:"required,oneof=TEXT BOOLEAN PHONE EMAIL"`
}

// EventRequest is the body of create and update. Questions are ignored on update.
type EventRequest struct {
	Description string            `json:"description" validate:"required"`
	Location    string            `json:"location"`
	EventDate   time.Time         `json:"eventDate" validate:"required"`
	PictureURL  string            `json:"pictureUrl" validate:"omitempty,url"`
	Questions   []QuestionRequest `json:"questions" validate:"dive"`
}

func (r EventRequest) input() service.EventInput {
	in := service.EventInput{
		Description: r.Description,
		Location:    r.Location,
		EventDate:   r.EventDate,
		PictureURL:  r.PictureURL,
	}
	for _, q := range r.Questions {
		in.Questions = append(in.Questions, service.QuestionInput{QuestionText: q.QuestionText, QuestionType: q.QuestionType})
	}
	return in
}

// SubmitFormRequest carries one answer per registration question.
type SubmitFormRequest struct {
	Answers []service.AnswerInput `json:"answers" validate:"required"`
}

func (h *EventHandler) list(c echo.Context, fn func() ([]model.EventSummary, error)) error {
	events, err := fn()
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, events)
}

// ListEvents godoc
// @Summary List events
// @Tags events
// @Produce json
// @Success 200 {array} model.EventSummary
// @Security BearerAuth
// @Router /events [get]
func (h *EventHandler) ListEvents(c echo.Context) error {
	return h.list(c, func() ([]model.EventSummary, error) { return h.svc.ListEvents(ctxOf(c)) })
}

// ListUpcoming godoc
// @Summary Upcoming events, soonest first
// @Tags events
// @Produce json
// @Success 200 {array} model.EventSummary
// @Security BearerAuth
// @Router /events/upcoming [get]
func (h *EventHandler) ListUpcoming(c echo.Context) error {
	return h.list(c, func() ([]model.EventSummary, error) { return h.svc.ListUpcoming(ctxOf(c)) })
}

// ListPast godoc
// @Summary Past events, most recent first
// @Tags events
// @Produce json
// @Success 200 {array} model.EventSummary
// @Security BearerAuth
// @Router /events/past [get]
func (h *EventHandler) ListPast(c echo.Context) error {
	return h.list(c, func() ([]model.EventSummary, error) { return h.svc.ListPast(ctxOf(c)) })
}

// GetEvent godoc
// @Summary Get event by id
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} model.EventDetail
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	event, err := h.svc.GetEvent(ctxOf(c), id, middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create an event in a club
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Club ID"
// @Param request body EventRequest true "Event"
// @Success 201 {object} model.EventDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/events [post]
func (h *EventHandler) CreateEvent(c echo.Context) error {
	clubID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	event, err := h.svc.CreateEvent(ctxOf(c), clubID, middleware.UserID(c), req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body EventRequest true "Event"
// @Success 200 {object} model.EventDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	event, err := h.svc.UpdateEvent(ctxOf(c), id, middleware.UserID(c), req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteEvent(ctxOf(c), id, middleware.UserID(c)); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "event deleted"})
}

// Attend godoc
// @Summary Attend an event without a registration form
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} model.EventDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /events/{id}/attend [post]
func (h *EventHandler) Attend(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	event, err := h.svc.Attend(ctxOf(c), id, middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, event)
}

// SubmitForm godoc
// @Summary Register for an event by answering its form
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body SubmitFormRequest true "Answers"
// @Success 200 {object} model.EventDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /events/{id}/submit-form [post]
func (h *EventHandler) SubmitForm(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req SubmitFormRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	event, err := h.svc.SubmitForm(ctxOf(c), id, middleware.UserID(c), req.Answers)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, event)
}

// Leave godoc
// @Summary Cancel own attendance
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /events/{id}/leave [delete]
func (h *EventHandler) Leave(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Leave(ctxOf(c), id, middleware.UserID(c)); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "attendance cancelled"})
}

// RemoveAttendee godoc
// @Summary Remove an attendee
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Param userId path int true "Attendee ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /events/{id}/attendees/{userId} [delete]
func (h *EventHandler) RemoveAttendee(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	target, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	if err := h.svc.RemoveAttendee(ctxOf(c), id, middleware.UserID(c), target); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "attendee removed"})
}

// Submissions godoc
// @Summary Registration form answers grouped by question
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {array} model.SubmissionResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /events/{id}/submissions [get]
func (h *EventHandler) Submissions(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	subs, err := h.svc.Submissions(ctxOf(c), id, middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, subs)
}

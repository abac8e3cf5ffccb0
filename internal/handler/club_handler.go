package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"unihub/internal/middleware"
	"unihub/internal/repository"
	"unihub/internal/service"
)

// ClubHandler serves club CRUD, search, discovery and audit logs.
type ClubHandler struct {
	svc service.ClubService
}

// NewClubHandler creates a club handler.
func NewClubHandler(svc service.ClubService) *ClubHandler {
	return &ClubHandler{svc: svc}
}

// ClubRequest is the body of create and update. On update a missing or null
// profilePictureUrl resets the picture to the default.
type ClubRequest struct {
	Name              string  `json:"name" validate:"required,max=255"`
	ShortName         string  `json:"shortName" validate:"required,max=50"`
	Description       string  `json:"description" validate:"required"`
	University        string  `json:"university" validate:"max=255"`
	Faculty           string  `json:"faculty" validate:"max=255"`
	Department        string  `json:"department" validate:"max=255"`
	ProfilePictureURL *string `json:"profilePictureUrl"`
}

func (r ClubRequest) input() service.ClubInput {
	return service.ClubInput{
		Name:              r.Name,
		ShortName:         r.ShortName,
		Description:       r.Description,
		University:        r.University,
		Faculty:           r.Faculty,
		Department:        r.Department,
		ProfilePictureURL: r.ProfilePictureURL,
	}
}

// ListClubs godoc
// @Summary List clubs
// @Tags clubs
// @Produce json
// @Success 200 {array} model.ClubResponse
// @Security BearerAuth
// @Router /clubs [get]
func (h *ClubHandler) ListClubs(c echo.Context) error {
	clubs, err := h.svc.ListClubs(ctxOf(c), middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, clubs)
}

// GetClub godoc
// @Summary Get club by id
// @Tags clubs
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {object} model.ClubResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id} [get]
func (h *ClubHandler) GetClub(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	club, err := h.svc.GetClub(ctxOf(c), id, middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, club)
}

// CreateClub godoc
// @Summary Create a club
// @Description The caller becomes its OWNER. Requires a verified email.
// @Tags clubs
// @Accept json
// @Produce json
// @Param request body ClubRequest true "Club"
// @Success 201 {object} model.ClubResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs [post]
func (h *ClubHandler) CreateClub(c echo.Context) error {
	var req ClubRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	club, err := h.svc.CreateClub(ctxOf(c), middleware.UserID(c), req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, club)
}

// UpdateClub godoc
// @Summary Update a club
// @Tags clubs
// @Accept json
// @Produce json
// @Param id path int true "Club ID"
// @Param request body ClubRequest true "Club"
// @Success 200 {object} model.ClubResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id} [put]
func (h *ClubHandler) UpdateClub(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req ClubRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	club, err := h.svc.UpdateClub(ctxOf(c), id, middleware.UserID(c), req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, club)
}

// DeleteClub godoc
// @Summary Delete a club
// @Tags clubs
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id} [delete]
func (h *ClubHandler) DeleteClub(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteClub(ctxOf(c), id, middleware.UserID(c)); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "club deleted"})
}

// SearchClubs godoc
// @Summary Search clubs by name or short name
// @Tags clubs
// @Produce json
// @Param term query string false "Search term"
// @Success 200 {array} model.ClubSummary
// @Security BearerAuth
// @Router /clubs/search [get]
func (h *ClubHandler) SearchClubs(c echo.Context) error {
	clubs, err := h.svc.SearchClubs(ctxOf(c), c.QueryParam("term"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, clubs)
}

// Discover godoc
// @Summary Discover clubs
// @Description Top clubs by members, by events, and a random pick, narrowed by university, faculty and department.
// @Tags clubs
// @Produce json
// @Param university query string false "University"
// @Param faculty query string false "Faculty"
// @Param department query string false "Department"
// @Success 200 {object} model.DiscoverResponse
// @Security BearerAuth
// @Router /clubs/discover [get]
func (h *ClubHandler) Discover(c echo.Context) error {
	resp, err := h.svc.Discover(ctxOf(c), repository.ClubFilter{
		University: c.QueryParam("university"),
		Faculty:    c.QueryParam("faculty"),
		Department: c.QueryParam("department"),
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListLogs godoc
// @Summary Club audit log
// @Tags clubs
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {array} model.ClubLogResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/logs [get]
func (h *ClubHandler) ListLogs(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	logs, err := h.svc.ListLogs(ctxOf(c), id, middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, logs)
}

// DeleteLog godoc
// @Summary Delete an audit log entry
// @Tags clubs
// @Produce json
// @Param id path int true "Club ID"
// @Param logId path int true "Log ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/logs/{logId} [delete]
func (h *ClubHandler) DeleteLog(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	logID, err := paramID(c, "logId")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteLog(ctxOf(c), id, logID, middleware.UserID(c)); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "log deleted"})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"unihub/internal/middleware"
	"unihub/internal/service"
)

// UserHandler bundles HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest edits the caller's profile. Sending
// "profilePictureUrl": null resets the picture to the default one.
type UpdateProfileRequest struct {
	Name              string         `json:"name" validate:"required,min=2"`
	Surname           string         `json:"surname" validate:"required,min=2"`
	ProfilePictureURL OptionalString `json:"profilePictureUrl" swaggertype:"string"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} model.UserSummary
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(ctxOf(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// SearchUsers godoc
// @Summary Search users by name or surname
// @Tags users
// @Produce json
// @Param name query string false "Name fragment"
// @Success 200 {array} model.UserSummary
// @Security BearerAuth
// @Router /users/search [get]
func (h *UserHandler) SearchUsers(c echo.Context) error {
	users, err := h.svc.SearchUsers(ctxOf(c), c.QueryParam("name"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(ctxOf(c), id, middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Me godoc
// @Summary Current user's profile
// @Tags users
// @Produce json
// @Success 200 {object} model.UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	uid := middleware.UserID(c)
	user, err := h.svc.GetUser(ctxOf(c), uid, uid)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.svc.UpdateProfile(ctxOf(c), middleware.UserID(c), service.ProfileUpdate{
		Name:       req.Name,
		Surname:    req.Surname,
		PictureSet: req.ProfilePictureURL.Set,
		PictureURL: req.ProfilePictureURL.String(),
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteMe godoc
// @Summary Delete current user's account
// @Tags users
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/me [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	if err := h.svc.DeleteAccount(ctxOf(c), middleware.UserID(c)); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "account deleted"})
}

package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"unihub/internal/middleware"
	"unihub/internal/service"
)

// MembershipHandler serves the join/approve/role lifecycle of club members.
type MembershipHandler struct {
	svc service.MembershipService
}

// NewMembershipHandler creates a membership handler.
func NewMembershipHandler(svc service.MembershipService) *MembershipHandler {
	return &MembershipHandler{svc: svc}
}

// NotificationsRequest toggles the caller's email notifications for a club.
// Both flags are required.
type NotificationsRequest struct {
	EventNotificationsEnabled *bool `json:"eventNotificationsEnabled" validate:"required"`
	PostNotificationsEnabled  *bool `json:"postNotificationsEnabled" validate:"required"`
}

type targetAction func(ctx context.Context, clubID, actorID, targetID uint) error

// onTarget runs fn for the {id} club and {userId} member.
func onTarget(c echo.Context, fn targetAction, message string) error {
	clubID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	targetID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	if err := fn(ctxOf(c), clubID, middleware.UserID(c), targetID); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// Join godoc
// @Summary Request to join a club
// @Tags memberships
// @Produce json
// @Param id path int true "Club ID"
// @Success 201 {object} model.CurrentUserMembership
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/join [post]
func (h *MembershipHandler) Join(c echo.Context) error {
	clubID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.svc.Join(ctxOf(c), clubID, middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

// Withdraw godoc
// @Summary Withdraw a pending join request
// @Tags memberships
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/join [delete]
func (h *MembershipHandler) Withdraw(c echo.Context) error {
	clubID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Withdraw(ctxOf(c), clubID, middleware.UserID(c)); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "join request withdrawn"})
}

// ListPending godoc
// @Summary Pending join requests
// @Tags memberships
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {array} model.MemberInClub
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/pending-members [get]
func (h *MembershipHandler) ListPending(c echo.Context) error {
	clubID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	members, err := h.svc.ListPending(ctxOf(c), clubID, middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, members)
}

// Approve godoc
// @Summary Approve a join request
// @Tags memberships
// @Produce json
// @Param id path int true "Club ID"
// @Param userId path int true "Requesting user ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/requests/{userId}/approve [post]
func (h *MembershipHandler) Approve(c echo.Context) error {
	return onTarget(c, h.svc.Approve, "request approved")
}

// Reject godoc
// @Summary Reject a join request
// @Tags memberships
// @Produce json
// @Param id path int true "Club ID"
// @Param userId path int true "Requesting user ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/requests/{userId}/reject [post]
func (h *MembershipHandler) Reject(c echo.Context) error {
	return onTarget(c, h.svc.Reject, "request rejected")
}

// Remove godoc
// @Summary Remove a member
// @Tags memberships
// @Produce json
// @Param id path int true "Club ID"
// @Param userId path int true "Member ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/members/{userId} [delete]
func (h *MembershipHandler) Remove(c echo.Context) error {
	return onTarget(c, h.svc.Remove, "member removed")
}

// Promote godoc
// @Summary Promote a member to manager
// @Tags memberships
// @Produce json
// @Param id path int true "Club ID"
// @Param userId path int true "Member ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/members/{userId}/promote [post]
func (h *MembershipHandler) Promote(c echo.Context) error {
	return onTarget(c, h.svc.Promote, "member promoted")
}

// Demote godoc
// @Summary Demote a manager to member
// @Tags memberships
// @Produce json
// @Param id path int true "Club ID"
// @Param userId path int true "Manager ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/members/{userId}/demote [post]
func (h *MembershipHandler) Demote(c echo.Context) error {
	return onTarget(c, h.svc.Demote, "manager demoted")
}

// TransferOwnership godoc
// @Summary Transfer club ownership
// @Description The target becomes OWNER and the caller is demoted to MANAGER.
// @Tags memberships
// @Produce json
// @Param id path int true "Club ID"
// @Param userId path int true "New owner ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/members/{userId}/transfer-ownership [post]
func (h *MembershipHandler) TransferOwnership(c echo.Context) error {
	return onTarget(c, h.svc.TransferOwnership, "ownership transferred")
}

// Leave godoc
// @Summary Leave a club
// @Tags memberships
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/leave [delete]
func (h *MembershipHandler) Leave(c echo.Context) error {
	clubID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Leave(ctxOf(c), clubID, middleware.UserID(c)); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "left club"})
}

// UpdateNotifications godoc
// @Summary Update notification preferences for a club
// @Tags memberships
// @Accept json
// @Produce json
// @Param id path int true "Club ID"
// @Param request body NotificationsRequest true "Flags"
// @Success 200 {object} model.CurrentUserMembership
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/notifications [put]
func (h *MembershipHandler) UpdateNotifications(c echo.Context) error {
	clubID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req NotificationsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	m, err := h.svc.UpdateNotifications(ctxOf(c), clubID, middleware.UserID(c),
		*req.EventNotificationsEnabled, *req.PostNotificationsEnabled)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, m)
}

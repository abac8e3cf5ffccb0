package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"unihub/internal/middleware"
	"unihub/internal/service"
)

// FeedHandler serves the paged home feeds.
type FeedHandler struct {
	svc service.FeedService
}

// NewFeedHandler creates a feed handler.
func NewFeedHandler(svc service.FeedService) *FeedHandler {
	return &FeedHandler{svc: svc}
}

// FeedRequest holds the paging query parameters.
type FeedRequest struct {
	Page            int  `query:"page" validate:"min=0"`
	Size            int  `query:"size" validate:"min=0,max=50"`
	OnlyMemberClubs bool `query:"onlyMemberClubs"`
}

func (r FeedRequest) query() service.FeedQuery {
	return service.FeedQuery{Page: r.Page, Size: r.Size, OnlyMemberClubs: r.OnlyMemberClubs}
}

// Posts godoc
// @Summary Post feed
// @Description Posts from the caller's clubs first, then from other clubs unless onlyMemberClubs is set.
// @Tags feed
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(10)
// @Param onlyMemberClubs query bool false "Only clubs the caller belongs to" default(false)
// @Success 200 {array} model.PostSummary
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /feed/posts [get]
func (h *FeedHandler) Posts(c echo.Context) error {
	var req FeedRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	posts, err := h.svc.Posts(ctxOf(c), middleware.UserID(c), req.query())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// Events godoc
// @Summary Event feed
// @Description Upcoming events from the caller's clubs first, then from other clubs unless onlyMemberClubs is set.
// @Tags feed
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(10)
// @Param onlyMemberClubs query bool false "Only clubs the caller belongs to" default(false)
// @Success 200 {array} model.EventSummary
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /feed/events [get]
func (h *FeedHandler) Events(c echo.Context) error {
	var req FeedRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	events, err := h.svc.Events(ctxOf(c), middleware.UserID(c), req.query())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, events)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"unihub/internal/middleware"
	"unihub/internal/service"
)

// PostHandler serves club posts and likes.
type PostHandler struct {
	svc service.PostService
}

// NewPostHandler creates a post handler.
func NewPostHandler(svc service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// CreatePostRequest is the body of a new post.
type CreatePostRequest struct {
	Description string   `json:"description" validate:"required"`
	PictureURLs []string `json:"pictureURLs" validate:"max=10,dive,url"`
}

// UpdatePostRequest edits a post. pictureURLs are appended, imagesToDelete
// are removed from the post and from storage.
type UpdatePostRequest struct {
	Description    string   `json:"description" validate:"required"`
	PictureURLs    []string `json:"pictureURLs" validate:"max=10,dive,url"`
	ImagesToDelete []string `json:"imagesToDelete"`
}

// ListPosts godoc
// @Summary List posts
// @Tags posts
// @Produce json
// @Success 200 {array} model.PostSummary
// @Security BearerAuth
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.svc.ListPosts(ctxOf(c), middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost godoc
// @Summary Create a post in a club
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Club ID"
// @Param request body CreatePostRequest true "Post"
// @Success 201 {object} model.PostSummary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /clubs/{id}/posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	clubID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.svc.CreatePost(ctxOf(c), clubID, middleware.UserID(c), service.PostInput{
		Description: req.Description,
		PictureURLs: req.PictureURLs,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary Get post by id
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.PostDetail
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.svc.GetPost(ctxOf(c), id, middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePost godoc
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body UpdatePostRequest true "Changes"
// @Success 200 {object} model.PostDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.svc.UpdatePost(ctxOf(c), id, middleware.UserID(c), service.PostUpdate{
		Description:    req.Description,
		PictureURLs:    req.PictureURLs,
		ImagesToDelete: req.ImagesToDelete,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeletePost(ctxOf(c), id, middleware.UserID(c)); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "post deleted"})
}

// ToggleLike godoc
// @Summary Like or unlike a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.PostSummary
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/toggle-like [post]
func (h *PostHandler) ToggleLike(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.svc.ToggleLike(ctxOf(c), id, middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, post)
}

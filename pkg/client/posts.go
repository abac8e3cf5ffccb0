package client

import (
	"context"
	"net/http"
)

// PostRequest creates a post. Pictures are URLs returned by Upload.
type PostRequest struct {
	Description string   `json:"description"`
	PictureURLs []string `json:"pictureURLs,omitempty"`
}

// PostUpdate appends PictureURLs and removes ImagesToDelete.
type PostUpdate struct {
	Description    string   `json:"description"`
	PictureURLs    []string `json:"pictureURLs,omitempty"`
	ImagesToDelete []string `json:"imagesToDelete,omitempty"`
}

func (c *Client) ListPosts(ctx context.Context) ([]PostSummary, error) {
	var out []PostSummary
	return out, c.call(ctx, http.MethodGet, "/posts", nil, &out)
}

func (c *Client) CreatePost(ctx context.Context, clubID uint, in PostRequest) (*PostSummary, error) {
	var out PostSummary
	if err := c.call(ctx, http.MethodPost, idPath("/clubs/%d/posts", clubID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPost(ctx context.Context, id uint) (*Post, error) {
	var out Post
	if err := c.call(ctx, http.MethodGet, idPath("/posts/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePost(ctx context.Context, id uint, in PostUpdate) (*Post, error) {
	var out Post
	if err := c.call(ctx, http.MethodPut, idPath("/posts/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, idPath("/posts/%d", id), nil, nil)
}

// ToggleLike likes or unlikes a post and returns the updated summary.
func (c *Client) ToggleLike(ctx context.Context, id uint) (*PostSummary, error) {
	var out PostSummary
	if err := c.call(ctx, http.MethodPost, idPath("/posts/%d/toggle-like", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

package client

import (
	"context"
	"net/http"
	"net/url"
)

// ProfileUpdate edits the caller's profile. ResetPicture sends an explicit
// null so the server restores the default picture; otherwise a non-nil
// ProfilePictureURL replaces it and nil leaves it unchanged.
type ProfileUpdate struct {
	Name              string
	Surname           string
	ProfilePictureURL *string
	ResetPicture      bool
}

func (u ProfileUpdate) body() map[string]interface{} {
	body := map[string]interface{}{"name": u.Name, "surname": u.Surname}
	switch {
	case u.ResetPicture:
		body["profilePictureUrl"] = nil
	case u.ProfilePictureURL != nil:
		body["profilePictureUrl"] = *u.ProfilePictureURL
	}
	return body
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	return c.profile(ctx, http.MethodGet, "/users/me", nil)
}

func (c *Client) GetUser(ctx context.Context, id uint) (*Profile, error) {
	return c.profile(ctx, http.MethodGet, idPath("/users/%d", id), nil)
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*Profile, error) {
	return c.profile(ctx, http.MethodPut, "/users/me", in.body())
}

// DeleteAccount removes the caller's account and clears the session.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.call(ctx, http.MethodDelete, "/users/me", nil, nil); err != nil {
		return err
	}
	c.session.Clear()
	return nil
}

func (c *Client) ListUsers(ctx context.Context) ([]UserSummary, error) {
	var out []UserSummary
	return out, c.call(ctx, http.MethodGet, "/users", nil, &out)
}

func (c *Client) SearchUsers(ctx context.Context, name string) ([]UserSummary, error) {
	var out []UserSummary
	return out, c.callQuery(ctx, "/users/search", url.Values{"name": {name}}, &out)
}

func (c *Client) profile(ctx context.Context, method, path string, in interface{}) (*Profile, error) {
	var out Profile
	if err := c.call(ctx, method, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

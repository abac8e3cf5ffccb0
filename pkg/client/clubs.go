package client

import (
	"context"
	"net/http"
	"net/url"
)

// ClubRequest creates or edits a club. A nil ProfilePictureURL keeps the
// default picture on create and resets it on update.
type ClubRequest struct {
	Name              string  `json:"name"`
	ShortName         string  `json:"shortName"`
	Description       string  `json:"description"`
	University        string  `json:"university,omitempty"`
	Faculty           string  `json:"faculty,omitempty"`
	Department        string  `json:"department,omitempty"`
	ProfilePictureURL *string `json:"profilePictureUrl"`
}

// DiscoverFilter narrows discovery to an organisational unit; empty fields match all.
type DiscoverFilter struct {
	University string
	Faculty    string
	Department string
}

func (c *Client) ListClubs(ctx context.Context) ([]Club, error) {
	var out []Club
	return out, c.call(ctx, http.MethodGet, "/clubs", nil, &out)
}

func (c *Client) GetClub(ctx context.Context, id uint) (*Club, error) {
	var out Club
	if err := c.call(ctx, http.MethodGet, idPath("/clubs/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateClub creates a club owned by the caller, who must have verified their email.
func (c *Client) CreateClub(ctx context.Context, in ClubRequest) (*Club, error) {
	var out Club
	if err := c.call(ctx, http.MethodPost, "/clubs", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateClub(ctx context.Context, id uint, in ClubRequest) (*Club, error) {
	var out Club
	if err := c.call(ctx, http.MethodPut, idPath("/clubs/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteClub(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, idPath("/clubs/%d", id), nil, nil)
}

func (c *Client) SearchClubs(ctx context.Context, term string) ([]ClubSummary, error) {
	var out []ClubSummary
	return out, c.callQuery(ctx, "/clubs/search", url.Values{"term": {term}}, &out)
}

func (c *Client) DiscoverClubs(ctx context.Context, f DiscoverFilter) (*Discover, error) {
	q := url.Values{}
	for k, v := range map[string]string{"university": f.University, "faculty": f.Faculty, "department": f.Department} {
		if v != "" {
			q.Set(k, v)
		}
	}
	var out Discover
	if err := c.callQuery(ctx, "/clubs/discover", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClubLogs lists the audit trail, newest first. Managers only.
func (c *Client) ClubLogs(ctx context.Context, clubID uint) ([]ClubLog, error) {
	var out []ClubLog
	return out, c.call(ctx, http.MethodGet, idPath("/clubs/%d/logs", clubID), nil, &out)
}

func (c *Client) DeleteClubLog(ctx context.Context, clubID, logID uint) error {
	return c.call(ctx, http.MethodDelete, idPath("/clubs/%d/logs/%d", clubID, logID), nil, nil)
}

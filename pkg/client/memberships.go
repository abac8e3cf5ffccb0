package client

import (
	"context"
	"net/http"
)

// Join requests membership. The returned membership is PENDING.
func (c *Client) Join(ctx context.Context, clubID uint) (*Membership, error) {
	var out Membership
	if err := c.call(ctx, http.MethodPost, idPath("/clubs/%d/join", clubID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Withdraw cancels the caller's pending join request.
func (c *Client) Withdraw(ctx context.Context, clubID uint) error {
	return c.call(ctx, http.MethodDelete, idPath("/clubs/%d/join", clubID), nil, nil)
}

func (c *Client) PendingMembers(ctx context.Context, clubID uint) ([]MemberInClub, error) {
	var out []MemberInClub
	return out, c.call(ctx, http.MethodGet, idPath("/clubs/%d/pending-members", clubID), nil, &out)
}

func (c *Client) Approve(ctx context.Context, clubID, userID uint) error {
	return c.call(ctx, http.MethodPost, idPath("/clubs/%d/requests/%d/approve", clubID, userID), nil, nil)
}

func (c *Client) Reject(ctx context.Context, clubID, userID uint) error {
	return c.call(ctx, http.MethodPost, idPath("/clubs/%d/requests/%d/reject", clubID, userID), nil, nil)
}

func (c *Client) RemoveMember(ctx context.Context, clubID, userID uint) error {
	return c.call(ctx, http.MethodDelete, idPath("/clubs/%d/members/%d", clubID, userID), nil, nil)
}

func (c *Client) Promote(ctx context.Context, clubID, userID uint) error {
	return c.call(ctx, http.MethodPost, idPath("/clubs/%d/members/%d/promote", clubID, userID), nil, nil)
}

func (c *Client) Demote(ctx context.Context, clubID, userID uint) error {
	return c.call(ctx, http.MethodPost, idPath("/clubs/%d/members/%d/demote", clubID, userID), nil, nil)
}

// TransferOwnership hands the club to userID; the caller becomes a manager.
func (c *Client) TransferOwnership(ctx context.Context, clubID, userID uint) error {
	return c.call(ctx, http.MethodPost, idPath("/clubs/%d/members/%d/transfer-ownership", clubID, userID), nil, nil)
}

// LeaveClub drops the caller's membership. Owners must transfer first.
func (c *Client) LeaveClub(ctx context.Context, clubID uint) error {
	return c.call(ctx, http.MethodDelete, idPath("/clubs/%d/leave", clubID), nil, nil)
}

func (c *Client) UpdateNotifications(ctx context.Context, clubID uint, events, posts bool) (*Membership, error) {
	body := map[string]bool{
		"eventNotificationsEnabled": events,
		"postNotificationsEnabled":  posts,
	}
	var out Membership
	if err := c.call(ctx, http.MethodPut, idPath("/clubs/%d/notifications", clubID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

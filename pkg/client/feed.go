package client

import (
	"context"
	"net/url"
	"strconv"
)

// DefaultPageSize matches the server's default feed page.
const DefaultPageSize = 10

// FeedPage selects a zero-based page of the feed.
type FeedPage struct {
	Page            int
	Size            int
	OnlyMemberClubs bool
}

func (p FeedPage) query() url.Values {
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	return url.Values{
		"page":            {strconv.Itoa(p.Page)},
		"size":            {strconv.Itoa(size)},
		"onlyMemberClubs": {strconv.FormatBool(p.OnlyMemberClubs)},
	}
}

// FeedPosts returns one page of posts, newest first.
func (c *Client) FeedPosts(ctx context.Context, p FeedPage) ([]PostSummary, error) {
	var out []PostSummary
	return out, c.callQuery(ctx, "/feed/posts", p.query(), &out)
}

// FeedEvents returns one page of upcoming events, soonest first.
func (c *Client) FeedEvents(ctx context.Context, p FeedPage) ([]EventSummary, error) {
	var out []EventSummary
	return out, c.callQuery(ctx, "/feed/events", p.query(), &out)
}

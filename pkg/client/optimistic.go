package client

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PostList is a locally held list of posts whose mutations apply
// immediately and roll back when the server refuses them.
type PostList struct {
	c     *Client
	mu    sync.Mutex
	posts []PostSummary
}

// NewPostList wraps posts already fetched from a feed or club page.
func (c *Client) NewPostList(posts []PostSummary) *PostList {
	return &PostList{c: c, posts: append([]PostSummary(nil), posts...)}
}

// Items returns a copy of the current list.
func (l *PostList) Items() []PostSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]PostSummary(nil), l.posts...)
}

// Append adds the next feed page.
func (l *PostList) Append(posts ...PostSummary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.posts = append(l.posts, posts...)
}

func (l *PostList) index(id uint) int {
	for i := range l.posts {
		if l.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// ToggleLike flips the like locally, then adopts the server's counts. On
// failure the previous state is restored.
func (l *PostList) ToggleLike(ctx context.Context, id uint) error {
	l.mu.Lock()
	i := l.index(id)
	if i < 0 {
		l.mu.Unlock()
		return nil
	}
	prev := l.posts[i]
	p := &l.posts[i]
	p.IsLikedByCurrentUser = !p.IsLikedByCurrentUser
	if p.IsLikedByCurrentUser {
		p.LikeCount++
	} else if p.LikeCount > 0 {
		p.LikeCount--
	}
	l.mu.Unlock()

	updated, err := l.c.ToggleLike(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if i = l.index(id); i < 0 {
		return err
	}
	if err != nil {
		l.posts[i] = prev
		return err
	}
	l.posts[i].LikeCount = updated.LikeCount
	l.posts[i].IsLikedByCurrentUser = updated.IsLikedByCurrentUser
	return nil
}

// Remove deletes a post, dropping it from the list first and putting it
// back at the same position if the server refuses.
func (l *PostList) Remove(ctx context.Context, id uint) error {
	l.mu.Lock()
	i := l.index(id)
	if i < 0 {
		l.mu.Unlock()
		return nil
	}
	removed := l.posts[i]
	l.posts = append(l.posts[:i], l.posts[i+1:]...)
	l.mu.Unlock()

	if err := l.c.DeletePost(ctx, id); err != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		if i > len(l.posts) {
			i = len(l.posts)
		}
		l.posts = append(l.posts[:i], append([]PostSummary{removed}, l.posts[i:]...)...)
		return err
	}
	return nil
}

// EventList is the event counterpart of PostList.
type EventList struct {
	c      *Client
	mu     sync.Mutex
	events []EventSummary
}

func (c *Client) NewEventList(events []EventSummary) *EventList {
	return &EventList{c: c, events: append([]EventSummary(nil), events...)}
}

func (l *EventList) Items() []EventSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]EventSummary(nil), l.events...)
}

func (l *EventList) Append(events ...EventSummary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, events...)
}

// Remove deletes an event optimistically.
func (l *EventList) Remove(ctx context.Context, id uint) error {
	l.mu.Lock()
	i := -1
	for j := range l.events {
		if l.events[j].ID == id {
			i = j
			break
		}
	}
	if i < 0 {
		l.mu.Unlock()
		return nil
	}
	removed := l.events[i]
	l.events = append(l.events[:i], l.events[i+1:]...)
	l.mu.Unlock()

	if err := l.c.DeleteEvent(ctx, id); err != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		if i > len(l.events) {
			i = len(l.events)
		}
		l.events = append(l.events[:i], append([]EventSummary{removed}, l.events[i:]...)...)
		return err
	}
	return nil
}

// ClubDashboard is a manager's view of a club: details plus pending requests.
// Every moderation action reloads both from the server.
type ClubDashboard struct {
	c      *Client
	clubID uint

	mu      sync.RWMutex
	club    *Club
	pending []MemberInClub
}

func (c *Client) NewClubDashboard(clubID uint) *ClubDashboard {
	return &ClubDashboard{c: c, clubID: clubID}
}

// Load fetches the club and its pending requests concurrently.
func (d *ClubDashboard) Load(ctx context.Context) error {
	var (
		club    *Club
		pending []MemberInClub
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		club, err = d.c.GetClub(gctx, d.clubID)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = d.c.PendingMembers(gctx, d.clubID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.club, d.pending = club, pending
	return nil
}

// Snapshot returns the last loaded state; club is nil before the first Load.
func (d *ClubDashboard) Snapshot() (*Club, []MemberInClub) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.club, append([]MemberInClub(nil), d.pending...)
}

func (d *ClubDashboard) Approve(ctx context.Context, userID uint) error {
	return d.apply(ctx, func() error { return d.c.Approve(ctx, d.clubID, userID) })
}

func (d *ClubDashboard) Reject(ctx context.Context, userID uint) error {
	return d.apply(ctx, func() error { return d.c.Reject(ctx, d.clubID, userID) })
}

func (d *ClubDashboard) Remove(ctx context.Context, userID uint) error {
	return d.apply(ctx, func() error { return d.c.RemoveMember(ctx, d.clubID, userID) })
}

func (d *ClubDashboard) apply(ctx context.Context, action func() error) error {
	if err := action(); err != nil {
		return err
	}
	return d.Load(ctx)
}

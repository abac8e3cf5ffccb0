package service

import (
	"context"
	"fmt"

	"unihub/internal/model"
	"unihub/internal/repository"
)

const (
	DefaultFeedSize = 10
	MaxFeedSize     = 50
)

// FeedQuery selects one page of a feed.
type FeedQuery struct {
	Page            int
	Size            int
	OnlyMemberClubs bool
}

func (q FeedQuery) normalized() FeedQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultFeedSize
	}
	if q.Size > MaxFeedSize {
		q.Size = MaxFeedSize
	}
	return q
}

// FeedService merges content from the caller's clubs with content from other clubs.
type FeedService interface {
	Posts(ctx context.Context, userID uint, q FeedQuery) ([]model.PostSummary, error)
	Events(ctx context.Context, userID uint, q FeedQuery) ([]model.EventSummary, error)
}

type feedService struct {
	posts       repository.PostRepository
	events      repository.EventRepository
	memberships repository.MembershipRepository
}

// NewFeedService creates a new feed service.
func NewFeedService(posts repository.PostRepository, events repository.EventRepository, memberships repository.MembershipRepository) FeedService {
	return &feedService{posts: posts, events: events, memberships: memberships}
}

// feedSource abstracts the member/other split shared by posts and events.
type feedSource[T any] struct {
	inClubs      func(ctx context.Context, ids []uint, offset, limit int) ([]T, error)
	outsideClubs func(ctx context.Context, ids []uint, offset, limit int) ([]T, error)
	countInClubs func(ctx context.Context, ids []uint) (int64, error)
}

// page returns member-club items first. A short page is topped up with
// items from other clubs, continuing where the previous page stopped.
func page[T any](ctx context.Context, src feedSource[T], clubIDs []uint, q FeedQuery) ([]T, error) {
	offset := q.Page * q.Size
	items, err := src.inClubs(ctx, clubIDs, offset, q.Size)
	if err != nil {
		return nil, fmt.Errorf("member feed: %w", err)
	}
	if q.OnlyMemberClubs || len(items) >= q.Size {
		return items, nil
	}

	total, err := src.countInClubs(ctx, clubIDs)
	if err != nil {
		return nil, fmt.Errorf("count member feed: %w", err)
	}
	otherOffset := offset - int(total)
	if otherOffset < 0 {
		otherOffset = 0
	}
	rest, err := src.outsideClubs(ctx, clubIDs, otherOffset, q.Size-len(items))
	if err != nil {
		return nil, fmt.Errorf("discovery feed: %w", err)
	}
	return append(items, rest...), nil
}

func (s *feedService) Posts(ctx context.Context, userID uint, q FeedQuery) ([]model.PostSummary, error) {
	ids, err := s.memberships.ApprovedClubIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("member clubs: %w", err)
	}
	posts, err := page(ctx, feedSource[model.Post]{
		inClubs:      s.posts.ListInClubs,
		outsideClubs: s.posts.ListOutsideClubs,
		countInClubs: s.posts.CountInClubs,
	}, ids, q.normalized())
	if err != nil {
		return nil, err
	}
	return model.NewPostSummaries(posts, userID), nil
}

func (s *feedService) Events(ctx context.Context, userID uint, q FeedQuery) ([]model.EventSummary, error) {
	ids, err := s.memberships.ApprovedClubIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("member clubs: %w", err)
	}
	events, err := page(ctx, feedSource[model.Event]{
		inClubs:      s.events.ListInClubs,
		outsideClubs: s.events.ListOutsideClubs,
		countInClubs: s.events.CountInClubs,
	}, ids, q.normalized())
	if err != nil {
		return nil, err
	}
	return model.NewEventSummaries(events), nil
}

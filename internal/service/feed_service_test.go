package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unihub/internal/model"
)

func posts(ids ...uint) []model.Post {
	out := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Post{ID: id})
	}
	return out
}

func TestFeedService_Posts(t *testing.T) {
	memberClubs := []uint{1, 2}

	tests := []struct {
		name      string
		query     FeedQuery
		setupMock func(*MockPostRepository)
		want      []uint
	}{
		{
			name:  "full page from member clubs",
			query: FeedQuery{Page: 0, Size: 2},
			setupMock: func(m *MockPostRepository) {
				m.On("ListInClubs", mock.Anything, memberClubs, 0, 2).Return(posts(9, 8), nil)
			},
			want: []uint{9, 8},
		},
		{
			name:  "short page is topped up from other clubs",
			query: FeedQuery{Page: 1, Size: 3},
			setupMock: func(m *MockPostRepository) {
				m.On("ListInClubs", mock.Anything, memberClubs, 3, 3).Return(posts(5), nil)
				m.On("CountInClubs", mock.Anything, memberClubs).Return(int64(4), nil)
				m.On("ListOutsideClubs", mock.Anything, memberClubs, 0, 2).Return(posts(20, 19), nil)
			},
			want: []uint{5, 20, 19},
		},
		{
			name:  "later pages continue through other clubs",
			query: FeedQuery{Page: 2, Size: 3},
			setupMock: func(m *MockPostRepository) {
				m.On("ListInClubs", mock.Anything, memberClubs, 6, 3).Return(posts(), nil)
				m.On("CountInClubs", mock.Anything, memberClubs).Return(int64(4), nil)
				m.On("ListOutsideClubs", mock.Anything, memberClubs, 2, 3).Return(posts(18, 17, 16), nil)
			},
			want: []uint{18, 17, 16},
		},
		{
			name:  "only member clubs",
			query: FeedQuery{Page: 0, Size: 5, OnlyMemberClubs: true},
			setupMock: func(m *MockPostRepository) {
				m.On("ListInClubs", mock.Anything, memberClubs, 0, 5).Return(posts(3), nil)
			},
			want: []uint{3},
		},
		{
			name:  "defaults apply to invalid paging",
			query: FeedQuery{Page: -4, Size: 0},
			setupMock: func(m *MockPostRepository) {
				m.On("ListInClubs", mock.Anything, memberClubs, 0, DefaultFeedSize).Return(posts(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), nil)
			},
			want: []uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(MockPostRepository)
			members := new(MockMembershipRepository)
			members.On("ApprovedClubIDs", mock.Anything, memberID).Return(memberClubs, nil)
			tt.setupMock(postRepo)

			svc := NewFeedService(postRepo, new(MockEventRepository), members)
			got, err := svc.Posts(context.Background(), memberID, tt.query)
			require.NoError(t, err)

			ids := make([]uint, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
			postRepo.AssertExpectations(t)
		})
	}
}

func TestFeedService_Events_NoMemberships(t *testing.T) {
	eventRepo := new(MockEventRepository)
	members := new(MockMembershipRepository)
	members.On("ApprovedClubIDs", mock.Anything, outsider).Return([]uint{}, nil)
	eventRepo.On("ListInClubs", mock.Anything, []uint{}, 0, 10).Return([]model.Event{}, nil)
	eventRepo.On("CountInClubs", mock.Anything, []uint{}).Return(int64(0), nil)
	eventRepo.On("ListOutsideClubs", mock.Anything, []uint{}, 0, 10).Return([]model.Event{{ID: 4, Club: model.Club{Name: "Chess"}}}, nil)

	svc := NewFeedService(new(MockPostRepository), eventRepo, members)
	got, err := svc.Events(context.Background(), outsider, FeedQuery{Size: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Chess", got[0].ClubName)
}

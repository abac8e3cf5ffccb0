package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRole_Rank(t *testing.T) {
	assert.Less(t, RoleMember.Rank(), RoleManager.Rank())
	assert.Less(t, RoleManager.Rank(), RoleOwner.Rank())
	assert.Equal(t, 0, Role("ADMIN").Rank())
	assert.False(t, RoleMember.CanManage())
	assert.True(t, RoleManager.CanManage())
	assert.True(t, RoleOwner.CanManage())
}

func TestMembership_PendingHasNoRights(t *testing.T) {
	pendingOwner := &Membership{Role: RoleOwner, Status: StatusPending}
	assert.False(t, pendingOwner.CanManage())
	assert.False(t, pendingOwner.IsOwner())

	var none *Membership
	assert.False(t, none.IsApproved())
	assert.False(t, none.CanManage())

	manager := &Membership{Role: RoleManager, Status: StatusApproved}
	assert.True(t, manager.CanManage())
	assert.False(t, manager.IsOwner())
}

func TestNewPostSummary(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := &Post{
		ID:          7,
		ClubID:      2,
		CreatorID:   3,
		Description: "hello",
		CreatedAt:   created,
		Club:        Club{ID: 2, Name: "Chess", ProfilePictureURL: "club.webp"},
		Creator:     User{ID: 3, Name: "Ada", Surname: "Lovelace"},
		Images:      []PostImage{{ImageURL: "a.webp"}, {ImageURL: "b.webp"}},
		Likes:       []PostLike{{UserID: 3}, {UserID: 9}},
	}

	s := NewPostSummary(p, 9)
	assert.Equal(t, "Chess", s.ClubName)
	assert.Equal(t, "Ada Lovelace", s.CreatorName)
	assert.Equal(t, []string{"a.webp", "b.webp"}, s.PictureURLs)
	assert.Equal(t, 2, s.LikeCount)
	assert.True(t, s.IsLikedByCurrentUser)
	assert.Equal(t, created, s.CreationDate)

	assert.False(t, NewPostSummary(p, 4).IsLikedByCurrentUser)
}

func TestNewPostSummary_DeletedCreator(t *testing.T) {
	s := NewPostSummary(&Post{CreatorID: 5}, 1)
	assert.Equal(t, DeletedUserName, s.CreatorName)
	assert.NotNil(t, s.PictureURLs)
}

func TestNewEventSummary_PictureFallback(t *testing.T) {
	e := &Event{ID: 1, ClubID: 2, Club: Club{Name: "Robotics", ProfilePictureURL: "club.webp"}}
	assert.Equal(t, "club.webp", NewEventSummary(e).EventPictureURL)

	e.PictureURL = "event.webp"
	assert.Equal(t, "event.webp", NewEventSummary(e).EventPictureURL)
}

func TestQuestionType_Valid(t *testing.T) {
	for _, qt := range []QuestionType{QuestionText, QuestionBoolean, QuestionPhone, QuestionEmail} {
		assert.True(t, qt.Valid(), qt)
	}
	assert.False(t, QuestionType("DATE").Valid())
}

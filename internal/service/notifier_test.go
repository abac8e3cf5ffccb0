package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"unihub/internal/model"
	"unihub/internal/repository"
)

func TestEmailNotifier_DeliversToOptedInMembersExceptActor(t *testing.T) {
	members := new(MockMembershipRepository)
	mailer := new(MockMailer)
	members.On("ListNotifiable", mock.Anything, clubID, repository.NotifyPosts).Return([]model.Membership{
		{UserID: managerID, User: model.User{Email: "manager@university.edu"}},
		{UserID: memberID, User: model.User{Email: "member@university.edu"}},
	}, nil)
	mailer.On("Send", mock.Anything, "member@university.edu", "New post in Chess", mock.Anything).Return(nil)

	n := NewEmailNotifier(members, mailer, zap.NewNop())
	n.Start(context.Background())
	n.Notify(Notification{Kind: repository.NotifyPosts, ClubID: clubID, ClubName: "Chess", ActorID: managerID, Text: "Open night"})
	n.Close()

	mailer.AssertExpectations(t)
	mailer.AssertNotCalled(t, "Send", mock.Anything, "manager@university.edu", mock.Anything, mock.Anything)
}

func TestEmailNotifier_EventSubject(t *testing.T) {
	members := new(MockMembershipRepository)
	mailer := new(MockMailer)
	members.On("ListNotifiable", mock.Anything, clubID, repository.NotifyEvents).Return([]model.Membership{
		{UserID: memberID, User: model.User{Email: "member@university.edu"}},
	}, nil)
	mailer.On("Send", mock.Anything, "member@university.edu", "New event in Chess", mock.Anything).Return(assert.AnError)

	n := NewEmailNotifier(members, mailer, zap.NewNop())
	n.Start(context.Background())
	n.Notify(Notification{Kind: repository.NotifyEvents, ClubID: clubID, ClubName: "Chess", When: time.Now(), Location: "Hall"})
	n.Close()

	mailer.AssertExpectations(t)
}

func TestEmailNotifier_DropsWhenQueueFull(t *testing.T) {
	n := NewEmailNotifier(new(MockMembershipRepository), new(MockMailer), zap.NewNop())
	// not started, so nothing drains the queue
	for i := 0; i < notificationBuffer+5; i++ {
		n.Notify(Notification{ClubID: uint(i)})
	}
	assert.Len(t, n.queue, notificationBuffer)
}

func TestEmailNotifier_DrainsQueueAfterStartContextEnds(t *testing.T) {
	members := new(MockMembershipRepository)
	mailer := new(MockMailer)
	members.On("ListNotifiable", mock.Anything, clubID, repository.NotifyPosts).Return([]model.Membership{
		{UserID: memberID, User: model.User{Email: "member@university.edu"}},
	}, nil)
	mailer.On("Send", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }),
		"member@university.edu", "New post in Chess", mock.Anything).Return(nil).Times(3)

	ctx, cancel := context.WithCancel(context.Background())
	n := NewEmailNotifier(members, mailer, zap.NewNop())
	for i := 0; i < 3; i++ {
		n.Notify(Notification{Kind: repository.NotifyPosts, ClubID: clubID, ClubName: "Chess", ActorID: managerID})
	}
	// shutdown signal arrives before the worker has sent anything
	cancel()
	n.Start(ctx)
	n.Close()

	mailer.AssertExpectations(t)
}

func TestEmailNotifier_NotifyAfterCloseIsDropped(t *testing.T) {
	n := NewEmailNotifier(new(MockMembershipRepository), new(MockMailer), zap.NewNop())
	n.Start(context.Background())
	n.Close()

	assert.NotPanics(t, func() {
		n.Notify(Notification{Kind: repository.NotifyPosts, ClubID: clubID})
	})
	assert.NotPanics(t, n.Close)
}

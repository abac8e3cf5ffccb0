package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "unihub/internal/errors"
	"unihub/internal/model"
	"unihub/internal/repository"
)

// notFound translates gorm's missing-row error into sentinel.
func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// findMembership returns the caller's membership or nil when there is none.
func findMembership(ctx context.Context, repo repository.MembershipRepository, clubID, userID uint) (*model.Membership, error) {
	m, err := repo.Find(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find membership: %w", err)
	}
	return m, nil
}

// requireManager fails with ErrForbidden unless the user is an approved MANAGER or OWNER.
func requireManager(ctx context.Context, repo repository.MembershipRepository, clubID, userID uint) (*model.Membership, error) {
	m, err := findMembership(ctx, repo, clubID, userID)
	if err != nil {
		return nil, err
	}
	if !m.CanManage() {
		return nil, apperrors.ErrForbidden
	}
	return m, nil
}

// requireOwner fails with ErrForbidden unless the user is the approved OWNER.
func requireOwner(ctx context.Context, repo repository.MembershipRepository, clubID, userID uint) (*model.Membership, error) {
	m, err := findMembership(ctx, repo, clubID, userID)
	if err != nil {
		return nil, err
	}
	if !m.IsOwner() {
		return nil, apperrors.ErrForbidden
	}
	return m, nil
}

func newLog(clubID, actorID uint, format string, args ...interface{}) *model.ClubLog {
	return &model.ClubLog{
		ClubID:    clubID,
		ActorID:   actorID,
		Action:    fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
	}
}

func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// cleanURLs trims entries and drops blanks and duplicates.
func cleanURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// fullName resolves a user's display name for log entries.
func fullName(ctx context.Context, users repository.UserRepository, id uint) string {
	u, err := users.FindByID(ctx, id)
	if err != nil {
		return model.DeletedUserName
	}
	return u.FullName()
}

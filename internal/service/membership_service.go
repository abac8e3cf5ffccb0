package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "unihub/internal/errors"
	"unihub/internal/model"
	"unihub/internal/repository"
)

// MembershipService drives the join/approve/role workflow of a club.
type MembershipService interface {
	Join(ctx context.Context, clubID, userID uint) (*model.CurrentUserMembership, error)
	Withdraw(ctx context.Context, clubID, userID uint) error
	ListPending(ctx context.Context, clubID, actorID uint) ([]model.MemberInClub, error)
	Approve(ctx context.Context, clubID, actorID, targetID uint) error
	Reject(ctx context.Context, clubID, actorID, targetID uint) error
	Remove(ctx context.Context, clubID, actorID, targetID uint) error
	Promote(ctx context.Context, clubID, actorID, targetID uint) error
	Demote(ctx context.Context, clubID, actorID, targetID uint) error
	TransferOwnership(ctx context.Context, clubID, actorID, targetID uint) error
	Leave(ctx context.Context, clubID, userID uint) error
	UpdateNotifications(ctx context.Context, clubID, userID uint, events, posts bool) (*model.CurrentUserMembership, error)
}

type membershipService struct {
	repo   repository.MembershipRepository
	clubs  repository.ClubRepository
	users  repository.UserRepository
	logger *zap.Logger
}

// NewMembershipService creates a new membership service.
func NewMembershipService(
	repo repository.MembershipRepository,
	clubs repository.ClubRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) MembershipService {
	return &membershipService{repo: repo, clubs: clubs, users: users, logger: logger}
}

// Join files a PENDING request with the MEMBER role.
func (s *membershipService) Join(ctx context.Context, clubID, userID uint) (*model.CurrentUserMembership, error) {
	if _, err := s.clubs.FindByID(ctx, clubID); err != nil {
		return nil, notFound(err, apperrors.ErrClubNotFound)
	}
	existing, err := findMembership(ctx, s.repo, clubID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrAlreadyMember
	}

	m := &model.Membership{
		ClubID:                    clubID,
		UserID:                    userID,
		Role:                      model.RoleMember,
		Status:                    model.StatusPending,
		EventNotificationsEnabled: true,
		PostNotificationsEnabled:  true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		// a concurrent join for the same user won the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyMember
		}
		return nil, fmt.Errorf("create membership: %w", err)
	}
	return model.NewCurrentUserMembership(m), nil
}

func (s *membershipService) Withdraw(ctx context.Context, clubID, userID uint) error {
	m, err := findMembership(ctx, s.repo, clubID, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return apperrors.ErrMembershipNotFound
	}
	if m.Status != model.StatusPending {
		return apperrors.ErrNotPending
	}
	return s.repo.Delete(ctx, clubID, userID)
}

func (s *membershipService) ListPending(ctx context.Context, clubID, actorID uint) ([]model.MemberInClub, error) {
	if _, err := requireManager(ctx, s.repo, clubID, actorID); err != nil {
		return nil, err
	}
	pending, err := s.repo.ListByStatus(ctx, clubID, model.StatusPending)
	if err != nil {
		return nil, err
	}
	out := make([]model.MemberInClub, 0, len(pending))
	for i := range pending {
		out = append(out, model.NewMemberInClub(&pending[i]))
	}
	return out, nil
}

func (s *membershipService) Approve(ctx context.Context, clubID, actorID, targetID uint) error {
	_, target, err := s.managedTarget(ctx, clubID, actorID, targetID)
	if err != nil {
		return err
	}
	if target.Status != model.StatusPending {
		return apperrors.ErrNotPending
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.MembershipRepository) error {
		target.Status = model.StatusApproved
		if err := repo.Update(ctx, target); err != nil {
			return err
		}
		return repo.AppendLog(ctx, s.log(ctx, clubID, actorID, "%s approved the request of %s", targetID))
	})
	if err != nil {
		return fmt.Errorf("approve member: %w", err)
	}
	return nil
}

func (s *membershipService) Reject(ctx context.Context, clubID, actorID, targetID uint) error {
	_, target, err := s.managedTarget(ctx, clubID, actorID, targetID)
	if err != nil {
		return err
	}
	if target.Status != model.StatusPending {
		return apperrors.ErrNotPending
	}

	return s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.MembershipRepository) error {
		if err := repo.Delete(ctx, clubID, targetID); err != nil {
			return err
		}
		return repo.AppendLog(ctx, s.log(ctx, clubID, actorID, "%s rejected the request of %s", targetID))
	})
}

// Remove expels a member ranked strictly below the actor, along with their
// attendance at the club's events.
func (s *membershipService) Remove(ctx context.Context, clubID, actorID, targetID uint) error {
	actor, target, err := s.managedTarget(ctx, clubID, actorID, targetID)
	if err != nil {
		return err
	}
	if target.Role.Rank() >= actor.Role.Rank() {
		return apperrors.ErrForbidden
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.MembershipRepository) error {
		if err := repo.Delete(ctx, clubID, targetID); err != nil {
			return err
		}
		if err := repo.RemoveClubAttendance(ctx, clubID, targetID); err != nil {
			return err
		}
		return repo.AppendLog(ctx, s.log(ctx, clubID, actorID, "%s removed %s from the club", targetID))
	})
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *membershipService) Promote(ctx context.Context, clubID, actorID, targetID uint) error {
	target, err := s.ownedTarget(ctx, clubID, actorID, targetID)
	if err != nil {
		return err
	}
	if !target.IsApproved() || target.Role != model.RoleMember {
		return apperrors.ErrInvalidRoleChange
	}
	return s.changeRole(ctx, target, model.RoleManager, actorID, "%s promoted %s to manager")
}

func (s *membershipService) Demote(ctx context.Context, clubID, actorID, targetID uint) error {
	target, err := s.ownedTarget(ctx, clubID, actorID, targetID)
	if err != nil {
		return err
	}
	if !target.IsApproved() || target.Role != model.RoleManager {
		return apperrors.ErrInvalidRoleChange
	}
	return s.changeRole(ctx, target, model.RoleMember, actorID, "%s demoted %s to member")
}

// TransferOwnership swaps roles in one transaction: the target becomes OWNER
// and the previous owner stays on as MANAGER.
func (s *membershipService) TransferOwnership(ctx context.Context, clubID, actorID, targetID uint) error {
	owner, err := requireOwner(ctx, s.repo, clubID, actorID)
	if err != nil {
		return err
	}
	if actorID == targetID {
		return apperrors.ErrSelfTarget
	}
	target, err := s.target(ctx, clubID, targetID)
	if err != nil {
		return err
	}
	if !target.IsApproved() {
		return apperrors.ErrInvalidRoleChange
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.MembershipRepository) error {
		target.Role = model.RoleOwner
		if err := repo.Update(ctx, target); err != nil {
			return err
		}
		owner.Role = model.RoleManager
		if err := repo.Update(ctx, owner); err != nil {
			return err
		}
		return repo.AppendLog(ctx, s.log(ctx, clubID, actorID, "%s transferred ownership to %s", targetID))
	})
	if err != nil {
		return fmt.Errorf("transfer ownership: %w", err)
	}
	s.logger.Info("club ownership transferred",
		zap.Uint("club_id", clubID), zap.Uint("from", actorID), zap.Uint("to", targetID))
	return nil
}

// Leave is refused for the owner, who must transfer ownership first.
func (s *membershipService) Leave(ctx context.Context, clubID, userID uint) error {
	m, err := findMembership(ctx, s.repo, clubID, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return apperrors.ErrNotMember
	}
	if m.Role == model.RoleOwner {
		return apperrors.ErrOwnerCannotLeave
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.MembershipRepository) error {
		if err := repo.Delete(ctx, clubID, userID); err != nil {
			return err
		}
		if err := repo.RemoveClubAttendance(ctx, clubID, userID); err != nil {
			return err
		}
		return repo.AppendLog(ctx, newLog(clubID, userID, "%s left the club", fullName(ctx, s.users, userID)))
	})
	if err != nil {
		return fmt.Errorf("leave club: %w", err)
	}
	return nil
}

func (s *membershipService) UpdateNotifications(ctx context.Context, clubID, userID uint, events, posts bool) (*model.CurrentUserMembership, error) {
	m, err := findMembership(ctx, s.repo, clubID, userID)
	if err != nil {
		return nil, err
	}
	if !m.IsApproved() {
		return nil, apperrors.ErrNotMember
	}
	m.EventNotificationsEnabled = events
	m.PostNotificationsEnabled = posts
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update notifications: %w", err)
	}
	return model.NewCurrentUserMembership(m), nil
}

// managedTarget loads the acting manager and the target membership.
func (s *membershipService) managedTarget(ctx context.Context, clubID, actorID, targetID uint) (*model.Membership, *model.Membership, error) {
	actor, err := requireManager(ctx, s.repo, clubID, actorID)
	if err != nil {
		return nil, nil, err
	}
	if actorID == targetID {
		return nil, nil, apperrors.ErrSelfTarget
	}
	target, err := s.target(ctx, clubID, targetID)
	if err != nil {
		return nil, nil, err
	}
	return actor, target, nil
}

func (s *membershipService) ownedTarget(ctx context.Context, clubID, actorID, targetID uint) (*model.Membership, error) {
	if _, err := requireOwner(ctx, s.repo, clubID, actorID); err != nil {
		return nil, err
	}
	if actorID == targetID {
		return nil, apperrors.ErrSelfTarget
	}
	return s.target(ctx, clubID, targetID)
}

func (s *membershipService) target(ctx context.Context, clubID, targetID uint) (*model.Membership, error) {
	m, err := findMembership(ctx, s.repo, clubID, targetID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperrors.ErrMembershipNotFound
	}
	return m, nil
}

func (s *membershipService) changeRole(ctx context.Context, target *model.Membership, role model.Role, actorID uint, action string) error {
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.MembershipRepository) error {
		target.Role = role
		if err := repo.Update(ctx, target); err != nil {
			return err
		}
		return repo.AppendLog(ctx, s.log(ctx, target.ClubID, actorID, action, target.UserID))
	})
	if err != nil {
		return fmt.Errorf("change role: %w", err)
	}
	return nil
}

// log formats action with the actor's and target's full names.
func (s *membershipService) log(ctx context.Context, clubID, actorID uint, action string, targetID uint) *model.ClubLog {
	return newLog(clubID, actorID, action, fullName(ctx, s.users, actorID), fullName(ctx, s.users, targetID))
}

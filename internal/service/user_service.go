package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"unihub/internal/cache"
	apperrors "unihub/internal/errors"
	"unihub/internal/model"
	"unihub/internal/repository"
	"unihub/internal/storage"
)

const userCacheTTL = 5 * time.Minute

// ProfileUpdate carries the editable profile fields. PictureSet distinguishes
// "leave as is" from an explicit change; an empty PictureURL resets to the default.
type ProfileUpdate struct {
	Name       string
	Surname    string
	PictureSet bool
	PictureURL string
}

// UserService exposes user and profile operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.UserSummary, error)
	SearchUsers(ctx context.Context, name string) ([]model.UserSummary, error)
	GetUser(ctx context.Context, id, viewerID uint) (*model.UserResponse, error)
	UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (*model.UserResponse, error)
	DeleteAccount(ctx context.Context, id uint) error
}

type userService struct {
	repo        repository.UserRepository
	memberships repository.MembershipRepository
	events      repository.EventRepository
	storage     storage.Service
	cache       cache.Store
	logger      *zap.Logger
	now         func() time.Time
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(
	repo repository.UserRepository,
	memberships repository.MembershipRepository,
	events repository.EventRepository,
	store storage.Service,
	cache cache.Store,
	logger *zap.Logger,
) UserService {
	return &userService{
		repo:        repo,
		memberships: memberships,
		events:      events,
		storage:     store,
		cache:       cache,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

// SearchUsers returns an empty list for a blank term.
func (s *userService) SearchUsers(ctx context.Context, name string) ([]model.UserSummary, error) {
	if strings.TrimSpace(name) == "" {
		return []model.UserSummary{}, nil
	}
	users, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

// GetUser returns the full profile. The email is only shown to its owner.
func (s *userService) GetUser(ctx context.Context, id, viewerID uint) (*model.UserResponse, error) {
	resp, err := s.profile(ctx, id)
	if err != nil {
		return nil, err
	}
	if id != viewerID {
		resp.Email = ""
	}
	return resp, nil
}

func (s *userService) profile(ctx context.Context, id uint) (*model.UserResponse, error) {
	resp, err := s.account(ctx, id)
	if err != nil {
		return nil, err
	}
	memberships, err := s.memberships.ListForProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	attended, err := s.events.ListAttendedBy(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list attended events: %w", err)
	}
	addActivity(resp, id, memberships, attended, s.now())
	return resp, nil
}

// account returns the user's own columns, cached. Memberships and attended
// events change through other users' actions, so they are never cached.
func (s *userService) account(ctx context.Context, id uint) (*model.UserResponse, error) {
	if data, _ := s.cache.Get(ctx, userCacheKey(id)); data != nil {
		var cached model.UserResponse
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	resp := newAccountResponse(user)
	if payload, err := json.Marshal(resp); err == nil {
		_ = s.cache.Set(ctx, userCacheKey(id), payload, userCacheTTL)
	}
	return resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (*model.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}

	name, surname := strings.TrimSpace(in.Name), strings.TrimSpace(in.Surname)
	if len([]rune(name)) < 2 || len([]rune(surname)) < 2 {
		return nil, apperrors.Invalid("name and surname must be at least 2 characters")
	}
	user.Name, user.Surname = name, surname

	var stale string
	if in.PictureSet {
		next := strings.TrimSpace(in.PictureURL)
		if next == "" {
			next = model.DefaultProfilePictureURL
		}
		if next != user.ProfilePictureURL {
			stale = user.ProfilePictureURL
			user.ProfilePictureURL = next
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if stale != "" {
		storage.DeleteURLs(ctx, s.storage, s.logger, stale)
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return s.profile(ctx, id)
}

// DeleteAccount refuses while the user owns a club.
func (s *userService) DeleteAccount(ctx context.Context, id uint) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, apperrors.ErrUserNotFound)
	}
	owned, err := s.memberships.CountOwned(ctx, id)
	if err != nil {
		return fmt.Errorf("count owned clubs: %w", err)
	}
	if owned > 0 {
		return apperrors.ErrOwnsClubs
	}

	storage.DeleteURLs(ctx, s.storage, s.logger, user.ProfilePictureURL)
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrUserNotFound)
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	s.logger.Info("account deleted", zap.Uint("user_id", id))
	return nil
}

func summaries(users []model.User) []model.UserSummary {
	out := make([]model.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, model.NewUserSummary(&users[i]))
	}
	return out
}

func newAccountResponse(user *model.User) *model.UserResponse {
	return &model.UserResponse{
		ID:                user.ID,
		StudentID:         user.StudentID,
		Email:             user.Email,
		Name:              user.Name,
		Surname:           user.Surname,
		ProfilePictureURL: user.ProfilePictureURL,
		University:        user.University,
		Faculty:           user.Faculty,
		Department:        user.Department,
		EmailVerified:     user.EmailVerified,
	}
}

// addActivity fills memberships and attended events. attended arrives in
// ascending date order; past events are listed newest first.
func addActivity(resp *model.UserResponse, userID uint, memberships []model.Membership, attended []model.Event, now time.Time) {
	resp.Memberships = []model.ClubInUser{}
	resp.UpcomingAttendedEvents = []model.EventSummary{}
	resp.PastAttendedEvents = []model.EventSummary{}

	for _, m := range memberships {
		if !m.IsApproved() {
			continue
		}
		others := make([]model.MemberInClub, 0, len(m.Club.Members))
		for i := range m.Club.Members {
			if m.Club.Members[i].UserID == userID {
				continue
			}
			others = append(others, model.NewMemberInClub(&m.Club.Members[i]))
		}
		resp.Memberships = append(resp.Memberships, model.ClubInUser{
			ClubID:                    m.ClubID,
			ClubName:                  m.Club.Name,
			ClubProfilePictureURL:     m.Club.ProfilePictureURL,
			UserRoleInClub:            m.Role,
			EventNotificationsEnabled: m.EventNotificationsEnabled,
			PostNotificationsEnabled:  m.PostNotificationsEnabled,
			OtherMembers:              others,
		})
	}

	for i := range attended {
		if attended[i].IsUpcoming(now) {
			resp.UpcomingAttendedEvents = append(resp.UpcomingAttendedEvents, model.NewEventSummary(&attended[i]))
		}
	}
	for i := len(attended) - 1; i >= 0; i-- {
		if !attended[i].IsUpcoming(now) {
			resp.PastAttendedEvents = append(resp.PastAttendedEvents, model.NewEventSummary(&attended[i]))
		}
	}
}

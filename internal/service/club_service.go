package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"unihub/internal/cache"
	apperrors "unihub/internal/errors"
	"unihub/internal/model"
	"unihub/internal/repository"
	"unihub/internal/storage"
)

const (
	discoverLimit    = 5
	discoverCacheTTL = time.Minute
)

// ClubInput is used for both create and update. On update a nil
// ProfilePictureURL resets the picture to the default.
type ClubInput struct {
	Name              string
	ShortName         string
	Description       string
	University        string
	Faculty           string
	Department        string
	ProfilePictureURL *string
}

// ClubService manages clubs, their discovery and audit logs.
type ClubService interface {
	ListClubs(ctx context.Context, viewerID uint) ([]model.ClubResponse, error)
	GetClub(ctx context.Context, id, viewerID uint) (*model.ClubResponse, error)
	CreateClub(ctx context.Context, userID uint, in ClubInput) (*model.ClubResponse, error)
	UpdateClub(ctx context.Context, id, userID uint, in ClubInput) (*model.ClubResponse, error)
	DeleteClub(ctx context.Context, id, userID uint) error
	SearchClubs(ctx context.Context, term string) ([]model.ClubSummary, error)
	Discover(ctx context.Context, f repository.ClubFilter) (*model.DiscoverResponse, error)
	ListLogs(ctx context.Context, clubID, userID uint) ([]model.ClubLogResponse, error)
	DeleteLog(ctx context.Context, clubID, logID, userID uint) error
}

type clubService struct {
	repo        repository.ClubRepository
	memberships repository.MembershipRepository
	logs        repository.ClubLogRepository
	users       repository.UserRepository
	storage     storage.Service
	cache       cache.Store
	logger      *zap.Logger
}

// NewClubService creates a new club service.
func NewClubService(
	repo repository.ClubRepository,
	memberships repository.MembershipRepository,
	logs repository.ClubLogRepository,
	users repository.UserRepository,
	store storage.Service,
	cache cache.Store,
	logger *zap.Logger,
) ClubService {
	return &clubService{
		repo:        repo,
		memberships: memberships,
		logs:        logs,
		users:       users,
		storage:     store,
		cache:       cache,
		logger:      logger,
	}
}

func (s *clubService) ListClubs(ctx context.Context, viewerID uint) ([]model.ClubResponse, error) {
	clubs, err := s.repo.ListDetailed(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ClubResponse, 0, len(clubs))
	for i := range clubs {
		out = append(out, buildClubResponse(&clubs[i], viewerID))
	}
	return out, nil
}

func (s *clubService) GetClub(ctx context.Context, id, viewerID uint) (*model.ClubResponse, error) {
	club, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrClubNotFound)
	}
	resp := buildClubResponse(club, viewerID)
	return &resp, nil
}

// CreateClub requires a verified email. The caller becomes the approved owner.
func (s *clubService) CreateClub(ctx context.Context, userID uint, in ClubInput) (*model.ClubResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	if !user.EmailVerified {
		return nil, apperrors.ErrEmailNotVerified
	}
	if err := validateClubInput(in); err != nil {
		return nil, err
	}

	shortName := strings.TrimSpace(in.ShortName)
	taken, err := s.repo.ExistsByShortName(ctx, shortName, 0)
	if err != nil {
		return nil, fmt.Errorf("check short name: %w", err)
	}
	if taken {
		return nil, apperrors.ErrShortNameTaken
	}

	club := &model.Club{
		Name:              strings.TrimSpace(in.Name),
		ShortName:         shortName,
		Description:       strings.TrimSpace(in.Description),
		University:        strings.TrimSpace(in.University),
		Faculty:           strings.TrimSpace(in.Faculty),
		Department:        strings.TrimSpace(in.Department),
		ProfilePictureURL: pictureOrDefault(in.ProfilePictureURL),
		Color:             randomColor(),
	}
	log := newLog(0, userID, "%s created the club", user.FullName())
	if err := s.repo.CreateWithOwner(ctx, club, userID, log); err != nil {
		return nil, fmt.Errorf("create club: %w", err)
	}

	s.logger.Info("club created", zap.Uint("club_id", club.ID), zap.Uint("owner_id", userID))
	return s.GetClub(ctx, club.ID, userID)
}

func (s *clubService) UpdateClub(ctx context.Context, id, userID uint, in ClubInput) (*model.ClubResponse, error) {
	club, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrClubNotFound)
	}
	owner, err := requireOwner(ctx, s.memberships, id, userID)
	if err != nil {
		return nil, err
	}
	if err := validateClubInput(in); err != nil {
		return nil, err
	}

	shortName := strings.TrimSpace(in.ShortName)
	if !strings.EqualFold(shortName, club.ShortName) {
		taken, err := s.repo.ExistsByShortName(ctx, shortName, id)
		if err != nil {
			return nil, fmt.Errorf("check short name: %w", err)
		}
		if taken {
			return nil, apperrors.ErrShortNameTaken
		}
	}

	stale := ""
	picture := pictureOrDefault(in.ProfilePictureURL)
	if picture != club.ProfilePictureURL {
		stale = club.ProfilePictureURL
	}

	club.Name = strings.TrimSpace(in.Name)
	club.ShortName = shortName
	club.Description = strings.TrimSpace(in.Description)
	club.University = strings.TrimSpace(in.University)
	club.Faculty = strings.TrimSpace(in.Faculty)
	club.Department = strings.TrimSpace(in.Department)
	club.ProfilePictureURL = picture

	actor := fullName(ctx, s.users, owner.UserID)
	if err := s.repo.Update(ctx, club, newLog(id, userID, "%s updated the club details", actor)); err != nil {
		return nil, fmt.Errorf("update club: %w", err)
	}
	if stale != "" {
		storage.DeleteURLs(ctx, s.storage, s.logger, stale)
	}
	return s.GetClub(ctx, id, userID)
}

// DeleteClub removes the club with all dependent rows, then its stored pictures.
func (s *clubService) DeleteClub(ctx context.Context, id, userID uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, apperrors.ErrClubNotFound)
	}
	if _, err := requireOwner(ctx, s.memberships, id, userID); err != nil {
		return err
	}

	urls, err := s.repo.PictureURLs(ctx, id)
	if err != nil {
		return fmt.Errorf("collect pictures: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrClubNotFound)
	}
	storage.DeleteURLs(ctx, s.storage, s.logger, urls...)

	s.logger.Info("club deleted", zap.Uint("club_id", id), zap.Uint("by", userID))
	return nil
}

func (s *clubService) SearchClubs(ctx context.Context, term string) ([]model.ClubSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []model.ClubSummary{}, nil
	}
	clubs, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return model.NewClubSummaries(clubs), nil
}

// Discover is cached briefly per filter.
func (s *clubService) Discover(ctx context.Context, f repository.ClubFilter) (*model.DiscoverResponse, error) {
	key := discoverCacheKey(f)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached model.DiscoverResponse
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	byMembers, err := s.repo.TopByMembers(ctx, f, discoverLimit)
	if err != nil {
		return nil, fmt.Errorf("top by members: %w", err)
	}
	byEvents, err := s.repo.TopByEvents(ctx, f, discoverLimit)
	if err != nil {
		return nil, fmt.Errorf("top by events: %w", err)
	}
	random, err := s.repo.Random(ctx, f, discoverLimit)
	if err != nil {
		return nil, fmt.Errorf("random clubs: %w", err)
	}

	resp := &model.DiscoverResponse{
		TopByMembers: model.NewClubSummaries(byMembers),
		TopByEvents:  model.NewClubSummaries(byEvents),
		RandomClubs:  model.NewClubSummaries(random),
	}
	if payload, err := json.Marshal(resp); err == nil {
		_ = s.cache.Set(ctx, key, payload, discoverCacheTTL)
	}
	return resp, nil
}

func (s *clubService) ListLogs(ctx context.Context, clubID, userID uint) ([]model.ClubLogResponse, error) {
	if _, err := s.repo.FindByID(ctx, clubID); err != nil {
		return nil, notFound(err, apperrors.ErrClubNotFound)
	}
	if _, err := requireManager(ctx, s.memberships, clubID, userID); err != nil {
		return nil, err
	}
	logs, err := s.logs.ListByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	out := make([]model.ClubLogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, model.NewClubLogResponse(&logs[i]))
	}
	return out, nil
}

func (s *clubService) DeleteLog(ctx context.Context, clubID, logID, userID uint) error {
	if _, err := requireOwner(ctx, s.memberships, clubID, userID); err != nil {
		return err
	}
	entry, err := s.logs.FindByID(ctx, logID)
	if err != nil {
		return notFound(err, apperrors.ErrLogNotFound)
	}
	if entry.ClubID != clubID {
		return apperrors.ErrLogNotFound
	}
	return s.logs.Delete(ctx, logID)
}

func validateClubInput(in ClubInput) error {
	if len([]rune(strings.TrimSpace(in.Name))) < 3 {
		return apperrors.Invalid("club name must be at least 3 characters")
	}
	if strings.TrimSpace(in.ShortName) == "" {
		return apperrors.Invalid("short name is required")
	}
	if len([]rune(strings.TrimSpace(in.Description))) < 10 {
		return apperrors.Invalid("description must be at least 10 characters")
	}
	return nil
}

func pictureOrDefault(url *string) string {
	if url == nil || strings.TrimSpace(*url) == "" {
		return model.DefaultClubPictureURL
	}
	return strings.TrimSpace(*url)
}

// randomColor keeps every channel below 200 so white text stays readable.
func randomColor() string {
	return fmt.Sprintf("#%02x%02x%02x", rand.Intn(200), rand.Intn(200), rand.Intn(200))
}

func discoverCacheKey(f repository.ClubFilter) string {
	return fmt.Sprintf("discover:%s:%s:%s",
		strings.ToLower(f.University), strings.ToLower(f.Faculty), strings.ToLower(f.Department))
}

func buildClubResponse(club *model.Club, viewerID uint) model.ClubResponse {
	resp := model.ClubResponse{
		ClubSummary: model.NewClubSummary(club),
		Description: club.Description,
		Members:     []model.MemberInClub{},
		Posts:       model.NewPostSummaries(club.Posts, viewerID),
		Events:      model.NewEventSummaries(club.Events),
	}
	for i := range club.Members {
		m := &club.Members[i]
		if m.UserID == viewerID {
			resp.CurrentUserMembership = model.NewCurrentUserMembership(m)
		}
		if m.IsApproved() {
			resp.Members = append(resp.Members, model.NewMemberInClub(m))
		}
	}
	return resp
}

package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "unihub/internal/errors"
	"unihub/internal/model"
	"unihub/internal/repository"
	"unihub/internal/storage"
)

const maxPostLength = 1000

// PostInput is the payload for a new post.
type PostInput struct {
	Description string
	PictureURLs []string
}

// PostUpdate edits the description and adds or removes pictures.
type PostUpdate struct {
	Description    string
	PictureURLs    []string
	ImagesToDelete []string
}

// PostService manages club posts and likes.
type PostService interface {
	ListPosts(ctx context.Context, viewerID uint) ([]model.PostSummary, error)
	CreatePost(ctx context.Context, clubID, userID uint, in PostInput) (*model.PostSummary, error)
	GetPost(ctx context.Context, id, viewerID uint) (*model.PostDetail, error)
	UpdatePost(ctx context.Context, id, userID uint, in PostUpdate) (*model.PostDetail, error)
	DeletePost(ctx context.Context, id, userID uint) error
	ToggleLike(ctx context.Context, id, userID uint) (*model.PostSummary, error)
}

type postService struct {
	repo        repository.PostRepository
	clubs       repository.ClubRepository
	memberships repository.MembershipRepository
	users       repository.UserRepository
	storage     storage.Service
	notifier    Notifier
	logger      *zap.Logger
}

// NewPostService creates a new post service.
func NewPostService(
	repo repository.PostRepository,
	clubs repository.ClubRepository,
	memberships repository.MembershipRepository,
	users repository.UserRepository,
	store storage.Service,
	notifier Notifier,
	logger *zap.Logger,
) PostService {
	return &postService{
		repo:        repo,
		clubs:       clubs,
		memberships: memberships,
		users:       users,
		storage:     store,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *postService) ListPosts(ctx context.Context, viewerID uint) ([]model.PostSummary, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewPostSummaries(posts, viewerID), nil
}

// CreatePost is restricted to club managers; opted-in members are notified.
func (s *postService) CreatePost(ctx context.Context, clubID, userID uint, in PostInput) (*model.PostSummary, error) {
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrClubNotFound)
	}
	if _, err := requireManager(ctx, s.memberships, clubID, userID); err != nil {
		return nil, err
	}
	description, err := validatePostDescription(in.Description)
	if err != nil {
		return nil, err
	}

	post := &model.Post{ClubID: clubID, CreatorID: userID, Description: description}
	for _, u := range cleanURLs(in.PictureURLs) {
		post.Images = append(post.Images, model.PostImage{ImageURL: u})
	}
	log := newLog(clubID, userID, "%s published a post", fullName(ctx, s.users, userID))
	if err := s.repo.Create(ctx, post, log); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.notifier.Notify(Notification{
		Kind:     repository.NotifyPosts,
		ClubID:   clubID,
		ClubName: club.Name,
		ActorID:  userID,
		Text:     description,
	})

	created, err := s.repo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	summary := model.NewPostSummary(created, userID)
	return &summary, nil
}

func (s *postService) GetPost(ctx context.Context, id, viewerID uint) (*model.PostDetail, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrPostNotFound)
	}
	canManage, err := s.canManage(ctx, post, viewerID)
	if err != nil {
		return nil, err
	}
	return &model.PostDetail{
		ID:                   post.ID,
		Description:          post.Description,
		PictureURLs:          post.ImageURLs(),
		CreationDate:         post.CreatedAt,
		Club:                 model.NewClubSummary(&post.Club),
		Creator:              model.NewUserSummary(&post.Creator),
		LikeCount:            len(post.Likes),
		IsLikedByCurrentUser: post.LikedBy(viewerID),
		CanCurrentUserManage: canManage,
	}, nil
}

// UpdatePost only removes pictures that belong to the post; removed pictures
// are also deleted from storage.
func (s *postService) UpdatePost(ctx context.Context, id, userID uint, in PostUpdate) (*model.PostDetail, error) {
	post, err := s.authorized(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	description, err := validatePostDescription(in.Description)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(post.Images))
	for _, img := range post.Images {
		existing[img.ImageURL] = struct{}{}
	}
	var remove []string
	for _, u := range cleanURLs(in.ImagesToDelete) {
		if _, ok := existing[u]; ok {
			remove = append(remove, u)
			delete(existing, u)
		}
	}
	var add []string
	for _, u := range cleanURLs(in.PictureURLs) {
		if _, ok := existing[u]; !ok {
			add = append(add, u)
		}
	}

	post.Description = description
	if err := s.repo.Update(ctx, post, add, remove); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	storage.DeleteURLs(ctx, s.storage, s.logger, remove...)
	return s.GetPost(ctx, id, userID)
}

func (s *postService) DeletePost(ctx context.Context, id, userID uint) error {
	post, err := s.authorized(ctx, id, userID)
	if err != nil {
		return err
	}
	urls := post.ImageURLs()
	log := newLog(post.ClubID, userID, "%s deleted a post", fullName(ctx, s.users, userID))
	if err := s.repo.Delete(ctx, id, log); err != nil {
		return notFound(err, apperrors.ErrPostNotFound)
	}
	storage.DeleteURLs(ctx, s.storage, s.logger, urls...)
	return nil
}

// ToggleLike returns the post as it is after the toggle.
func (s *postService) ToggleLike(ctx context.Context, id, userID uint) (*model.PostSummary, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, apperrors.ErrPostNotFound)
	}
	if _, err := s.repo.ToggleLike(ctx, id, userID); err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrPostNotFound)
	}
	summary := model.NewPostSummary(post, userID)
	return &summary, nil
}

// authorized loads the post and checks the user is its creator or a club manager.
func (s *postService) authorized(ctx context.Context, id, userID uint) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrPostNotFound)
	}
	ok, err := s.canManage(ctx, post, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}
	return post, nil
}

func (s *postService) canManage(ctx context.Context, post *model.Post, userID uint) (bool, error) {
	if post.CreatorID == userID {
		return true, nil
	}
	m, err := findMembership(ctx, s.memberships, post.ClubID, userID)
	if err != nil {
		return false, err
	}
	return m.CanManage(), nil
}

func validatePostDescription(text string) (string, error) {
	text = strings.TrimSpace(text)
	n := len([]rune(text))
	if n == 0 || n > maxPostLength {
		return "", apperrors.Invalid(fmt.Sprintf("description must be between 1 and %d characters", maxPostLength))
	}
	return text, nil
}

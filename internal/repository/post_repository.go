package repository

import (
	"context"

	"gorm.io/gorm"

	"unihub/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	List(ctx context.Context) ([]model.Post, error)
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	Create(ctx context.Context, post *model.Post, log *model.ClubLog) error
	Update(ctx context.Context, post *model.Post, addURLs, removeURLs []string) error
	Delete(ctx context.Context, id uint, log *model.ClubLog) error
	ToggleLike(ctx context.Context, postID, userID uint) (liked bool, err error)
	ListInClubs(ctx context.Context, clubIDs []uint, offset, limit int) ([]model.Post, error)
	ListOutsideClubs(ctx context.Context, clubIDs []uint, offset, limit int) ([]model.Post, error)
	CountInClubs(ctx context.Context, clubIDs []uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func withPostRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Club").
		Preload("Creator").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Likes")
}

func (r *postRepository) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := withPostRelations(r.db.WithContext(ctx)).Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := withPostRelations(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts the post with its images and the audit entry.
func (r *postRepository) Create(ctx context.Context, post *model.Post, log *model.ClubLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Club", "Creator", "Likes").Create(post).Error; err != nil {
			return err
		}
		if log == nil {
			return nil
		}
		return tx.Omit("Actor").Create(log).Error
	})
}

// Update saves the description and applies picture additions and removals.
func (r *postRepository) Update(ctx context.Context, post *model.Post, addURLs, removeURLs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).Where("id = ?", post.ID).Update("description", post.Description).Error; err != nil {
			return err
		}
		if len(removeURLs) > 0 {
			if err := tx.Where("post_id = ? AND image_url IN ?", post.ID, removeURLs).Delete(&model.PostImage{}).Error; err != nil {
				return err
			}
		}
		if len(addURLs) > 0 {
			images := make([]model.PostImage, 0, len(addURLs))
			for _, u := range addURLs {
				images = append(images, model.PostImage{PostID: post.ID, ImageURL: u})
			}
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the post with its likes and images and records log.
func (r *postRepository) Delete(ctx context.Context, id uint, log *model.ClubLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostImage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if log == nil {
			return nil
		}
		return tx.Omit("Actor").Create(log).Error
	})
}

// ToggleLike flips the user's like on the post and reports the new state.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}
		liked = true
		return tx.Create(&model.PostLike{PostID: postID, UserID: userID}).Error
	})
	return liked, err
}

func (r *postRepository) ListInClubs(ctx context.Context, clubIDs []uint, offset, limit int) ([]model.Post, error) {
	if len(clubIDs) == 0 || limit <= 0 {
		return []model.Post{}, nil
	}
	var posts []model.Post
	err := withPostRelations(r.db.WithContext(ctx)).
		Where("club_id IN ?", clubIDs).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListOutsideClubs(ctx context.Context, clubIDs []uint, offset, limit int) ([]model.Post, error) {
	if limit <= 0 {
		return []model.Post{}, nil
	}
	q := withPostRelations(r.db.WithContext(ctx))
	if len(clubIDs) > 0 {
		q = q.Where("club_id NOT IN ?", clubIDs)
	}
	var posts []model.Post
	if err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) CountInClubs(ctx context.Context, clubIDs []uint) (int64, error) {
	if len(clubIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("club_id IN ?", clubIDs).Count(&count).Error
	return count, err
}

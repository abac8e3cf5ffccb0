package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"unihub/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByStudentID(ctx context.Context, studentID uint64) (bool, error)
	SetEmailVerified(ctx context.Context, id uint) error
	List(ctx context.Context) ([]model.User, error)
	SearchByName(ctx context.Context, term string) ([]model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByStudentID(ctx context.Context, studentID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("student_id = ?", studentID).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) SetEmailVerified(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("email_verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("name, surname").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SearchByName matches users whose name or surname contains every word of
// term, case-insensitively.
func (r *userRepository) SearchByName(ctx context.Context, term string) ([]model.User, error) {
	q := r.db.WithContext(ctx)
	for _, word := range strings.Fields(strings.ToLower(term)) {
		like := "%" + word + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(surname) LIKE ?)", like, like)
	}
	var users []model.User
	if err := q.Order("name, surname").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes the user with their likes, attendances and memberships.
// Posts, events and log entries they authored stay with their club.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attendees := tx.Model(&model.EventAttendee{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("attendee_id IN (?)", attendees).Delete(&model.EventFormAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.EventAttendee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

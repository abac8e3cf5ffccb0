package repository

import (
	"context"

	"gorm.io/gorm"

	"unihub/internal/model"
)

// MembershipRepository defines club membership persistence operations.
type MembershipRepository interface {
	Find(ctx context.Context, clubID, userID uint) (*model.Membership, error)
	Create(ctx context.Context, m *model.Membership) error
	Update(ctx context.Context, m *model.Membership) error
	Delete(ctx context.Context, clubID, userID uint) error
	ListByStatus(ctx context.Context, clubID uint, status model.MembershipStatus) ([]model.Membership, error)
	ListForProfile(ctx context.Context, userID uint) ([]model.Membership, error)
	ListNotifiable(ctx context.Context, clubID uint, kind NotificationKind) ([]model.Membership, error)
	ApprovedClubIDs(ctx context.Context, userID uint) ([]uint, error)
	CountOwned(ctx context.Context, userID uint) (int64, error)
	RemoveClubAttendance(ctx context.Context, clubID, userID uint) error
	AppendLog(ctx context.Context, log *model.ClubLog) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo MembershipRepository) error) error
}

// NotificationKind selects which notification flag to filter on.
type NotificationKind string

const (
	NotifyPosts  NotificationKind = "post"
	NotifyEvents NotificationKind = "event"
)

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository.
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Find(ctx context.Context, clubID, userID uint) (*model.Membership, error) {
	var m model.Membership
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) Create(ctx context.Context, m *model.Membership) error {
	return r.db.WithContext(ctx).Omit("User", "Club").Create(m).Error
}

func (r *membershipRepository) Update(ctx context.Context, m *model.Membership) error {
	return r.db.WithContext(ctx).Omit("User", "Club").Save(m).Error
}

func (r *membershipRepository) Delete(ctx context.Context, clubID, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Delete(&model.Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListForProfile returns the user's approved memberships with their clubs and
// each club's approved members.
func (r *membershipRepository) ListForProfile(ctx context.Context, userID uint) ([]model.Membership, error) {
	var members []model.Membership
	err := r.db.WithContext(ctx).
		Preload("Club").
		Preload("Club.Members", "status = ?", model.StatusApproved).
		Preload("Club.Members.User").
		Where("user_id = ? AND status = ?", userID, model.StatusApproved).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

func (r *membershipRepository) ListByStatus(ctx context.Context, clubID uint, status model.MembershipStatus) ([]model.Membership, error) {
	var members []model.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("club_id = ? AND status = ?", clubID, status).
		Order("created_at, id").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ListNotifiable returns approved members who enabled the given notification kind.
func (r *membershipRepository) ListNotifiable(ctx context.Context, clubID uint, kind NotificationKind) ([]model.Membership, error) {
	column := "post_notifications_enabled"
	if kind == NotifyEvents {
		column = "event_notifications_enabled"
	}
	var members []model.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("club_id = ? AND status = ?", clubID, model.StatusApproved).
		Where(column+" = ?", true).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *membershipRepository) ApprovedClubIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("user_id = ? AND status = ?", userID, model.StatusApproved).
		Pluck("club_id", &ids).Error
	return ids, err
}

func (r *membershipRepository) CountOwned(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("user_id = ? AND role = ? AND status = ?", userID, model.RoleOwner, model.StatusApproved).
		Count(&count).Error
	return count, err
}

// RemoveClubAttendance deletes the user's registrations (and answers) for the club's events.
func (r *membershipRepository) RemoveClubAttendance(ctx context.Context, clubID, userID uint) error {
	db := r.db.WithContext(ctx)
	events := db.Model(&model.Event{}).Select("id").Where("club_id = ?", clubID)
	attendees := db.Model(&model.EventAttendee{}).Select("id").Where("user_id = ? AND event_id IN (?)", userID, events)
	if err := db.Where("attendee_id IN (?)", attendees).Delete(&model.EventFormAnswer{}).Error; err != nil {
		return err
	}
	return db.Where("user_id = ? AND event_id IN (?)", userID, events).Delete(&model.EventAttendee{}).Error
}

func (r *membershipRepository) AppendLog(ctx context.Context, log *model.ClubLog) error {
	return r.db.WithContext(ctx).Omit("Actor").Create(log).Error
}

// WithTransaction executes a function within a database transaction.
func (r *membershipRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo MembershipRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &membershipRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"unihub/internal/model"
)

// EventRepository defines event, form and attendance persistence operations.
type EventRepository interface {
	List(ctx context.Context) ([]model.Event, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]model.Event, error)
	ListPast(ctx context.Context, now time.Time) ([]model.Event, error)
	ListAttendedBy(ctx context.Context, userID uint) ([]model.Event, error)
	FindByID(ctx context.Context, id uint) (*model.Event, error)
	Create(ctx context.Context, event *model.Event, log *model.ClubLog) error
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uint, log *model.ClubLog) error
	FindAttendee(ctx context.Context, eventID, userID uint) (*model.EventAttendee, error)
	AddAttendee(ctx context.Context, attendee *model.EventAttendee) error
	RemoveAttendee(ctx context.Context, eventID, userID uint, log *model.ClubLog) error
	ListInClubs(ctx context.Context, clubIDs []uint, offset, limit int) ([]model.Event, error)
	ListOutsideClubs(ctx context.Context, clubIDs []uint, offset, limit int) ([]model.Event, error)
	CountInClubs(ctx context.Context, clubIDs []uint) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) List(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).Preload("Club").Order("event_date DESC, id DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, now time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).Preload("Club").
		Where("event_date > ?", now).
		Order("event_date ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) ListPast(ctx context.Context, now time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).Preload("Club").
		Where("event_date <= ?", now).
		Order("event_date DESC, id DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) ListAttendedBy(ctx context.Context, userID uint) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).Preload("Club").
		Where("id IN (?)", r.db.Model(&model.EventAttendee{}).Select("event_id").Where("user_id = ?", userID)).
		Order("event_date ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// FindByID loads the event with club, creator, questions and attendees with answers.
func (r *eventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Preload("Club").
		Preload("Creator").
		Preload("FormQuestions", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Attendees", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at, id") }).
		Preload("Attendees.User").
		Preload("Attendees.Answers").
		First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts the event with its questions, registers the creator as
// attendee and records log.
func (r *eventRepository) Create(ctx context.Context, event *model.Event, log *model.ClubLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Club", "Creator", "Attendees").Create(event).Error; err != nil {
			return err
		}
		creator := &model.EventAttendee{EventID: event.ID, UserID: event.CreatorID, JoinedAt: time.Now()}
		if err := tx.Omit("User", "Answers").Create(creator).Error; err != nil {
			return err
		}
		if log == nil {
			return nil
		}
		return tx.Omit("Actor").Create(log).Error
	})
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Model(&model.Event{}).Where("id = ?", event.ID).Updates(map[string]interface{}{
		"description": event.Description,
		"event_date":  event.EventDate,
		"location":    event.Location,
		"picture_url": event.PictureURL,
	}).Error
}

// Delete removes the event with its questions, attendees and answers.
func (r *eventRepository) Delete(ctx context.Context, id uint, log *model.ClubLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attendees := tx.Model(&model.EventAttendee{}).Select("id").Where("event_id = ?", id)
		if err := tx.Where("attendee_id IN (?)", attendees).Delete(&model.EventFormAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&model.EventAttendee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&model.EventFormQuestion{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Event{}, id)
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

func (r *eventRepository) FindAttendee(ctx context.Context, eventID, userID uint) (*model.EventAttendee, error) {
	var attendee model.EventAttendee
	err := r.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&attendee).Error
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

// AddAttendee inserts the attendee together with its answers.
func (r *eventRepository) AddAttendee(ctx context.Context, attendee *model.EventAttendee) error {
	if attendee.JoinedAt.IsZero() {
		attendee.JoinedAt = time.Now()
	}
	return r.db.WithContext(ctx).Omit("User").Create(attendee).Error
}

func (r *eventRepository) RemoveAttendee(ctx context.Context, eventID, userID uint, log *model.ClubLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attendee model.EventAttendee
		if err := tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&attendee).Error; err != nil {
			return err
		}
		if err := tx.Where("attendee_id = ?", attendee.ID).Delete(&model.EventFormAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&attendee).Error; err != nil {
			return err
		}
		if log == nil {
			return nil
		}
		return tx.Omit("Actor").Create(log).Error
	})
}

func (r *eventRepository) ListInClubs(ctx context.Context, clubIDs []uint, offset, limit int) ([]model.Event, error) {
	if len(clubIDs) == 0 || limit <= 0 {
		return []model.Event{}, nil
	}
	var events []model.Event
	err := r.db.WithContext(ctx).Preload("Club").
		Where("club_id IN ?", clubIDs).
		Order("event_date DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) ListOutsideClubs(ctx context.Context, clubIDs []uint, offset, limit int) ([]model.Event, error) {
	if limit <= 0 {
		return []model.Event{}, nil
	}
	q := r.db.WithContext(ctx).Preload("Club")
	if len(clubIDs) > 0 {
		q = q.Where("club_id NOT IN ?", clubIDs)
	}
	var events []model.Event
	if err := q.Order("event_date DESC, id DESC").Offset(offset).Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) CountInClubs(ctx context.Context, clubIDs []uint) (int64, error) {
	if len(clubIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).Where("club_id IN ?", clubIDs).Count(&count).Error
	return count, err
}

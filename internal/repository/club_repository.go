package repository

import (
	"context"
	"math/rand"
	"strings"

	"gorm.io/gorm"

	"unihub/internal/model"
)

// ClubFilter narrows discovery to a university, faculty and department.
// Empty fields match everything.
type ClubFilter struct {
	University string
	Faculty    string
	Department string
}

// ClubRepository defines club persistence operations.
type ClubRepository interface {
	CreateWithOwner(ctx context.Context, club *model.Club, ownerID uint, log *model.ClubLog) error
	Update(ctx context.Context, club *model.Club, log *model.ClubLog) error
	FindByID(ctx context.Context, id uint) (*model.Club, error)
	FindDetail(ctx context.Context, id uint) (*model.Club, error)
	ListDetailed(ctx context.Context) ([]model.Club, error)
	ExistsByShortName(ctx context.Context, shortName string, excludeID uint) (bool, error)
	Search(ctx context.Context, term string) ([]model.Club, error)
	TopByMembers(ctx context.Context, f ClubFilter, limit int) ([]model.Club, error)
	TopByEvents(ctx context.Context, f ClubFilter, limit int) ([]model.Club, error)
	Random(ctx context.Context, f ClubFilter, limit int) ([]model.Club, error)
	PictureURLs(ctx context.Context, id uint) ([]string, error)
	Delete(ctx context.Context, id uint) error
}

type clubRepository struct {
	db *gorm.DB
}

// NewClubRepository creates a new club repository.
func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

// CreateWithOwner inserts the club, its approved owner and the creation log in one transaction.
func (r *clubRepository) CreateWithOwner(ctx context.Context, club *model.Club, ownerID uint, log *model.ClubLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(club).Error; err != nil {
			return err
		}
		owner := &model.Membership{
			ClubID:                    club.ID,
			UserID:                    ownerID,
			Role:                      model.RoleOwner,
			Status:                    model.StatusApproved,
			EventNotificationsEnabled: true,
			PostNotificationsEnabled:  true,
		}
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		log.ClubID = club.ID
		return tx.Omit("Actor").Create(log).Error
	})
}

func (r *clubRepository) Update(ctx context.Context, club *model.Club, log *model.ClubLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members", "Posts", "Events").Save(club).Error; err != nil {
			return err
		}
		return tx.Omit("Actor").Create(log).Error
	})
}

func (r *clubRepository) FindByID(ctx context.Context, id uint) (*model.Club, error) {
	var club model.Club
	if err := r.db.WithContext(ctx).First(&club, id).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

func detailed(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Members.User").
		Preload("Posts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC, id DESC") }).
		Preload("Posts.Club").
		Preload("Posts.Creator").
		Preload("Posts.Images").
		Preload("Posts.Likes").
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("event_date DESC, id DESC") }).
		Preload("Events.Club")
}

// FindDetail loads the club with members, posts and events, newest first.
func (r *clubRepository) FindDetail(ctx context.Context, id uint) (*model.Club, error) {
	var club model.Club
	if err := detailed(r.db.WithContext(ctx)).First(&club, id).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *clubRepository) ListDetailed(ctx context.Context) ([]model.Club, error) {
	var clubs []model.Club
	if err := detailed(r.db.WithContext(ctx)).Order("name").Find(&clubs).Error; err != nil {
		return nil, err
	}
	return clubs, nil
}

func (r *clubRepository) ExistsByShortName(ctx context.Context, shortName string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Club{}).Where("LOWER(short_name) = ?", strings.ToLower(shortName))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Search matches name or short name, case-insensitively.
func (r *clubRepository) Search(ctx context.Context, term string) ([]model.Club, error) {
	like := "%" + strings.ToLower(term) + "%"
	var clubs []model.Club
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(short_name) LIKE ?", like, like).
		Order("name").
		Find(&clubs).Error
	if err != nil {
		return nil, err
	}
	return clubs, nil
}

func (r *clubRepository) filtered(ctx context.Context, f ClubFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Club{})
	if f.University != "" {
		q = q.Where("LOWER(clubs.university) = ?", strings.ToLower(f.University))
	}
	if f.Faculty != "" {
		q = q.Where("LOWER(clubs.faculty) = ?", strings.ToLower(f.Faculty))
	}
	if f.Department != "" {
		q = q.Where("LOWER(clubs.department) = ?", strings.ToLower(f.Department))
	}
	return q
}

func (r *clubRepository) TopByMembers(ctx context.Context, f ClubFilter, limit int) ([]model.Club, error) {
	var clubs []model.Club
	err := r.filtered(ctx, f).
		Select("clubs.*, (SELECT COUNT(*) FROM club_members cm WHERE cm.club_id = clubs.id AND cm.status = ?) AS member_count", model.StatusApproved).
		Order("member_count DESC, clubs.id").
		Limit(limit).
		Find(&clubs).Error
	if err != nil {
		return nil, err
	}
	return clubs, nil
}

func (r *clubRepository) TopByEvents(ctx context.Context, f ClubFilter, limit int) ([]model.Club, error) {
	var clubs []model.Club
	err := r.filtered(ctx, f).
		Select("clubs.*, (SELECT COUNT(*) FROM events e WHERE e.club_id = clubs.id) AS event_count").
		Order("event_count DESC, clubs.id").
		Limit(limit).
		Find(&clubs).Error
	if err != nil {
		return nil, err
	}
	return clubs, nil
}

// Random samples up to limit clubs. Sampling happens in Go so the query stays
// portable across drivers.
func (r *clubRepository) Random(ctx context.Context, f ClubFilter, limit int) ([]model.Club, error) {
	var ids []uint
	if err := r.filtered(ctx, f).Pluck("clubs.id", &ids).Error; err != nil {
		return nil, err
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	if len(ids) == 0 {
		return []model.Club{}, nil
	}

	var clubs []model.Club
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&clubs).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Club, len(clubs))
	for _, c := range clubs {
		byID[c.ID] = c
	}
	out := make([]model.Club, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// PictureURLs returns every stored picture referenced by the club, its posts and events.
func (r *clubRepository) PictureURLs(ctx context.Context, id uint) ([]string, error) {
	db := r.db.WithContext(ctx)
	var urls []string

	var clubPic []string
	if err := db.Model(&model.Club{}).Where("id = ?", id).Pluck("profile_picture_url", &clubPic).Error; err != nil {
		return nil, err
	}
	urls = append(urls, clubPic...)

	var postPics []string
	posts := db.Model(&model.Post{}).Select("id").Where("club_id = ?", id)
	if err := db.Model(&model.PostImage{}).Where("post_id IN (?)", posts).Pluck("image_url", &postPics).Error; err != nil {
		return nil, err
	}
	urls = append(urls, postPics...)

	var eventPics []string
	if err := db.Model(&model.Event{}).Where("club_id = ?", id).Pluck("picture_url", &eventPics).Error; err != nil {
		return nil, err
	}
	return append(urls, eventPics...), nil
}

// Delete removes the club and everything that belongs to it.
func (r *clubRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := tx.Model(&model.Post{}).Select("id").Where("club_id = ?", id)
		events := tx.Model(&model.Event{}).Select("id").Where("club_id = ?", id)
		attendees := tx.Model(&model.EventAttendee{}).Select("id").Where("event_id IN (?)", events)

		steps := []func() error{
			func() error { return tx.Where("post_id IN (?)", posts).Delete(&model.PostLike{}).Error },
			func() error { return tx.Where("post_id IN (?)", posts).Delete(&model.PostImage{}).Error },
			func() error { return tx.Where("club_id = ?", id).Delete(&model.Post{}).Error },
			func() error { return tx.Where("attendee_id IN (?)", attendees).Delete(&model.EventFormAnswer{}).Error },
			func() error { return tx.Where("event_id IN (?)", events).Delete(&model.EventAttendee{}).Error },
			func() error { return tx.Where("event_id IN (?)", events).Delete(&model.EventFormQuestion{}).Error },
			func() error { return tx.Where("club_id = ?", id).Delete(&model.Event{}).Error },
			func() error { return tx.Where("club_id = ?", id).Delete(&model.ClubLog{}).Error },
			func() error { return tx.Where("club_id = ?", id).Delete(&model.Membership{}).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		res := tx.Delete(&model.Club{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Package seed loads a small demo data set for local development.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"unihub/internal/model"
	"unihub/internal/repository"
)

//go:embed demo.json
var demoData []byte

// Data is the demo fixture.
type Data struct {
	Users  []UserData  `json:"users"`
	Clubs  []ClubData  `json:"clubs"`
	Posts  []PostData  `json:"posts"`
	Events []EventData `json:"events"`
}

type UserData struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	StudentID  uint64 `json:"studentID"`
	University string `json:"university"`
	Faculty    string `json:"faculty"`
	Department string `json:"department"`
}

type MemberData struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

type ClubData struct {
	ShortName   string       `json:"shortName"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	University  string       `json:"university"`
	Faculty     string       `json:"faculty"`
	Department  string       `json:"department"`
	Owner       string       `json:"owner"`
	Members     []MemberData `json:"members"`
	Pending     []string     `json:"pending"`
}

type PostData struct {
	Club        string `json:"club"`
	Author      string `json:"author"`
	Description string `json:"description"`
	DaysAgo     int    `json:"daysAgo"`
}

type EventData struct {
	Club        string                    `json:"club"`
	Creator     string                    `json:"creator"`
	Description string                    `json:"description"`
	Location    string                    `json:"location"`
	InDays      int                       `json:"inDays"`
	Questions   []model.EventFormQuestion `json:"questions"`
}

// Result counts what a run created.
type Result struct {
	Users  int `json:"users"`
	Clubs  int `json:"clubs"`
	Posts  int `json:"posts"`
	Events int `json:"events"`
}

// Demo parses the embedded fixture.
func Demo() (*Data, error) {
	var d Data
	if err := json.Unmarshal(demoData, &d); err != nil {
		return nil, fmt.Errorf("parse demo data: %w", err)
	}
	return &d, nil
}

// Seeder writes fixtures through the repositories.
type Seeder struct {
	users       repository.UserRepository
	clubs       repository.ClubRepository
	memberships repository.MembershipRepository
	posts       repository.PostRepository
	events      repository.EventRepository
	logger      *zap.Logger
	now         func() time.Time
}

// New creates a seeder.
func New(
	users repository.UserRepository,
	clubs repository.ClubRepository,
	memberships repository.MembershipRepository,
	posts repository.PostRepository,
	events repository.EventRepository,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		users:       users,
		clubs:       clubs,
		memberships: memberships,
		posts:       posts,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
}

// Run seeds d. Users are created verified with the given password. Users and
// clubs that already exist are reused, so running twice only adds content
// for clubs created in this run.
func (s *Seeder) Run(ctx context.Context, d *Data, password string) (Result, error) {
	var res Result
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return res, fmt.Errorf("hash password: %w", err)
	}

	users := make(map[string]uint, len(d.Users))
	for _, u := range d.Users {
		id, created, err := s.user(ctx, u, string(hash))
		if err != nil {
			return res, err
		}
		users[u.Email] = id
		if created {
			res.Users++
		}
	}

	clubs := make(map[string]uint, len(d.Clubs))
	for _, c := range d.Clubs {
		id, err := s.club(ctx, c, users)
		if err != nil {
			return res, err
		}
		if id != 0 {
			clubs[c.ShortName] = id
			res.Clubs++
		}
	}

	now := s.now()
	for _, p := range d.Posts {
		clubID, ok := clubs[p.Club]
		if !ok {
			continue
		}
		post := &model.Post{
			ClubID:      clubID,
			CreatorID:   users[p.Author],
			Description: p.Description,
			CreatedAt:   now.AddDate(0, 0, -p.DaysAgo),
		}
		if err := s.posts.Create(ctx, post, nil); err != nil {
			return res, fmt.Errorf("seed post in %s: %w", p.Club, err)
		}
		res.Posts++
	}

	for _, e := range d.Events {
		clubID, ok := clubs[e.Club]
		if !ok {
			continue
		}
		event := &model.Event{
			ClubID:        clubID,
			CreatorID:     users[e.Creator],
			Description:   e.Description,
			Location:      e.Location,
			EventDate:     now.AddDate(0, 0, e.InDays).Truncate(time.Hour),
			FormQuestions: e.Questions,
		}
		if err := s.events.Create(ctx, event, nil); err != nil {
			return res, fmt.Errorf("seed event in %s: %w", e.Club, err)
		}
		res.Events++
	}

	s.logger.Info("demo data seeded",
		zap.Int("users", res.Users),
		zap.Int("clubs", res.Clubs),
		zap.Int("posts", res.Posts),
		zap.Int("events", res.Events),
	)
	return res, nil
}

func (s *Seeder) user(ctx context.Context, u UserData, hash string) (uint, bool, error) {
	existing, err := s.users.FindByEmail(ctx, u.Email)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, fmt.Errorf("check user %s: %w", u.Email, err)
	}
	user := &model.User{
		Email:             u.Email,
		PasswordHash:      hash,
		StudentID:         u.StudentID,
		Name:              u.Name,
		Surname:           u.Surname,
		ProfilePictureURL: model.DefaultProfilePictureURL,
		University:        u.University,
		Faculty:           u.Faculty,
		Department:        u.Department,
		EmailVerified:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return 0, false, fmt.Errorf("create user %s: %w", u.Email, err)
	}
	return user.ID, true, nil
}

// club returns 0 when the short name is already taken.
func (s *Seeder) club(ctx context.Context, c ClubData, users map[string]uint) (uint, error) {
	taken, err := s.clubs.ExistsByShortName(ctx, c.ShortName, 0)
	if err != nil {
		return 0, fmt.Errorf("check club %s: %w", c.ShortName, err)
	}
	if taken {
		s.logger.Debug("club exists, skipping", zap.String("short_name", c.ShortName))
		return 0, nil
	}

	ownerID := users[c.Owner]
	club := &model.Club{
		Name:              c.Name,
		ShortName:         c.ShortName,
		Description:       c.Description,
		University:        c.University,
		Faculty:           c.Faculty,
		Department:        c.Department,
		ProfilePictureURL: model.DefaultClubPictureURL,
		Color:             "#3f51b5",
	}
	log := &model.ClubLog{ActorID: ownerID, Action: "created the club", Timestamp: s.now()}
	if err := s.clubs.CreateWithOwner(ctx, club, ownerID, log); err != nil {
		return 0, fmt.Errorf("create club %s: %w", c.ShortName, err)
	}

	for _, m := range c.Members {
		if err := s.memberships.Create(ctx, &model.Membership{
			ClubID:                    club.ID,
			UserID:                    users[m.Email],
			Role:                      m.Role,
			Status:                    model.StatusApproved,
			EventNotificationsEnabled: true,
			PostNotificationsEnabled:  true,
		}); err != nil {
			return 0, fmt.Errorf("add member %s to %s: %w", m.Email, c.ShortName, err)
		}
	}
	for _, email := range c.Pending {
		if err := s.memberships.Create(ctx, &model.Membership{
			ClubID: club.ID,
			UserID: users[email],
			Role:   model.RoleMember,
			Status: model.StatusPending,
		}); err != nil {
			return 0, fmt.Errorf("add join request %s to %s: %w", email, c.ShortName, err)
		}
	}
	return club.ID, nil
}

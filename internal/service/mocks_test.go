package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"unihub/internal/model"
	"unihub/internal/repository"
	"unihub/internal/storage"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByStudentID(ctx context.Context, studentID uint64) (bool, error) {
	args := m.Called(ctx, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SetEmailVerified(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) SearchByName(ctx context.Context, term string) ([]model.User, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockClubRepository is a mock implementation of ClubRepository.
type MockClubRepository struct {
	mock.Mock
}

func (m *MockClubRepository) CreateWithOwner(ctx context.Context, club *model.Club, ownerID uint, log *model.ClubLog) error {
	args := m.Called(ctx, club, ownerID, log)
	return args.Error(0)
}

func (m *MockClubRepository) Update(ctx context.Context, club *model.Club, log *model.ClubLog) error {
	args := m.Called(ctx, club, log)
	return args.Error(0)
}

func (m *MockClubRepository) FindByID(ctx context.Context, id uint) (*model.Club, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Club), args.Error(1)
}

func (m *MockClubRepository) FindDetail(ctx context.Context, id uint) (*model.Club, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Club), args.Error(1)
}

func (m *MockClubRepository) ListDetailed(ctx context.Context) ([]model.Club, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Club), args.Error(1)
}

func (m *MockClubRepository) ExistsByShortName(ctx context.Context, shortName string, excludeID uint) (bool, error) {
	args := m.Called(ctx, shortName, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClubRepository) Search(ctx context.Context, term string) ([]model.Club, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Club), args.Error(1)
}

func (m *MockClubRepository) TopByMembers(ctx context.Context, f repository.ClubFilter, limit int) ([]model.Club, error) {
	args := m.Called(ctx, f, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Club), args.Error(1)
}

func (m *MockClubRepository) TopByEvents(ctx context.Context, f repository.ClubFilter, limit int) ([]model.Club, error) {
	args := m.Called(ctx, f, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Club), args.Error(1)
}

func (m *MockClubRepository) Random(ctx context.Context, f repository.ClubFilter, limit int) ([]model.Club, error) {
	args := m.Called(ctx, f, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Club), args.Error(1)
}

func (m *MockClubRepository) PictureURLs(ctx context.Context, id uint) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockClubRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMembershipRepository is a mock implementation of MembershipRepository.
// WithTransaction runs fn against the mock itself.
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Find(ctx context.Context, clubID, userID uint) (*model.Membership, error) {
	args := m.Called(ctx, clubID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *model.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) Update(ctx context.Context, membership *model.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, clubID, userID uint) error {
	args := m.Called(ctx, clubID, userID)
	return args.Error(0)
}

func (m *MockMembershipRepository) ListByStatus(ctx context.Context, clubID uint, status model.MembershipStatus) ([]model.Membership, error) {
	args := m.Called(ctx, clubID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) ListForProfile(ctx context.Context, userID uint) ([]model.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) ListNotifiable(ctx context.Context, clubID uint, kind repository.NotificationKind) ([]model.Membership, error) {
	args := m.Called(ctx, clubID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) ApprovedClubIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockMembershipRepository) CountOwned(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMembershipRepository) RemoveClubAttendance(ctx context.Context, clubID, userID uint) error {
	args := m.Called(ctx, clubID, userID)
	return args.Error(0)
}

func (m *MockMembershipRepository) AppendLog(ctx context.Context, log *model.ClubLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockMembershipRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.MembershipRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m)
}

// MockClubLogRepository is a mock implementation of ClubLogRepository.
type MockClubLogRepository struct {
	mock.Mock
}

func (m *MockClubLogRepository) ListByClub(ctx context.Context, clubID uint) ([]model.ClubLog, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ClubLog), args.Error(1)
}

func (m *MockClubLogRepository) FindByID(ctx context.Context, id uint) (*model.ClubLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClubLog), args.Error(1)
}

func (m *MockClubLogRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPostRepository is a mock implementation of PostRepository.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) List(ctx context.Context) ([]model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *model.Post, log *model.ClubLog) error {
	args := m.Called(ctx, post, log)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, post *model.Post, addURLs, removeURLs []string) error {
	args := m.Called(ctx, post, addURLs, removeURLs)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint, log *model.ClubLog) error {
	args := m.Called(ctx, id, log)
	return args.Error(0)
}

func (m *MockPostRepository) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) ListInClubs(ctx context.Context, clubIDs []uint, offset, limit int) ([]model.Post, error) {
	args := m.Called(ctx, clubIDs, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) ListOutsideClubs(ctx context.Context, clubIDs []uint, offset, limit int) ([]model.Post, error) {
	args := m.Called(ctx, clubIDs, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) CountInClubs(ctx context.Context, clubIDs []uint) (int64, error) {
	args := m.Called(ctx, clubIDs)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) List(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventRepository) ListUpcoming(ctx context.Context, now time.Time) ([]model.Event, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventRepository) ListPast(ctx context.Context, now time.Time) ([]model.Event, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventRepository) ListAttendedBy(ctx context.Context, userID uint) ([]model.Event, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) Create(ctx context.Context, event *model.Event, log *model.ClubLog) error {
	args := m.Called(ctx, event, log)
	return args.Error(0)
}

func (m *MockEventRepository) Update(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id uint, log *model.ClubLog) error {
	args := m.Called(ctx, id, log)
	return args.Error(0)
}

func (m *MockEventRepository) FindAttendee(ctx context.Context, eventID, userID uint) (*model.EventAttendee, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventAttendee), args.Error(1)
}

func (m *MockEventRepository) AddAttendee(ctx context.Context, attendee *model.EventAttendee) error {
	args := m.Called(ctx, attendee)
	return args.Error(0)
}

func (m *MockEventRepository) RemoveAttendee(ctx context.Context, eventID, userID uint, log *model.ClubLog) error {
	args := m.Called(ctx, eventID, userID, log)
	return args.Error(0)
}

func (m *MockEventRepository) ListInClubs(ctx context.Context, clubIDs []uint, offset, limit int) ([]model.Event, error) {
	args := m.Called(ctx, clubIDs, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventRepository) ListOutsideClubs(ctx context.Context, clubIDs []uint, offset, limit int) ([]model.Event, error) {
	args := m.Called(ctx, clubIDs, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventRepository) CountInClubs(ctx context.Context, clubIDs []uint) (int64, error) {
	args := m.Called(ctx, clubIDs)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface and VerificationStore.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenStore) StoreVerificationCode(ctx context.Context, email, code string, ttl, cooldown time.Duration) error {
	args := m.Called(ctx, email, code, ttl, cooldown)
	return args.Error(0)
}

func (m *MockTokenStore) GetVerificationCode(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) DeleteVerificationCode(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockTokenStore) VerificationCooldown(ctx context.Context, email string) (time.Duration, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(time.Duration), args.Error(1)
}

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
	return args.Error(0)
}

// MockStorage is a mock implementation of storage.Service.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) PutObject(ctx context.Context, in storage.UploadInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) KeyFromURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}

// recordingNotifier captures queued notifications.
type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

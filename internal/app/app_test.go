package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"unihub/internal/cache"
	"unihub/internal/config"
	"unihub/internal/db"
	"unihub/internal/errors"
	"unihub/internal/handler"
	"unihub/internal/model"
	"unihub/internal/service"
	"unihub/internal/storage"
)

// inbox records sent mail so tests can read verification codes.
type inbox struct {
	mu   sync.Mutex
	sent map[string][]string
}

func (i *inbox) Send(_ context.Context, to, _, html string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sent[to] = append(i.sent[to], html)
	return nil
}

var codePattern = regexp.MustCompile(`<strong>(\d{6})</strong>`)

func (i *inbox) code(t *testing.T, to string) string {
	t.Helper()
	i.mu.Lock()
	defer i.mu.Unlock()
	msgs := i.sent[to]
	require.NotEmpty(t, msgs, "no mail sent to %s", to)
	m := codePattern.FindStringSubmatch(msgs[len(msgs)-1])
	require.Len(t, m, 2)
	return m[1]
}

type testServer struct {
	app  *App
	mail *inbox
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := db.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := cache.New(miniredis.RunT(t).Addr(), "", 0)
	t.Cleanup(func() { _ = store.Close() })

	box := &inbox{sent: map[string][]string{}}
	a := New(Deps{
		Config:  &config.Config{Env: "test", JWTSecret: "test-secret"},
		Logger:  zap.NewNop(),
		DB:      gormDB,
		Cache:   store,
		Mailer:  box,
		Storage: storage.Disabled{},
	})
	t.Cleanup(a.Close)
	return &testServer{app: a, mail: box}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.app.Echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errors.ErrorResponse](t, rec).Code
}

var studentSeq = 0

// signUp registers, optionally verifies, and logs a user in.
func (s *testServer) signUp(t *testing.T, name string, verify bool) (string, handler.AuthResponse) {
	t.Helper()
	studentSeq++
	email := strings.ToLower(name) + "@metu.edu.tr"
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", handler.RegisterRequest{
		Email:     email,
		Password:  "secret123",
		Name:      name,
		Surname:   "Tester",
		StudentID: fmt.Sprintf("23%08d", studentSeq),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	if verify {
		rec = s.do(t, http.MethodPost, "/api/auth/verify-email", "", handler.VerifyEmailRequest{
			Email: email,
			Code:  s.mail.code(t, email),
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", handler.LoginRequest{Email: email, Password: "secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[handler.AuthResponse](t, rec)
	return resp.AccessToken, resp
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/clubs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/api/clubs", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_ValidationAndConflicts(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	s.signUp(t, "Ayse", false)
	rec = s.do(t, http.MethodPost, "/api/auth/register", "", handler.RegisterRequest{
		Email: "ayse@metu.edu.tr", Password: "secret123", Name: "Ayse", Surname: "Again", StudentID: "9999999999",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_TAKEN", errorCode(t, rec))
}

func TestVerificationStatusAndLogout(t *testing.T) {
	s := newTestServer(t)
	token, login := s.signUp(t, "Mehmet", false)

	rec := s.do(t, http.MethodGet, "/api/auth/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[handler.StatusResponse](t, rec).EmailVerified)

	rec = s.do(t, http.MethodPost, "/api/auth/verify-email", "", handler.VerifyEmailRequest{
		Email: "mehmet@metu.edu.tr",
		Code:  s.mail.code(t, "mehmet@metu.edu.tr"),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/auth/status", token, nil)
	assert.True(t, decode[handler.StatusResponse](t, rec).EmailVerified)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", handler.RefreshRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[handler.AuthResponse](t, rec).AccessToken)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", token, handler.LogoutRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/auth/status", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", handler.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateClub_RequiresVerifiedEmail(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "Zeynep", false)

	rec := s.do(t, http.MethodPost, "/api/clubs", token, handler.ClubRequest{
		Name: "Chess Club", ShortName: "CHESS", Description: "Weekly chess meetups",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "EMAIL_NOT_VERIFIED", errorCode(t, rec))
}

func TestClubMembershipPostFlow(t *testing.T) {
	s := newTestServer(t)
	owner, _ := s.signUp(t, "Owner", true)
	member, memberLogin := s.signUp(t, "Member", false)

	rec := s.do(t, http.MethodPost, "/api/clubs", owner, handler.ClubRequest{
		Name: "Chess Club", ShortName: "CHESS", Description: "Weekly chess meetups", University: "METU",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	club := decode[model.ClubResponse](t, rec)
	require.NotNil(t, club.CurrentUserMembership)
	assert.Equal(t, model.RoleOwner, club.CurrentUserMembership.Role)

	rec = s.do(t, http.MethodPost, "/api/clubs", owner, handler.ClubRequest{
		Name: "Other Chess", ShortName: "chess", Description: "Duplicate short name",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	clubPath := fmt.Sprintf("/api/clubs/%d", club.ID)
	rec = s.do(t, http.MethodPost, clubPath+"/join", member, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, model.StatusPending, decode[model.CurrentUserMembership](t, rec).Status)

	rec = s.do(t, http.MethodGet, clubPath+"/pending-members", member, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, clubPath+"/pending-members", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decode[[]model.MemberInClub](t, rec)
	require.Len(t, pending, 1)
	assert.Equal(t, memberLogin.User.ID, pending[0].ID)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("%s/requests/%d/approve", clubPath, memberLogin.User.ID), owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, clubPath, member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[model.ClubResponse](t, rec)
	require.NotNil(t, view.CurrentUserMembership)
	assert.Equal(t, model.StatusApproved, view.CurrentUserMembership.Status)
	assert.Len(t, view.Members, 2)

	rec = s.do(t, http.MethodPost, clubPath+"/posts", member, handler.CreatePostRequest{Description: "Not allowed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, clubPath+"/posts", owner, handler.CreatePostRequest{Description: "Tournament on Friday"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[model.PostSummary](t, rec)

	rec = s.do(t, http.MethodGet, "/api/feed/posts?page=0&size=10&onlyMemberClubs=true", member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[[]model.PostSummary](t, rec)
	require.Len(t, feed, 1)
	assert.Equal(t, post.ID, feed[0].ID)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/toggle-like", post.ID), member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	liked := decode[model.PostSummary](t, rec)
	assert.True(t, liked.IsLikedByCurrentUser)
	assert.Equal(t, 1, liked.LikeCount)

	rec = s.do(t, http.MethodGet, clubPath+"/logs", member, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, clubPath+"/logs", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.GreaterOrEqual(t, len(decode[[]model.ClubLogResponse](t, rec)), 2)

	rec = s.do(t, http.MethodDelete, clubPath+"/leave", owner, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "OWNER_CANNOT_LEAVE", errorCode(t, rec))

	rec = s.do(t, http.MethodDelete, clubPath+"/leave", member, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEventFormFlow(t *testing.T) {
	s := newTestServer(t)
	owner, _ := s.signUp(t, "Host", true)
	guest, guestLogin := s.signUp(t, "Guest", false)

	rec := s.do(t, http.MethodPost, "/api/clubs", owner, handler.ClubRequest{
		Name: "Hack Club", ShortName: "HACK", Description: "Builders and tinkerers",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	club := decode[model.ClubResponse](t, rec)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/clubs/%d/events", club.ID), owner, handler.EventRequest{
		Description: "Hackathon",
		Location:    "A101",
		EventDate:   time.Now().Add(72 * time.Hour),
		Questions: []handler.QuestionRequest{
			{QuestionText: "Team name", QuestionType: model.QuestionText},
			{QuestionText: "Phone", QuestionType: model.QuestionPhone},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	event := decode[model.EventDetail](t, rec)
	require.Len(t, event.FormQuestions, 2)
	eventPath := fmt.Sprintf("/api/events/%d", event.ID)

	rec = s.do(t, http.MethodPost, eventPath+"/attend", guest, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "FORM_REQUIRED", errorCode(t, rec))

	answers := handler.SubmitFormRequest{Answers: []service.AnswerInput{
		{QuestionID: event.FormQuestions[0].ID, AnswerText: "Gophers"},
		{QuestionID: event.FormQuestions[1].ID, AnswerText: "+90 555 123 4567"},
	}}
	rec = s.do(t, http.MethodPost, eventPath+"/submit-form", guest, answers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[model.EventDetail](t, rec).IsCurrentUserAttending)

	rec = s.do(t, http.MethodPost, eventPath+"/submit-form", guest, answers)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, eventPath+"/submissions", guest, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, eventPath+"/submissions", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	subs := decode[[]model.SubmissionResponse](t, rec)
	require.Len(t, subs, 2)
	require.Len(t, subs[1].UserAnswers, 1)
	assert.Equal(t, guestLogin.User.ID, subs[1].UserAnswers[0].UserID)
	assert.Equal(t, "+905551234567", subs[1].UserAnswers[0].AnswerText)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("%s/attendees/%d", eventPath, guestLogin.User.ID), owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodDelete, eventPath+"/leave", guest, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_ATTENDING", errorCode(t, rec))
}

func TestUpdateMe_NullPictureResetsToDefault(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "Can", false)

	rec := s.do(t, http.MethodPut, "/api/users/me", token, map[string]interface{}{
		"name": "Can", "surname": "Ozturk", "profilePictureUrl": "https://cdn.example.com/me.webp",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "https://cdn.example.com/me.webp", decode[model.UserResponse](t, rec).ProfilePictureURL)

	rec = s.do(t, http.MethodPut, "/api/users/me", token, map[string]interface{}{"name": "Can", "surname": "Ozturk"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://cdn.example.com/me.webp", decode[model.UserResponse](t, rec).ProfilePictureURL)

	rec = s.do(t, http.MethodPut, "/api/users/me", token, map[string]interface{}{
		"name": "Can", "surname": "Ozturk", "profilePictureUrl": nil,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[model.UserResponse](t, rec)
	assert.Equal(t, model.DefaultProfilePictureURL, me.ProfilePictureURL)
	assert.Equal(t, "Ozturk", me.Surname)
}

func TestUpload_StorageDisabled(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "Elif", false)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 8, 8))))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("kind", "post"))
	part, err := w.CreateFormFile("file", "pic.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.app.Echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "STORAGE_DISABLED", errorCode(t, rec))
}

func TestSeedDemo(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/seed/demo", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Positive(t, decode[handler.SeedResponse](t, rec).Created.Clubs)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", handler.LoginRequest{
		Email: "ayse.yilmaz@metu.edu.tr", Password: handler.DemoPassword,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func (s *testServer) me(t *testing.T, token string) model.UserResponse {
	t.Helper()
	rec := s.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[model.UserResponse](t, rec)
}

func TestProfile_ReflectsActivityChangesImmediately(t *testing.T) {
	s := newTestServer(t)
	owner, _ := s.signUp(t, "Leader", true)
	member, memberLogin := s.signUp(t, "Follower", false)

	// warm the profile cache before anything changes
	require.Empty(t, s.me(t, member).Memberships)

	rec := s.do(t, http.MethodPost, "/api/clubs", owner, handler.ClubRequest{
		Name: "Robotics Club", ShortName: "ROBO", Description: "Robots built every weekend",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	club := decode[model.ClubResponse](t, rec)
	clubPath := fmt.Sprintf("/api/clubs/%d", club.ID)

	rec = s.do(t, http.MethodPost, clubPath+"/join", member, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Empty(t, s.me(t, member).Memberships, "pending requests are not memberships")

	rec = s.do(t, http.MethodPost, fmt.Sprintf("%s/requests/%d/approve", clubPath, memberLogin.User.ID), owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := s.me(t, member)
	require.Len(t, profile.Memberships, 1)
	assert.Equal(t, club.ID, profile.Memberships[0].ClubID)
	assert.Equal(t, model.RoleMember, profile.Memberships[0].UserRoleInClub)
	require.Len(t, profile.Memberships[0].OtherMembers, 1)

	ownerProfile := s.me(t, owner)
	require.Len(t, ownerProfile.Memberships, 1)
	assert.Len(t, ownerProfile.Memberships[0].OtherMembers, 1, "owner sees the new member without re-login")

	rec = s.do(t, http.MethodPost, clubPath+"/events", owner, handler.EventRequest{
		Description: "Sumo robot tournament",
		Location:    "Lab 3",
		EventDate:   time.Now().Add(48 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	event := decode[model.EventDetail](t, rec)
	eventPath := fmt.Sprintf("/api/events/%d", event.ID)

	rec = s.do(t, http.MethodPost, eventPath+"/attend", member, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile = s.me(t, member)
	require.Len(t, profile.UpcomingAttendedEvents, 1)
	assert.Equal(t, event.ID, profile.UpcomingAttendedEvents[0].ID)

	rec = s.do(t, http.MethodDelete, eventPath+"/leave", member, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, s.me(t, member).UpcomingAttendedEvents)

	rec = s.do(t, http.MethodDelete, clubPath, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, s.me(t, member).Memberships)
	assert.Empty(t, s.me(t, owner).Memberships)
}

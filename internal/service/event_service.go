package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "unihub/internal/errors"
	"unihub/internal/model"
	"unihub/internal/repository"
	"unihub/internal/storage"
)

const (
	maxEventDescription = 500
	maxEventLocation    = 255
)

// QuestionInput is a registration question supplied on event creation.
type QuestionInput struct {
	QuestionText string
	QuestionType model.QuestionType
}

// EventInput is the payload for creating or updating an event. Questions are
// only read on creation.
type EventInput struct {
	Description string
	Location    string
	EventDate   time.Time
	PictureURL  string
	Questions   []QuestionInput
}

// EventService manages events, attendance and registration forms.
type EventService interface {
	ListEvents(ctx context.Context) ([]model.EventSummary, error)
	ListUpcoming(ctx context.Context) ([]model.EventSummary, error)
	ListPast(ctx context.Context) ([]model.EventSummary, error)
	GetEvent(ctx context.Context, id, viewerID uint) (*model.EventDetail, error)
	CreateEvent(ctx context.Context, clubID, userID uint, in EventInput) (*model.EventDetail, error)
	UpdateEvent(ctx context.Context, id, userID uint, in EventInput) (*model.EventDetail, error)
	DeleteEvent(ctx context.Context, id, userID uint) error
	Attend(ctx context.Context, id, userID uint) (*model.EventDetail, error)
	SubmitForm(ctx context.Context, id, userID uint, answers []AnswerInput) (*model.EventDetail, error)
	Leave(ctx context.Context, id, userID uint) error
	RemoveAttendee(ctx context.Context, id, actorID, targetID uint) error
	Submissions(ctx context.Context, id, userID uint) ([]model.SubmissionResponse, error)
}

type eventService struct {
	repo        repository.EventRepository
	clubs       repository.ClubRepository
	memberships repository.MembershipRepository
	users       repository.UserRepository
	storage     storage.Service
	notifier    Notifier
	forms       *FormValidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewEventService creates a new event service.
func NewEventService(
	repo repository.EventRepository,
	clubs repository.ClubRepository,
	memberships repository.MembershipRepository,
	users repository.UserRepository,
	store storage.Service,
	notifier Notifier,
	logger *zap.Logger,
) EventService {
	return &eventService{
		repo:        repo,
		clubs:       clubs,
		memberships: memberships,
		users:       users,
		storage:     store,
		notifier:    notifier,
		forms:       NewFormValidator(),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *eventService) ListEvents(ctx context.Context) ([]model.EventSummary, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewEventSummaries(events), nil
}

func (s *eventService) ListUpcoming(ctx context.Context) ([]model.EventSummary, error) {
	events, err := s.repo.ListUpcoming(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return model.NewEventSummaries(events), nil
}

func (s *eventService) ListPast(ctx context.Context) ([]model.EventSummary, error) {
	events, err := s.repo.ListPast(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return model.NewEventSummaries(events), nil
}

// GetEvent includes attendee answers only when the viewer can manage the event.
func (s *eventService) GetEvent(ctx context.Context, id, viewerID uint) (*model.EventDetail, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrEventNotFound)
	}
	membership, err := findMembership(ctx, s.memberships, event.ClubID, viewerID)
	if err != nil {
		return nil, err
	}
	canManage := event.CreatorID == viewerID || membership.CanManage()

	questionText := make(map[uint]string, len(event.FormQuestions))
	for _, q := range event.FormQuestions {
		questionText[q.ID] = q.QuestionText
	}

	detail := &model.EventDetail{
		ID:                        event.ID,
		Description:               event.Description,
		PictureURL:                event.PictureURL,
		EventDate:                 event.EventDate,
		Location:                  event.Location,
		Club:                      model.NewClubSummary(&event.Club),
		Creator:                   model.NewUserSummary(&event.Creator),
		AttendeeCount:             len(event.Attendees),
		CanCurrentUserManage:      canManage,
		IsCurrentUserMemberOfClub: membership.IsApproved(),
		FormQuestions:             model.NewFormQuestionResponses(event.FormQuestions),
		Attendees:                 make([]model.AttendeeResponse, 0, len(event.Attendees)),
	}
	for _, a := range event.Attendees {
		if a.UserID == viewerID {
			detail.IsCurrentUserAttending = true
		}
		attendee := model.AttendeeResponse{User: model.NewUserSummary(&a.User), JoinedAt: a.JoinedAt}
		if canManage {
			attendee.FormAnswers = make([]model.AnswerResponse, 0, len(a.Answers))
			for _, ans := range a.Answers {
				attendee.FormAnswers = append(attendee.FormAnswers, model.AnswerResponse{
					QuestionID:   ans.QuestionID,
					QuestionText: questionText[ans.QuestionID],
					AnswerText:   ans.AnswerText,
				})
			}
		}
		detail.Attendees = append(detail.Attendees, attendee)
	}
	return detail, nil
}

// CreateEvent registers the creator as the first attendee and notifies members.
func (s *eventService) CreateEvent(ctx context.Context, clubID, userID uint, in EventInput) (*model.EventDetail, error) {
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrClubNotFound)
	}
	if _, err := requireManager(ctx, s.memberships, clubID, userID); err != nil {
		return nil, err
	}
	if err := s.validateEvent(in); err != nil {
		return nil, err
	}

	event := &model.Event{
		ClubID:      clubID,
		CreatorID:   userID,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		EventDate:   in.EventDate,
		PictureURL:  strings.TrimSpace(in.PictureURL),
	}
	for _, q := range in.Questions {
		text := strings.TrimSpace(q.QuestionText)
		if text == "" || !q.QuestionType.Valid() {
			return nil, apperrors.Invalid("each question needs text and a type of TEXT, BOOLEAN, PHONE or EMAIL")
		}
		event.FormQuestions = append(event.FormQuestions, model.EventFormQuestion{QuestionText: text, QuestionType: q.QuestionType})
	}

	log := newLog(clubID, userID, "%s created an event at %s", fullName(ctx, s.users, userID), event.Location)
	if err := s.repo.Create(ctx, event, log); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.notifier.Notify(Notification{
		Kind:     repository.NotifyEvents,
		ClubID:   clubID,
		ClubName: club.Name,
		ActorID:  userID,
		Text:     event.Description,
		Location: event.Location,
		When:     event.EventDate,
	})
	return s.GetEvent(ctx, event.ID, userID)
}

// UpdateEvent requires the new date to be in the future.
func (s *eventService) UpdateEvent(ctx context.Context, id, userID uint, in EventInput) (*model.EventDetail, error) {
	event, err := s.authorized(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.validateEvent(in); err != nil {
		return nil, err
	}

	picture := strings.TrimSpace(in.PictureURL)
	stale := ""
	if picture != event.PictureURL {
		stale = event.PictureURL
	}
	event.Description = strings.TrimSpace(in.Description)
	event.Location = strings.TrimSpace(in.Location)
	event.EventDate = in.EventDate
	event.PictureURL = picture

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if stale != "" {
		storage.DeleteURLs(ctx, s.storage, s.logger, stale)
	}
	return s.GetEvent(ctx, id, userID)
}

func (s *eventService) DeleteEvent(ctx context.Context, id, userID uint) error {
	event, err := s.authorized(ctx, id, userID)
	if err != nil {
		return err
	}
	log := newLog(event.ClubID, userID, "%s deleted the event at %s", fullName(ctx, s.users, userID), event.Location)
	if err := s.repo.Delete(ctx, id, log); err != nil {
		return notFound(err, apperrors.ErrEventNotFound)
	}
	storage.DeleteURLs(ctx, s.storage, s.logger, event.PictureURL)
	return nil
}

// Attend is idempotent. Events with questions must go through SubmitForm.
func (s *eventService) Attend(ctx context.Context, id, userID uint) (*model.EventDetail, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrEventNotFound)
	}
	attending, err := s.isAttending(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if attending {
		return s.GetEvent(ctx, id, userID)
	}
	if len(event.FormQuestions) > 0 {
		return nil, apperrors.ErrFormRequired
	}
	if !event.IsUpcoming(s.now()) {
		return nil, apperrors.ErrEventInPast
	}

	if err := s.repo.AddAttendee(ctx, &model.EventAttendee{EventID: id, UserID: userID, JoinedAt: s.now()}); err != nil {
		return nil, fmt.Errorf("add attendee: %w", err)
	}
	return s.GetEvent(ctx, id, userID)
}

func (s *eventService) SubmitForm(ctx context.Context, id, userID uint, answers []AnswerInput) (*model.EventDetail, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrEventNotFound)
	}
	attending, err := s.isAttending(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if attending {
		return nil, apperrors.ErrAlreadyAttending
	}
	if !event.IsUpcoming(s.now()) {
		return nil, apperrors.ErrEventInPast
	}

	validated, err := s.forms.ValidateAnswers(event.FormQuestions, answers)
	if err != nil {
		return nil, err
	}
	attendee := &model.EventAttendee{EventID: id, UserID: userID, JoinedAt: s.now(), Answers: validated}
	if err := s.repo.AddAttendee(ctx, attendee); err != nil {
		return nil, fmt.Errorf("add attendee: %w", err)
	}
	return s.GetEvent(ctx, id, userID)
}

func (s *eventService) Leave(ctx context.Context, id, userID uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, apperrors.ErrEventNotFound)
	}
	return notFound(s.repo.RemoveAttendee(ctx, id, userID, nil), apperrors.ErrNotAttending)
}

func (s *eventService) RemoveAttendee(ctx context.Context, id, actorID, targetID uint) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, apperrors.ErrEventNotFound)
	}
	if _, err := requireManager(ctx, s.memberships, event.ClubID, actorID); err != nil {
		return err
	}
	if actorID == targetID {
		return apperrors.ErrSelfTarget
	}
	log := newLog(event.ClubID, actorID, "%s removed %s from the event at %s",
		fullName(ctx, s.users, actorID), fullName(ctx, s.users, targetID), event.Location)
	return notFound(s.repo.RemoveAttendee(ctx, id, targetID, log), apperrors.ErrNotAttending)
}

// Submissions groups the answers of every attendee by question.
func (s *eventService) Submissions(ctx context.Context, id, userID uint) ([]model.SubmissionResponse, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrEventNotFound)
	}
	if _, err := requireManager(ctx, s.memberships, event.ClubID, userID); err != nil {
		return nil, err
	}

	out := make([]model.SubmissionResponse, 0, len(event.FormQuestions))
	index := make(map[uint]int, len(event.FormQuestions))
	for i, q := range event.FormQuestions {
		index[q.ID] = i
		out = append(out, model.SubmissionResponse{QuestionID: q.ID, QuestionText: q.QuestionText, UserAnswers: []model.UserAnswer{}})
	}
	for _, a := range event.Attendees {
		for _, ans := range a.Answers {
			i, ok := index[ans.QuestionID]
			if !ok {
				continue
			}
			out[i].UserAnswers = append(out[i].UserAnswers, model.UserAnswer{
				UserID:     a.UserID,
				UserName:   a.User.FullName(),
				AnswerText: ans.AnswerText,
			})
		}
	}
	return out, nil
}

func (s *eventService) authorized(ctx context.Context, id, userID uint) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrEventNotFound)
	}
	if event.CreatorID == userID {
		return event, nil
	}
	if _, err := requireManager(ctx, s.memberships, event.ClubID, userID); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) isAttending(ctx context.Context, id, userID uint) (bool, error) {
	_, err := s.repo.FindAttendee(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find attendee: %w", err)
	}
	return true, nil
}

func (s *eventService) validateEvent(in EventInput) error {
	n := len([]rune(strings.TrimSpace(in.Description)))
	if n == 0 || n > maxEventDescription {
		return apperrors.Invalid(fmt.Sprintf("description must be between 1 and %d characters", maxEventDescription))
	}
	if len([]rune(strings.TrimSpace(in.Location))) > maxEventLocation {
		return apperrors.Invalid(fmt.Sprintf("location must be at most %d characters", maxEventLocation))
	}
	if !in.EventDate.After(s.now()) {
		return apperrors.ErrEventInPast
	}
	return nil
}

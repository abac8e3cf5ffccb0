package model

import "time"

// UserSummary is the public card of a user.
type UserSummary struct {
	ID                uint   `json:"id"`
	StudentID         uint64 `json:"studentID"`
	Name              string `json:"name"`
	Surname           string `json:"surname"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}

// MemberInClub is a user as seen from a club's member list.
type MemberInClub struct {
	UserSummary
	Role   Role             `json:"role"`
	Status MembershipStatus `json:"status"`
}

// CurrentUserMembership describes the caller's own membership in a club.
type CurrentUserMembership struct {
	Role                      Role             `json:"role"`
	Status                    MembershipStatus `json:"status"`
	EventNotificationsEnabled bool             `json:"eventNotificationsEnabled"`
	PostNotificationsEnabled  bool             `json:"postNotificationsEnabled"`
}

// ClubSummary is the compact club shape used in lists.
type ClubSummary struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	ShortName         string `json:"shortName"`
	ProfilePictureURL string `json:"profilePictureUrl"`
	University        string `json:"university"`
	Faculty           string `json:"faculty"`
	Department        string `json:"department"`
	Color             string `json:"color"`
}

// ClubResponse is the full club view.
type ClubResponse struct {
	ClubSummary
	Description           string                 `json:"description"`
	Members               []MemberInClub         `json:"members"`
	Posts                 []PostSummary          `json:"posts"`
	Events                []EventSummary         `json:"events"`
	CurrentUserMembership *CurrentUserMembership `json:"currentUserMembership"`
}

// DiscoverResponse groups the three discovery lists.
type DiscoverResponse struct {
	TopByMembers []ClubSummary `json:"topByMembers"`
	TopByEvents  []ClubSummary `json:"topByEvents"`
	RandomClubs  []ClubSummary `json:"randomClubs"`
}

// ClubLogResponse is one audit entry.
type ClubLogResponse struct {
	ID        uint      `json:"id"`
	ActorName string    `json:"actorName"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// PostSummary is a post as shown in feeds and lists.
type PostSummary struct {
	ID                    uint      `json:"id"`
	ClubID                uint      `json:"clubId"`
	ClubName              string    `json:"clubName"`
	ClubProfilePictureURL string    `json:"clubProfilePictureUrl"`
	CreatorID             uint      `json:"creatorId"`
	CreatorName           string    `json:"creatorName"`
	Description           string    `json:"description"`
	PictureURLs           []string  `json:"pictureURLs"`
	CreationDate          time.Time `json:"creationDate"`
	LikeCount             int       `json:"likeCount"`
	IsLikedByCurrentUser  bool      `json:"isLikedByCurrentUser"`
}

// PostDetail is the single post view.
type PostDetail struct {
	ID                   uint        `json:"id"`
	Description          string      `json:"description"`
	PictureURLs          []string    `json:"pictureURLs"`
	CreationDate         time.Time   `json:"creationDate"`
	Club                 ClubSummary `json:"club"`
	Creator              UserSummary `json:"creator"`
	LikeCount            int         `json:"likeCount"`
	IsLikedByCurrentUser bool        `json:"isLikedByCurrentUser"`
	CanCurrentUserManage bool        `json:"canCurrentUserManage"`
}

// EventSummary is an event as shown in feeds and lists.
type EventSummary struct {
	ID              uint      `json:"id"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	EventDate       time.Time `json:"eventDate"`
	ClubID          uint      `json:"clubId"`
	ClubName        string    `json:"clubName"`
	EventPictureURL string    `json:"eventPictureUrl"`
}

// FormQuestionResponse is one registration question.
type FormQuestionResponse struct {
	ID           uint         `json:"id"`
	QuestionText string       `json:"questionText"`
	QuestionType QuestionType `json:"questionType"`
}

// AnswerResponse is an attendee's answer, labelled with its question.
type AnswerResponse struct {
	QuestionID   uint   `json:"questionId"`
	QuestionText string `json:"questionText"`
	AnswerText   string `json:"answerText"`
}

// AttendeeResponse is an event attendee; answers are present for managers only.
type AttendeeResponse struct {
	User        UserSummary      `json:"user"`
	JoinedAt    time.Time        `json:"joinedAt"`
	FormAnswers []AnswerResponse `json:"formAnswers,omitempty"`
}

// EventDetail is the single event view.
type EventDetail struct {
	ID                        uint                   `json:"id"`
	Description               string                 `json:"description"`
	PictureURL                string                 `json:"pictureUrl"`
	EventDate                 time.Time              `json:"eventDate"`
	Location                  string                 `json:"location"`
	Club                      ClubSummary            `json:"club"`
	Creator                   UserSummary            `json:"creator"`
	IsCurrentUserAttending    bool                   `json:"isCurrentUserAttending"`
	AttendeeCount             int                    `json:"attendeeCount"`
	CanCurrentUserManage      bool                   `json:"canCurrentUserManage"`
	IsCurrentUserMemberOfClub bool                   `json:"isCurrentUserMemberOfClub"`
	FormQuestions             []FormQuestionResponse `json:"formQuestions"`
	Attendees                 []AttendeeResponse     `json:"attendees"`
}

// SubmissionResponse lists every answer given to one question.
type SubmissionResponse struct {
	QuestionID   uint         `json:"questionId"`
	QuestionText string       `json:"questionText"`
	UserAnswers  []UserAnswer `json:"userAnswers"`
}

// UserAnswer is one user's answer inside a SubmissionResponse.
type UserAnswer struct {
	UserID     uint   `json:"userId"`
	UserName   string `json:"userName"`
	AnswerText string `json:"answerText"`
}

// ClubInUser is an approved membership as shown on a profile.
type ClubInUser struct {
	ClubID                    uint           `json:"clubId"`
	ClubName                  string         `json:"clubName"`
	ClubProfilePictureURL     string         `json:"clubProfilePictureUrl"`
	UserRoleInClub            Role           `json:"userRoleInClub"`
	EventNotificationsEnabled bool           `json:"eventNotificationsEnabled"`
	PostNotificationsEnabled  bool           `json:"postNotificationsEnabled"`
	OtherMembers              []MemberInClub `json:"otherMembers"`
}

// UserResponse is the full profile view.
type UserResponse struct {
	ID                     uint           `json:"id"`
	StudentID              uint64         `json:"studentID"`
	Email                  string         `json:"email"`
	Name                   string         `json:"name"`
	Surname                string         `json:"surname"`
	ProfilePictureURL      string         `json:"profilePictureUrl"`
	University             string         `json:"university"`
	Faculty                string         `json:"faculty"`
	Department             string         `json:"department"`
	EmailVerified          bool           `json:"emailVerified"`
	Memberships            []ClubInUser   `json:"memberships"`
	UpcomingAttendedEvents []EventSummary `json:"upcomingAttendedEvents"`
	PastAttendedEvents     []EventSummary `json:"pastAttendedEvents"`
}

// NewUserSummary maps a user to its public card.
func NewUserSummary(u *User) UserSummary {
	return UserSummary{
		ID:                u.ID,
		StudentID:         u.StudentID,
		Name:              u.Name,
		Surname:           u.Surname,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

// NewMemberInClub maps a membership with its preloaded user.
func NewMemberInClub(m *Membership) MemberInClub {
	return MemberInClub{UserSummary: NewUserSummary(&m.User), Role: m.Role, Status: m.Status}
}

// NewCurrentUserMembership returns nil when m is nil.
func NewCurrentUserMembership(m *Membership) *CurrentUserMembership {
	if m == nil {
		return nil
	}
	return &CurrentUserMembership{
		Role:                      m.Role,
		Status:                    m.Status,
		EventNotificationsEnabled: m.EventNotificationsEnabled,
		PostNotificationsEnabled:  m.PostNotificationsEnabled,
	}
}

// NewClubSummary maps a club to its compact shape.
func NewClubSummary(c *Club) ClubSummary {
	return ClubSummary{
		ID:                c.ID,
		Name:              c.Name,
		ShortName:         c.ShortName,
		ProfilePictureURL: c.ProfilePictureURL,
		University:        c.University,
		Faculty:           c.Faculty,
		Department:        c.Department,
		Color:             c.Color,
	}
}

// NewClubSummaries maps a slice of clubs.
func NewClubSummaries(clubs []Club) []ClubSummary {
	out := make([]ClubSummary, 0, len(clubs))
	for i := range clubs {
		out = append(out, NewClubSummary(&clubs[i]))
	}
	return out
}

// NewPostSummary maps a post with preloaded club, creator, images and likes.
func NewPostSummary(p *Post, viewerID uint) PostSummary {
	return PostSummary{
		ID:                    p.ID,
		ClubID:                p.ClubID,
		ClubName:              p.Club.Name,
		ClubProfilePictureURL: p.Club.ProfilePictureURL,
		CreatorID:             p.CreatorID,
		CreatorName:           creatorName(&p.Creator),
		Description:           p.Description,
		PictureURLs:           p.ImageURLs(),
		CreationDate:          p.CreatedAt,
		LikeCount:             len(p.Likes),
		IsLikedByCurrentUser:  p.LikedBy(viewerID),
	}
}

// NewPostSummaries maps a slice of posts for one viewer.
func NewPostSummaries(posts []Post, viewerID uint) []PostSummary {
	out := make([]PostSummary, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostSummary(&posts[i], viewerID))
	}
	return out
}

// NewEventSummary maps an event with its preloaded club. Events without a
// picture fall back to the club picture.
func NewEventSummary(e *Event) EventSummary {
	pic := e.PictureURL
	if pic == "" {
		pic = e.Club.ProfilePictureURL
	}
	return EventSummary{
		ID:              e.ID,
		Description:     e.Description,
		Location:        e.Location,
		EventDate:       e.EventDate,
		ClubID:          e.ClubID,
		ClubName:        e.Club.Name,
		EventPictureURL: pic,
	}
}

// NewEventSummaries maps a slice of events.
func NewEventSummaries(events []Event) []EventSummary {
	out := make([]EventSummary, 0, len(events))
	for i := range events {
		out = append(out, NewEventSummary(&events[i]))
	}
	return out
}

// NewFormQuestionResponses maps an event's questions.
func NewFormQuestionResponses(qs []EventFormQuestion) []FormQuestionResponse {
	out := make([]FormQuestionResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, FormQuestionResponse{ID: q.ID, QuestionText: q.QuestionText, QuestionType: q.QuestionType})
	}
	return out
}

// NewClubLogResponse maps a log entry with its preloaded actor.
func NewClubLogResponse(l *ClubLog) ClubLogResponse {
	return ClubLogResponse{
		ID:        l.ID,
		ActorName: creatorName(&l.Actor),
		Action:    l.Action,
		Timestamp: l.Timestamp,
	}
}

// DeletedUserName is shown for content whose author deleted their account.
const DeletedUserName = "Deleted user"

func creatorName(u *User) string {
	if u.ID == 0 {
		return DeletedUserName
	}
	return u.FullName()
}

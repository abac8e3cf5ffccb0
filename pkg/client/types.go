package client

import "time"

// Role is a member's rank in a club.
type Role string

const (
	RoleMember  Role = "MEMBER"
	RoleManager Role = "MANAGER"
	RoleOwner   Role = "OWNER"
)

// CanManage reports whether the role may moderate a club.
func (r Role) CanManage() bool {
	return r == RoleManager || r == RoleOwner
}

// MembershipStatus is PENDING until a manager approves the request.
type MembershipStatus string

const (
	StatusPending  MembershipStatus = "PENDING"
	StatusApproved MembershipStatus = "APPROVED"
)

// QuestionType constrains a registration form answer.
type QuestionType string

const (
	QuestionText    QuestionType = "TEXT"
	QuestionBoolean QuestionType = "BOOLEAN"
	QuestionPhone   QuestionType = "PHONE"
	QuestionEmail   QuestionType = "EMAIL"
)

type User struct {
	ID                uint      `json:"id"`
	Email             string    `json:"email"`
	StudentID         uint64    `json:"studentID"`
	Name              string    `json:"name"`
	Surname           string    `json:"surname"`
	ProfilePictureURL string    `json:"profilePictureUrl"`
	University        string    `json:"university"`
	Faculty           string    `json:"faculty"`
	Department        string    `json:"department"`
	EmailVerified     bool      `json:"emailVerified"`
	CreatedAt         time.Time `json:"createdAt"`
}

type UserSummary struct {
	ID                uint   `json:"id"`
	StudentID         uint64 `json:"studentID"`
	Name              string `json:"name"`
	Surname           string `json:"surname"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}

type MemberInClub struct {
	UserSummary
	Role   Role             `json:"role"`
	Status MembershipStatus `json:"status"`
}

type Membership struct {
	Role                      Role             `json:"role"`
	Status                    MembershipStatus `json:"status"`
	EventNotificationsEnabled bool             `json:"eventNotificationsEnabled"`
	PostNotificationsEnabled  bool             `json:"postNotificationsEnabled"`
}

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

type Club struct {
	ClubSummary
	Description           string         `json:"description"`
	Members               []MemberInClub `json:"members"`
	Posts                 []PostSummary  `json:"posts"`
	Events                []EventSummary `json:"events"`
	CurrentUserMembership *Membership    `json:"currentUserMembership"`
}

type Discover struct {
	TopByMembers []ClubSummary `json:"topByMembers"`
	TopByEvents  []ClubSummary `json:"topByEvents"`
	RandomClubs  []ClubSummary `json:"randomClubs"`
}

type ClubLog struct {
	ID        uint      `json:"id"`
	ActorName string    `json:"actorName"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

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

type Post struct {
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

type EventSummary struct {
	ID              uint      `json:"id"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	EventDate       time.Time `json:"eventDate"`
	ClubID          uint      `json:"clubId"`
	ClubName        string    `json:"clubName"`
	EventPictureURL string    `json:"eventPictureUrl"`
}

type FormQuestion struct {
	ID           uint         `json:"id"`
	QuestionText string       `json:"questionText"`
	QuestionType QuestionType `json:"questionType"`
}

type Answer struct {
	QuestionID   uint   `json:"questionId"`
	QuestionText string `json:"questionText,omitempty"`
	AnswerText   string `json:"answerText"`
}

type Attendee struct {
	User        UserSummary `json:"user"`
	JoinedAt    time.Time   `json:"joinedAt"`
	FormAnswers []Answer    `json:"formAnswers"`
}

type Event struct {
	ID                        uint           `json:"id"`
	Description               string         `json:"description"`
	PictureURL                string         `json:"pictureUrl"`
	EventDate                 time.Time      `json:"eventDate"`
	Location                  string         `json:"location"`
	Club                      ClubSummary    `json:"club"`
	Creator                   UserSummary    `json:"creator"`
	IsCurrentUserAttending    bool           `json:"isCurrentUserAttending"`
	AttendeeCount             int            `json:"attendeeCount"`
	CanCurrentUserManage      bool           `json:"canCurrentUserManage"`
	IsCurrentUserMemberOfClub bool           `json:"isCurrentUserMemberOfClub"`
	FormQuestions             []FormQuestion `json:"formQuestions"`
	Attendees                 []Attendee     `json:"attendees"`
}

type UserAnswer struct {
	UserID     uint   `json:"userId"`
	UserName   string `json:"userName"`
	AnswerText string `json:"answerText"`
}

type Submission struct {
	QuestionID   uint         `json:"questionId"`
	QuestionText string       `json:"questionText"`
	UserAnswers  []UserAnswer `json:"userAnswers"`
}

type ClubMembership struct {
	ClubID                    uint           `json:"clubId"`
	ClubName                  string         `json:"clubName"`
	ClubProfilePictureURL     string         `json:"clubProfilePictureUrl"`
	UserRoleInClub            Role           `json:"userRoleInClub"`
	EventNotificationsEnabled bool           `json:"eventNotificationsEnabled"`
	PostNotificationsEnabled  bool           `json:"postNotificationsEnabled"`
	OtherMembers              []MemberInClub `json:"otherMembers"`
}

// Profile is the full user view returned by /users/me and /users/{id}.
type Profile struct {
	ID                     uint             `json:"id"`
	StudentID              uint64           `json:"studentID"`
	Email                  string           `json:"email"`
	Name                   string           `json:"name"`
	Surname                string           `json:"surname"`
	ProfilePictureURL      string           `json:"profilePictureUrl"`
	University             string           `json:"university"`
	Faculty                string           `json:"faculty"`
	Department             string           `json:"department"`
	EmailVerified          bool             `json:"emailVerified"`
	Memberships            []ClubMembership `json:"memberships"`
	UpcomingAttendedEvents []EventSummary   `json:"upcomingAttendedEvents"`
	PastAttendedEvents     []EventSummary   `json:"pastAttendedEvents"`
}

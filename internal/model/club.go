package model

import "time"

// DefaultClubPictureURL is assigned to clubs without an uploaded picture.
const DefaultClubPictureURL = "https://static.unihub.app/defaults/club.webp"

// Club is a student club belonging to a university (and optionally a faculty and department).
type Club struct {
	ID                uint         `json:"id" gorm:"primaryKey"`
	Name              string       `json:"name" gorm:"size:255;not null;index"`
	ShortName         string       `json:"shortName" gorm:"uniqueIndex;size:50;not null"`
	Description       string       `json:"description" gorm:"type:text"`
	University        string       `json:"university" gorm:"size:255;index"`
	Faculty           string       `json:"faculty" gorm:"size:255"`
	Department        string       `json:"department" gorm:"size:255"`
	ProfilePictureURL string       `json:"profilePictureUrl" gorm:"size:512"`
	Color             string       `json:"color" gorm:"size:7"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
	Members           []Membership `json:"-" gorm:"foreignKey:ClubID"`
	Posts             []Post       `json:"-" gorm:"foreignKey:ClubID"`
	Events            []Event      `json:"-" gorm:"foreignKey:ClubID"`
}

// Role is a member's rank inside a club.
type Role string

const (
	RoleMember  Role = "MEMBER"
	RoleManager Role = "MANAGER"
	RoleOwner   Role = "OWNER"
)

// Rank orders roles so that MEMBER < MANAGER < OWNER. Unknown roles rank lowest.
func (r Role) Rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleManager:
		return 2
	case RoleMember:
		return 1
	default:
		return 0
	}
}

// CanManage reports whether the role may moderate the club.
func (r Role) CanManage() bool {
	return r.Rank() >= RoleManager.Rank()
}

// MembershipStatus tracks the approval workflow.
type MembershipStatus string

const (
	StatusPending  MembershipStatus = "PENDING"
	StatusApproved MembershipStatus = "APPROVED"
)

// Membership links a user to a club. There is at most one row per (club, user).
type Membership struct {
	ID                        uint             `json:"id" gorm:"primaryKey"`
	ClubID                    uint             `json:"clubId" gorm:"not null;uniqueIndex:idx_club_user"`
	UserID                    uint             `json:"userId" gorm:"not null;uniqueIndex:idx_club_user;index"`
	Role                      Role             `json:"role" gorm:"size:20;not null;default:'MEMBER'"`
	Status                    MembershipStatus `json:"status" gorm:"size:20;not null;default:'PENDING'"`
	EventNotificationsEnabled bool             `json:"eventNotificationsEnabled" gorm:"not null;default:true"`
	PostNotificationsEnabled  bool             `json:"postNotificationsEnabled" gorm:"not null;default:true"`
	CreatedAt                 time.Time        `json:"createdAt"`
	UpdatedAt                 time.Time        `json:"updatedAt"`
	User                      User             `json:"-" gorm:"foreignKey:UserID"`
	Club                      Club             `json:"-" gorm:"foreignKey:ClubID"`
}

// TableName keeps the historical table name.
func (Membership) TableName() string {
	return "club_members"
}

// IsApproved reports whether the membership grants member rights.
func (m *Membership) IsApproved() bool {
	return m != nil && m.Status == StatusApproved
}

// CanManage reports whether an approved member holds MANAGER or OWNER.
func (m *Membership) CanManage() bool {
	return m.IsApproved() && m.Role.CanManage()
}

// IsOwner reports whether the membership is the approved club owner.
func (m *Membership) IsOwner() bool {
	return m.IsApproved() && m.Role == RoleOwner
}

// ClubLog is an audit entry written on every moderation action.
type ClubLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ClubID    uint      `json:"clubId" gorm:"not null;index"`
	ActorID   uint      `json:"actorId" gorm:"index"`
	Actor     User      `json:"-" gorm:"foreignKey:ActorID"`
	Action    string    `json:"action" gorm:"size:512;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}

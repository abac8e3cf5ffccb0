package model

import "time"

// Event is a dated club activity users can attend.
type Event struct {
	ID            uint                `json:"id" gorm:"primaryKey"`
	ClubID        uint                `json:"clubId" gorm:"not null;index"`
	CreatorID     uint                `json:"creatorId" gorm:"index"`
	Description   string              `json:"description" gorm:"size:500"`
	Location      string              `json:"location" gorm:"size:255"`
	EventDate     time.Time           `json:"eventDate" gorm:"not null;index"`
	PictureURL    string              `json:"pictureUrl" gorm:"size:512"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	Club          Club                `json:"-" gorm:"foreignKey:ClubID"`
	Creator       User                `json:"-" gorm:"foreignKey:CreatorID"`
	FormQuestions []EventFormQuestion `json:"-" gorm:"foreignKey:EventID"`
	Attendees     []EventAttendee     `json:"-" gorm:"foreignKey:EventID"`
}

// QuestionType constrains how a form answer is validated.
type QuestionType string

const (
	QuestionText    QuestionType = "TEXT"
	QuestionBoolean QuestionType = "BOOLEAN"
	QuestionPhone   QuestionType = "PHONE"
	QuestionEmail   QuestionType = "EMAIL"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionBoolean, QuestionPhone, QuestionEmail:
		return true
	}
	return false
}

// EventFormQuestion is a registration question attached to an event.
type EventFormQuestion struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	EventID      uint         `json:"eventId" gorm:"not null;index"`
	QuestionText string       `json:"questionText" gorm:"size:500;not null"`
	QuestionType QuestionType `json:"questionType" gorm:"size:20;not null"`
}

// EventAttendee registers a user for an event.
type EventAttendee struct {
	ID       uint              `json:"id" gorm:"primaryKey"`
	EventID  uint              `json:"eventId" gorm:"not null;uniqueIndex:idx_event_user"`
	UserID   uint              `json:"userId" gorm:"not null;uniqueIndex:idx_event_user;index"`
	JoinedAt time.Time         `json:"joinedAt"`
	User     User              `json:"-" gorm:"foreignKey:UserID"`
	Answers  []EventFormAnswer `json:"-" gorm:"foreignKey:AttendeeID"`
}

// EventFormAnswer is one attendee's answer to one question.
type EventFormAnswer struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	AttendeeID uint   `json:"attendeeId" gorm:"not null;index"`
	QuestionID uint   `json:"questionId" gorm:"not null;index"`
	AnswerText string `json:"answerText" gorm:"size:1000"`
}

// IsUpcoming reports whether the event starts after now.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.EventDate.After(now)
}

package model

import "time"

// DefaultProfilePictureURL is assigned to users without an uploaded picture.
const DefaultProfilePictureURL = "https://static.unihub.app/defaults/profile.webp"

// User represents a registered student.
type User struct {
	ID                uint         `json:"id" gorm:"primaryKey"`
	Email             string       `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash      string       `json:"-" gorm:"size:255;not null"`
	StudentID         uint64       `json:"studentID" gorm:"uniqueIndex;not null"`
	Name              string       `json:"name" gorm:"size:100;not null"`
	Surname           string       `json:"surname" gorm:"size:100;not null"`
	ProfilePictureURL string       `json:"profilePictureUrl" gorm:"size:512"`
	University        string       `json:"university" gorm:"size:255"`
	Faculty           string       `json:"faculty" gorm:"size:255"`
	Department        string       `json:"department" gorm:"size:255"`
	EmailVerified     bool         `json:"emailVerified" gorm:"default:false"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
	Memberships       []Membership `json:"-" gorm:"foreignKey:UserID"`
}

// FullName joins name and surname.
func (u *User) FullName() string {
	if u.Surname == "" {
		return u.Name
	}
	return u.Name + " " + u.Surname
}

package model

import "time"

// Post is a club announcement with optional pictures.
type Post struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	ClubID      uint        `json:"clubId" gorm:"not null;index"`
	CreatorID   uint        `json:"creatorId" gorm:"index"`
	Description string      `json:"description" gorm:"type:text"`
	CreatedAt   time.Time   `json:"creationDate" gorm:"index"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Club        Club        `json:"-" gorm:"foreignKey:ClubID"`
	Creator     User        `json:"-" gorm:"foreignKey:CreatorID"`
	Images      []PostImage `json:"-" gorm:"foreignKey:PostID"`
	Likes       []PostLike  `json:"-" gorm:"foreignKey:PostID"`
}

// PostImage is one stored picture of a post.
type PostImage struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PostID   uint   `json:"postId" gorm:"not null;index"`
	ImageURL string `json:"imageUrl" gorm:"size:512;not null"`
}

// PostLike records that a user liked a post.
type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"postId" gorm:"not null;uniqueIndex:idx_post_user"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_post_user;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// ImageURLs returns the post's picture URLs in insertion order.
func (p *Post) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.ImageURL)
	}
	return urls
}

// LikedBy reports whether userID is among the loaded likes.
func (p *Post) LikedBy(userID uint) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

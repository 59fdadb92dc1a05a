package domain

import (
	"time"
)

// Tweet represents a short post made by a user. CommentCount is a denormalized
// counter of the tweet's replies, kept in sync by the ReplyService whenever a
// reply is created.
type Tweet struct {
	ID           int    `json:"id"`
	UserID       int    `json:"user_id" gorm:"notNull;index"`
	User         User   `json:"User"`
	Content      string `json:"content"`
	CommentCount int    `json:"commentCount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TweetService is a set of methods to manipulate and work with the Tweet model.
type TweetService interface {
	ByID(id int) (*Tweet, error)
	Create(tweet *Tweet) error
	Delete(id, requesterID int) error
}

package domain

import (
	"time"
)

// Like represents a many-to-many relationship between a User and a Reply.
// A Like is created when a user likes a reply and destroyed when the user
// unlikes it again. The composite unique index on (UserID, ReplyID) is the
// authoritative guard against a user liking the same reply twice. The
// service-level existence check only exists for a friendlier error message,
// two racing like requests are caught by the index.
type Like struct {
	ID      int `json:"id"`
	UserID  int `json:"UserId" gorm:"notNull;uniqueIndex:idx_likes_user_reply"`
	ReplyID int `json:"ReplyId" gorm:"notNull;uniqueIndex:idx_likes_user_reply"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
type LikeService interface {
	Create(like *Like) error
	Delete(like *Like) error
	AuthLikes(userID, replyID int) bool
}

package domain

import (
	"time"
)

// MaxCommentLength is the maximum number of characters a reply's comment
// (and a tweet's content) may have after trimming.
const MaxCommentLength = 140

// Reply represents a comment a user made on a tweet. LikeCount is a
// denormalized counter of the Like records referencing this reply. It is
// only ever adjusted by the LikeService, inside the same transaction that
// creates or deletes the Like record, so at any point in time it equals the
// number of matching Like rows.
type Reply struct {
	ID        int    `json:"id"`
	TweetID   int    `json:"TweetId" gorm:"notNull;index"`
	UserID    int    `json:"UserId" gorm:"notNull;index"`
	User      User   `json:"User"`
	Comment   string `json:"comment"`
	LikeCount int    `json:"likeCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReplyService is a set of methods to manipulate and work with the Reply model.
type ReplyService interface {
	ByID(id int) (*Reply, error)
	ByTweetID(tweetID int) ([]Reply, error)
	Create(reply *Reply) error
	Delete(id, requesterID int) error
}

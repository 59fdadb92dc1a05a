package domain

import "time"

// Follow represents a self-referential many-to-many relationship between two
// users. The FollowerID is the ID of the user that follows, the FollowedID is
// the ID of the user being followed. A pair may only exist once.
type Follow struct {
	ID         int `json:"id"`
	FollowerID int `json:"follower_id" gorm:"notNull;uniqueIndex:idx_follows_pair"`
	FollowedID int `json:"followed_id" gorm:"notNull;uniqueIndex:idx_follows_pair"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow model.
type FollowService interface {
	Create(follow *Follow) error
	Delete(follow *Follow) error
}

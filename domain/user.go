package domain

import (
	"time"
)

// User represents a registered user of the app. Password only ever holds the
// plain text password of an incoming signup / signin / profile update request
// and is cleared as soon as it has been hashed. PasswordHash and Role never
// leave the app in json responses. Role is a plain number in the database,
// with 0 meaning a regular user and anything else meaning an admin. The
// derived IsAdmin field is what responses carry instead.
type User struct {
	ID           int    `json:"id"`
	Account      string `json:"account" gorm:"uniqueIndex"`
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-"`
	Role         int    `json:"-"`
	IsAdmin      bool   `json:"isAdmin" gorm:"-"`
	Introduction string `json:"introduction"`
	Avatar       string `json:"avatar"`
	Cover        string `json:"cover"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	Authenticate(email, password string) (*User, error)
	ByID(id int) (*User, error)
	ByEmail(email string) (*User, error)
	Create(user *User) error
	Update(user *User) error
}

// Sanitize strips everything off the user that must never go out to a client
// and derives the IsAdmin flag from the raw role number.
func (u *User) Sanitize() {
	u.Password = ""
	u.PasswordHash = ""
	u.IsAdmin = u.Role != 0
}

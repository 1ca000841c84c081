package user

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ParseRole returns RoleUser for anything it does not recognise.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleModerator:
		return RoleModerator
	default:
		return RoleUser
	}
}

// Elevated reports whether the role may act on other users' content.
func (r Role) Elevated() bool {
	return r == RoleModerator || r == RoleAdmin
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:254;uniqueIndex;not null;column:email" json:"email"`
	Username  string    `gorm:"size:150;uniqueIndex;not null;column:username" json:"username"`
	FirstName string    `gorm:"size:150;not null;column:first_name" json:"first_name"`
	LastName  string    `gorm:"size:150;not null;column:last_name" json:"last_name"`
	Password  string    `gorm:"size:150;not null;column:password" json:"-"`
	Role      string    `gorm:"size:16;not null;default:user;column:role" json:"role"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if strings.TrimSpace(u.Role) == "" {
		u.Role = string(RoleUser)
	}
	return nil
}

func (u *User) RoleValue() Role {
	if u == nil {
		return RoleUser
	}
	return ParseRole(u.Role)
}

const ReservedUsername = "me"

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+\-]+$`)

	ErrUsernameEmpty    = errors.New("username is required")
	ErrUsernameReserved = errors.New(`username "me" is not allowed`)
	ErrUsernameChars    = errors.New("username may contain only letters, digits and @/./+/-/_")
	ErrUsernameLength   = errors.New("username must be at most 150 characters")
)

func ValidateUsername(username string) error {
	switch {
	case username == "":
		return ErrUsernameEmpty
	case strings.EqualFold(username, ReservedUsername):
		return ErrUsernameReserved
	case len([]rune(username)) > 150:
		return ErrUsernameLength
	case !usernamePattern.MatchString(username):
		return ErrUsernameChars
	}
	return nil
}

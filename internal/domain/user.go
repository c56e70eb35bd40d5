package domain

import (
	"context"
	"time"
)

// Application roles. A user holds exactly one role.
const (
	RoleAdmin   = "admin"
	RoleSpeaker = "speaker"
	RoleUser    = "user"
)

// User represents a registered user.
// swagger:model User
type User struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Salt              string    `json:"-"`
	Name              string    `json:"name"`
	Role              string    `json:"role"`
	Bio               string    `json:"bio,omitempty"`
	ProfileImageURL   string    `json:"profile_image_url,omitempty"`
	SignatureImageURL string    `json:"signature_image_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(username, email, passwordHash, salt, name, role string, createdAt, updatedAt time.Time) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		Name:         name,
		Role:         role,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// ProfileUpdate carries the mutable profile fields. Nil pointers mean "leave unchanged".
type ProfileUpdate struct {
	Name              *string
	Bio               *string
	ProfileImageURL   *string
	SignatureImageURL *string
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	UpdateRole(ctx context.Context, id, role string) error
	UpdatePassword(ctx context.Context, id, passwordHash, salt string) error
}

// UserService defines the business logic for user profiles.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	ChangeRole(ctx context.Context, actorID, targetID, role string) (*User, error)
}

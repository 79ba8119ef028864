package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Role codes. The console calls these account types.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleAttendee = "attendee"
)

// User represents a registered user
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	LastName     string    `json:"last_name"`
	Roles        []string  `json:"roles,omitempty"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, name, lastName, passwordHash, salt string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:        email,
		Name:         name,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Role represents an application role (e.g. admin, attendee)
type Role struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// NewRole returns a new Role with the given id and code.
func NewRole(id, code string) *Role {
	return &Role{ID: id, Code: code}
}

// IsValidRoleCode reports whether code is one of the known role codes.
func IsValidRoleCode(code string) bool {
	switch code {
	case RoleAdmin, RoleStaff, RoleAttendee:
		return true
	}
	return false
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenClaims is what a verified token says about its bearer.
type TokenClaims struct {
	UserID string
	Email  string
	Roles  []string
}

// HasRole reports whether the claims carry any of the given role codes.
func (c *TokenClaims) HasRole(codes ...string) bool {
	for _, have := range c.Roles {
		for _, want := range codes {
			if have == want {
				return true
			}
		}
	}
	return false
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	List(ctx context.Context, page PaginationParams) ([]*User, int, error)
	AssignRole(ctx context.Context, userID, roleID string) error
}

// RoleRepository resolves seeded roles and the role codes granted to a user.
type RoleRepository interface {
	GetByCode(ctx context.Context, code string) (*Role, error)
	CodesByUserID(ctx context.Context, userID string) ([]string, error)
}

// NewUserInput holds the fields an admin supplies when creating a console account.
type NewUserInput struct {
	Email    string
	Name     string
	LastName string
	Password string
	Role     string
}

// UserService defines the business logic for user profile and authentication.
type UserService interface {
	SignIn(ctx context.Context, email, password string) (token string, user *User, err error)
	CreateUser(ctx context.Context, in NewUserInput) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	ListUsers(ctx context.Context, page PaginationParams) ([]*User, int, error)
	AssignRole(ctx context.Context, userID, roleCode string) error
}

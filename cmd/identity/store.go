package identity

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"padron/cmd/profile"
)

// Roles assignable to a user. RoleUser is the default.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is Padrón's account record.
//
// PasswordHash is never serialized to callers (json:"-") and store reads
// project it out except for the explicit credential lookup used by sign-in.
// ProfileID is the owning reference; Profile is populated inline on reads and
// is not persisted on the user document.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	ProfileID    primitive.ObjectID `bson:"profile" json:"-"`

	Profile *profile.Profile `bson:"-" json:"profile,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Credentials is the sign-in lookup result: the user plus its password digest.
// Only the authentication flow may see the digest.
type Credentials struct {
	User         User
	PasswordHash string
}

// CreateUserInput describes a registration request. Email, Username, and
// Password are required; Role defaults to RoleUser.
type CreateUserInput struct {
	Email    string
	Username string
	Password string
	Role     string
	Profile  profile.CreateInput
	Now      time.Time
}

// UpdateUserInput is a partial update. Nil fields are untouched. Profile
// fields, when present, are applied to the linked profile document as an
// independent partial update.
type UpdateUserInput struct {
	Email    *string
	Username *string
	Role     *string
	IsActive *bool
	Profile  *profile.UpdateInput
	Now      time.Time
}

// PageQuery is the directory fan-out request. Search is already
// regex-escaped by the caller; SortBy is one of createdAt/email/username.
type PageQuery struct {
	Search    string
	SortBy    string
	Ascending bool
	Skip      int64
	Limit     int64
}

// Page is one page of directory results plus the total match count.
type Page struct {
	Users []User
	Total int64
}

// Store is the user persistence boundary, owning the cross-collection
// consistency protocol with the profiles collection.
type Store interface {
	// CreateUser runs the three-write unit: profile insert, user insert
	// referencing it, profile back-link. All-or-nothing (transaction or
	// compensating deletes). Returns the user with Profile populated.
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)

	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)

	// LookupCredentials is the only read that returns the password digest.
	// A missing user reports ErrInvalidCredentials, not ErrNotFound.
	LookupCredentials(ctx context.Context, email string) (Credentials, error)

	// UpdateUser applies user-level and profile-level partial updates
	// independently; partial success surfaces as ErrInternal.
	UpdateUser(ctx context.Context, id string, in UpdateUserInput) (User, error)

	// DeleteUser removes the user and its profile concurrently (best-effort
	// dual deletion) and returns the deleted user id.
	DeleteUser(ctx context.Context, id string) (string, error)

	// FindPage runs the directory search fan-out with sort/skip/limit.
	FindPage(ctx context.Context, q PageQuery) (Page, error)
}

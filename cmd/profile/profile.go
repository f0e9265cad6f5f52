// Package profile implements Padrón's standalone profile store.
//
// Profiles normally live and die with their owning user (see cmd/identity,
// which owns the coupled create/delete protocol). This package is the
// administrative surface: it can create profiles that no user owns yet and
// delete profiles out from under a user. Both are accepted, documented
// states; nothing here ever cascades to the users collection.
package profile

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile holds the personal data attached to a user account.
// Field names follow the persisted document shape (camelCase).
type Profile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName   string             `bson:"firstName" json:"firstName"`
	LastName    string             `bson:"lastName" json:"lastName"`
	Avatar      string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Bio         string             `bson:"bio,omitempty" json:"bio,omitempty"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Country     string             `bson:"country,omitempty" json:"country,omitempty"`

	// UserID is the back-reference to the owning user. Nil for unlinked
	// (administratively created) profiles.
	UserID *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CreateInput describes a new profile. FirstName and LastName are required;
// everything else is optional.
type CreateInput struct {
	FirstName   string
	LastName    string
	Avatar      string
	Bio         string
	PhoneNumber string
	Country     string
	Now         time.Time
}

// UpdateInput is a partial update: nil fields are left untouched.
type UpdateInput struct {
	FirstName   *string
	LastName    *string
	Avatar      *string
	Bio         *string
	PhoneNumber *string
	Country     *string
	Now         time.Time
}

// Store is the profile persistence boundary.
type Store interface {
	Create(ctx context.Context, in CreateInput) (Profile, error)
	FindAll(ctx context.Context) ([]Profile, error)
	FindByID(ctx context.Context, id string) (Profile, error)
	Update(ctx context.Context, id string, in UpdateInput) (Profile, error)
	Delete(ctx context.Context, id string) (string, error)
}

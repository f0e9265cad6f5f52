package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"padron/cmd/ids"
)

// CollectionName is the profiles collection. Exported because cmd/identity
// writes the same collection during the coupled create/delete protocol.
const CollectionName = "profiles"

// MongoStore implements Store over a MongoDB database.
// The mongo client is owned by the caller; this store must NOT disconnect it.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore constructs a MongoStore bound to db's profiles collection.
func NewMongoStore(db *mongo.Database) (*MongoStore, error) {
	if db == nil {
		return nil, errors.New("profile: nil database")
	}
	return &MongoStore{coll: db.Collection(CollectionName)}, nil
}

// Create inserts a standalone profile. The result has no owning user; linking
// is the identity store's job.
func (s *MongoStore) Create(ctx context.Context, in CreateInput) (Profile, error) {
	const op = "profile.Create"

	if s == nil || s.coll == nil {
		return Profile{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if firstName == "" {
		return Profile{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "firstName is required"}
	}
	if lastName == "" {
		return Profile{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "lastName is required"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	p := Profile{
		ID:          ids.New(now),
		FirstName:   firstName,
		LastName:    lastName,
		Avatar:      strings.TrimSpace(in.Avatar),
		Bio:         strings.TrimSpace(in.Bio),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Country:     strings.TrimSpace(in.Country),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// FindAll returns every profile, linked or not.
func (s *MongoStore) FindAll(ctx context.Context) ([]Profile, error) {
	const op = "profile.FindAll"

	if s == nil || s.coll == nil {
		return nil, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID returns one profile by identifier.
func (s *MongoStore) FindByID(ctx context.Context, id string) (Profile, error) {
	const op = "profile.FindByID"

	if s == nil || s.coll == nil {
		return Profile{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}

	oid, err := ids.Parse(id)
	if err != nil {
		return Profile{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "malformed id"}
	}

	var p Profile
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Profile{}, OpError{Op: op, Kind: ErrNotFound, Msg: "profile"}
	}
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Update applies a partial update and returns the refreshed profile.
func (s *MongoStore) Update(ctx context.Context, id string, in UpdateInput) (Profile, error) {
	const op = "profile.Update"

	if s == nil || s.coll == nil {
		return Profile{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}

	oid, err := ids.Parse(id)
	if err != nil {
		return Profile{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "malformed id"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	set := SetFields(in, now)

	var p Profile
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Profile{}, OpError{Op: op, Kind: ErrNotFound, Msg: "profile"}
	}
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Delete removes a profile by identifier and returns the deleted id.
// This never touches the users collection: deleting an owned profile leaves
// the user's reference dangling (administrative escape hatch).
func (s *MongoStore) Delete(ctx context.Context, id string) (string, error) {
	const op = "profile.Delete"

	if s == nil || s.coll == nil {
		return "", OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	oid, err := ids.Parse(id)
	if err != nil {
		return "", OpError{Op: op, Kind: ErrInvalidInput, Msg: "malformed id"}
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return "", err
	}
	if res.DeletedCount == 0 {
		return "", OpError{Op: op, Kind: ErrNotFound, Msg: "profile"}
	}
	return oid.Hex(), nil
}

// SetFields builds the $set document for a partial profile update.
// Exported for cmd/identity, which applies profile-level fields through the
// same update shape during a coupled user update.
func SetFields(in UpdateInput, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if in.FirstName != nil {
		set["firstName"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		set["lastName"] = strings.TrimSpace(*in.LastName)
	}
	if in.Avatar != nil {
		set["avatar"] = strings.TrimSpace(*in.Avatar)
	}
	if in.Bio != nil {
		set["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.PhoneNumber != nil {
		set["phoneNumber"] = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.Country != nil {
		set["country"] = strings.TrimSpace(*in.Country)
	}
	return set
}

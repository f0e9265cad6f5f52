package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"padron/cmd/ids"
	"padron/cmd/profile"
	"padron/cmd/security/password"
)

// UsersCollectionName is the users collection.
const UsersCollectionName = "users"

// Unique index names. Stable so conflict classification can key on them.
const (
	uqUsersEmail    = "uq_users_email"
	uqUsersUsername = "uq_users_username"
)

// MongoStore implements Store over MongoDB.
//
// Design notes:
// - The mongo client is owned by the caller; this store must NOT disconnect it.
// - With transactions enabled (default), the create-with-profile unit runs in
//   session.WithTransaction and requires a replica set. WithTransactions(false)
//   switches to the compensating-delete strategy for standalone deployments.
// - Driver errors are mapped to identity sentinel kinds; duplicate-key errors
//   become ConflictError naming the colliding field.
type MongoStore struct {
	db       *mongo.Database
	users    *mongo.Collection
	profiles *mongo.Collection

	hasher password.Config
	useTx  bool
}

// MongoOption configures the store.
type MongoOption func(*MongoStore) error

// WithTransactions selects the all-or-nothing strategy for CreateUser:
// true (default) uses a multi-document transaction, false uses compensating
// deletes. Disable only on deployments without replica-set support.
func WithTransactions(enabled bool) MongoOption {
	return func(s *MongoStore) error {
		s.useTx = enabled
		return nil
	}
}

// WithHasher overrides the password hashing configuration.
func WithHasher(cfg password.Config) MongoOption {
	return func(s *MongoStore) error {
		s.hasher = cfg
		return nil
	}
}

// NewMongoStore constructs a MongoStore with default settings.
func NewMongoStore(db *mongo.Database, opts ...MongoOption) (*MongoStore, error) {
	if db == nil {
		return nil, errors.New("identity: nil database")
	}

	st := &MongoStore{
		db:       db,
		users:    db.Collection(UsersCollectionName),
		profiles: db.Collection(profile.CollectionName),
		hasher:   password.DefaultConfig(),
		useTx:    true,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// EnsureIndexes creates the unique indexes on email and username.
// The pre-check-then-write pattern in CreateUser has a race window between
// concurrent signups; these indexes are the final backstop.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	if s == nil || s.users == nil {
		return OpError{Op: "identity.EnsureIndexes", Kind: ErrInvalidInput, Msg: "nil store"}
	}

	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(uqUsersEmail),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(uqUsersUsername),
		},
	})
	return err
}

// CreateUser creates a user and its profile as one logical unit.
//
// Order inside the unit: (a) insert profile, (b) insert user referencing the
// profile id, (c) back-link the profile to the user id. The profile goes
// first because the user document requires its reference.
func (s *MongoStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if s == nil || s.users == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	email := NormalizeEmail(in.Email)
	username := NormalizeUsername(in.Username)
	if email == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "email is required"}
	}
	if username == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "username is required"}
	}
	if strings.TrimSpace(in.Password) == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "password is required"}
	}

	firstName := strings.TrimSpace(in.Profile.FirstName)
	lastName := strings.TrimSpace(in.Profile.LastName)
	if firstName == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "profile firstName is required"}
	}
	if lastName == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "profile lastName is required"}
	}

	role := strings.ToLower(strings.TrimSpace(in.Role))
	switch role {
	case "":
		role = RoleUser
	case RoleUser, RoleAdmin:
	default:
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "unknown role"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	// Uniqueness pre-checks, email first: a collision here fails before any
	// write occurs. The unique indexes cover the remaining race window.
	if n, err := s.users.CountDocuments(ctx, bson.M{"email": email}); err != nil {
		return User{}, err
	} else if n > 0 {
		return User{}, ConflictError{Op: op, Field: "email"}
	}
	if n, err := s.users.CountDocuments(ctx, bson.M{"username": username}); err != nil {
		return User{}, err
	} else if n > 0 {
		return User{}, ConflictError{Op: op, Field: "username"}
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: err.Error()}
	}

	p := profile.Profile{
		ID:          ids.New(now),
		FirstName:   firstName,
		LastName:    lastName,
		Avatar:      strings.TrimSpace(in.Profile.Avatar),
		Bio:         strings.TrimSpace(in.Profile.Bio),
		PhoneNumber: strings.TrimSpace(in.Profile.PhoneNumber),
		Country:     strings.TrimSpace(in.Profile.Country),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	u := User{
		ID:           ids.New(now),
		Email:        email,
		Username:     username,
		PasswordHash: digest,
		Role:         role,
		IsActive:     true,
		ProfileID:    p.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if s.useTx {
		err = s.createUnitTx(ctx, &p, &u, now)
	} else {
		err = s.createUnitCompensating(ctx, &p, &u, now)
	}
	if err != nil {
		return User{}, err
	}

	uid := u.ID
	p.UserID = &uid

	out := u
	out.PasswordHash = ""
	out.Profile = &p
	return out, nil
}

// createUnitTx wraps the three writes in a multi-document transaction.
// Any failure aborts the transaction, leaving no orphaned profile.
func (s *MongoStore) createUnitTx(ctx context.Context, p *profile.Profile, u *User, now time.Time) error {
	const op = "identity.CreateUser"

	sess, err := s.db.Client().StartSession()
	if err != nil {
		return OpError{Op: op, Kind: ErrInternal, Msg: "start session"}
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := s.profiles.InsertOne(sc, p); err != nil {
			return nil, err
		}
		if _, err := s.users.InsertOne(sc, u); err != nil {
			return nil, err
		}
		_, err := s.profiles.UpdateOne(sc,
			bson.M{"_id": p.ID},
			bson.M{"$set": bson.M{"user": u.ID, "updatedAt": now}},
		)
		return nil, err
	})
	if err != nil {
		if field, ok := duplicateKeyField(err); ok {
			return ConflictError{Op: op, Field: field}
		}
		return OpError{Op: op, Kind: ErrInternal, Msg: "create user/profile unit failed"}
	}
	return nil
}

// createUnitCompensating runs the three writes without a transaction and
// undoes them in reverse on failure: delete the user (if inserted), then the
// profile. Best-effort; the window where the process dies between an insert
// and its compensation is the accepted residual risk on standalone mongod.
func (s *MongoStore) createUnitCompensating(ctx context.Context, p *profile.Profile, u *User, now time.Time) error {
	const op = "identity.CreateUser"

	if _, err := s.profiles.InsertOne(ctx, p); err != nil {
		return OpError{Op: op, Kind: ErrInternal, Msg: "profile insert failed"}
	}

	if _, err := s.users.InsertOne(ctx, u); err != nil {
		_, _ = s.profiles.DeleteOne(ctx, bson.M{"_id": p.ID})
		if field, ok := duplicateKeyField(err); ok {
			return ConflictError{Op: op, Field: field}
		}
		return OpError{Op: op, Kind: ErrInternal, Msg: "user insert failed"}
	}

	if _, err := s.profiles.UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$set": bson.M{"user": u.ID, "updatedAt": now}},
	); err != nil {
		_, _ = s.users.DeleteOne(ctx, bson.M{"_id": u.ID})
		_, _ = s.profiles.DeleteOne(ctx, bson.M{"_id": p.ID})
		return OpError{Op: op, Kind: ErrInternal, Msg: "profile back-link failed"}
	}

	return nil
}

// FindByID returns one user with its profile populated and digest stripped.
func (s *MongoStore) FindByID(ctx context.Context, id string) (User, error) {
	const op = "identity.FindByID"

	if s == nil || s.users == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	oid, err := ids.Parse(id)
	if err != nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "malformed id"}
	}

	var u User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}, noPasswordFindOne()).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	if err != nil {
		return User{}, err
	}

	if err := s.populateOne(ctx, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// FindByEmail returns one user by normalized email, digest stripped.
func (s *MongoStore) FindByEmail(ctx context.Context, email string) (User, error) {
	const op = "identity.FindByEmail"

	if s == nil || s.users == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	var u User
	err := s.users.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}, noPasswordFindOne()).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	if err != nil {
		return User{}, err
	}

	if err := s.populateOne(ctx, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// LookupCredentials returns the user plus its password digest for sign-in.
// A missing user reports the uniform invalid-credentials failure, never
// not-found, so the caller cannot distinguish the two cases.
func (s *MongoStore) LookupCredentials(ctx context.Context, email string) (Credentials, error) {
	const op = "identity.LookupCredentials"

	if s == nil || s.users == nil {
		return Credentials{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}

	var u User
	err := s.users.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Credentials{}, invalidCredentials(op)
	}
	if err != nil {
		return Credentials{}, err
	}

	digest := u.PasswordHash
	u.PasswordHash = ""
	return Credentials{User: u, PasswordHash: digest}, nil
}

// UpdateUser applies user-level and profile-level partial updates.
//
// The two $set operations are independent, not a joint transaction: user
// fields can land while the profile update fails, which surfaces as
// ErrInternal without rolling back the first write.
func (s *MongoStore) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (User, error) {
	const op = "identity.UpdateUser"

	if s == nil || s.users == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	oid, err := ids.Parse(id)
	if err != nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "malformed id"}
	}

	var current User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}, noPasswordFindOne()).Decode(&current)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	if err != nil {
		return User{}, err
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	set := bson.M{"updatedAt": now}

	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if email == "" {
			return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "email cannot be empty"}
		}
		// Only a changed value is checked against other users; writing the
		// current value back is not a conflict.
		if email != current.Email {
			n, err := s.users.CountDocuments(ctx, bson.M{"email": email, "_id": bson.M{"$ne": oid}})
			if err != nil {
				return User{}, err
			}
			if n > 0 {
				return User{}, ConflictError{Op: op, Field: "email"}
			}
		}
		set["email"] = email
	}

	if in.Username != nil {
		username := NormalizeUsername(*in.Username)
		if username == "" {
			return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "username cannot be empty"}
		}
		if username != current.Username {
			n, err := s.users.CountDocuments(ctx, bson.M{"username": username, "_id": bson.M{"$ne": oid}})
			if err != nil {
				return User{}, err
			}
			if n > 0 {
				return User{}, ConflictError{Op: op, Field: "username"}
			}
		}
		set["username"] = username
	}

	if in.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*in.Role))
		if role != RoleUser && role != RoleAdmin {
			return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "unknown role"}
		}
		set["role"] = role
	}

	if in.IsActive != nil {
		set["isActive"] = *in.IsActive
	}

	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
		if field, ok := duplicateKeyField(err); ok {
			return User{}, ConflictError{Op: op, Field: field}
		}
		return User{}, err
	}

	if in.Profile != nil && !current.ProfileID.IsZero() {
		profSet := profile.SetFields(*in.Profile, now)
		if _, err := s.profiles.UpdateOne(ctx,
			bson.M{"_id": current.ProfileID},
			bson.M{"$set": profSet},
		); err != nil {
			return User{}, OpError{Op: op, Kind: ErrInternal, Msg: "user fields updated but profile update failed"}
		}
	}

	return s.FindByID(ctx, id)
}

// DeleteUser removes the user and its profile concurrently.
//
// Both deletions are always attempted; there is no ordering guarantee and no
// cancellation between them. If the profile deletion fails after the user
// deletion succeeded, a dangling profile remains (accepted risk) and the
// call reports ErrInternal.
func (s *MongoStore) DeleteUser(ctx context.Context, id string) (string, error) {
	const op = "identity.DeleteUser"

	if s == nil || s.users == nil {
		return "", OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	oid, err := ids.Parse(id)
	if err != nil {
		return "", OpError{Op: op, Kind: ErrInvalidInput, Msg: "malformed id"}
	}

	var u User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}, noPasswordFindOne()).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", NotFoundError{Op: op, Resource: "user"}
	}
	if err != nil {
		return "", err
	}

	// Plain errgroup (no shared cancellation): a failure in one deletion must
	// not stop the other from running to completion.
	var g errgroup.Group
	g.Go(func() error {
		_, err := s.users.DeleteOne(ctx, bson.M{"_id": oid})
		return err
	})
	g.Go(func() error {
		_, err := s.profiles.DeleteOne(ctx, bson.M{"_id": u.ProfileID})
		return err
	})
	if err := g.Wait(); err != nil {
		return "", OpError{Op: op, Kind: ErrInternal, Msg: "dual deletion incomplete"}
	}

	return oid.Hex(), nil
}

// FindPage runs the directory search fan-out.
//
// With a search term: profiles matching on firstName/lastName/bio are
// collected first, then users match on email, username, OR linked-profile
// membership in that id set. Users and profiles live in separate collections,
// so this two-step fan-out stands in for a join.
func (s *MongoStore) FindPage(ctx context.Context, q PageQuery) (Page, error) {
	const op = "identity.FindPage"

	if s == nil || s.users == nil {
		return Page{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	filter := bson.M{}
	if q.Search != "" {
		re := primitive.Regex{Pattern: q.Search, Options: "i"}

		cur, err := s.profiles.Find(ctx,
			bson.M{"$or": []bson.M{
				{"firstName": re},
				{"lastName": re},
				{"bio": re},
			}},
			options.Find().SetProjection(bson.M{"_id": 1}),
		)
		if err != nil {
			return Page{}, err
		}
		var matched []struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.All(ctx, &matched); err != nil {
			return Page{}, err
		}
		profileIDs := make([]primitive.ObjectID, 0, len(matched))
		for _, m := range matched {
			profileIDs = append(profileIDs, m.ID)
		}

		filter["$or"] = []bson.M{
			{"email": re},
			{"username": re},
			{"profile": bson.M{"$in": profileIDs}},
		}
	}

	sortField := q.SortBy
	switch sortField {
	case "createdAt", "email", "username":
	default:
		sortField = "createdAt"
	}
	dir := -1
	if q.Ascending {
		dir = 1
	}

	findOpts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.D{{Key: sortField, Value: dir}}).
		SetSkip(maxInt64(q.Skip, 0))
	if q.Limit > 0 {
		findOpts = findOpts.SetLimit(q.Limit)
	}

	cur, err := s.users.Find(ctx, filter, findOpts)
	if err != nil {
		return Page{}, err
	}
	var users []User
	if err := cur.All(ctx, &users); err != nil {
		return Page{}, err
	}

	total, err := s.users.CountDocuments(ctx, filter)
	if err != nil {
		return Page{}, err
	}

	if err := s.populateMany(ctx, users); err != nil {
		return Page{}, err
	}

	return Page{Users: users, Total: total}, nil
}

// ---- helpers ----

// populateOne loads the linked profile inline. A missing profile document
// leaves Profile nil rather than failing the read: the invariant says it
// should exist, but the admin escape hatch can break it.
func (s *MongoStore) populateOne(ctx context.Context, u *User) error {
	if u == nil || u.ProfileID.IsZero() {
		return nil
	}

	var p profile.Profile
	err := s.profiles.FindOne(ctx, bson.M{"_id": u.ProfileID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return err
	}
	u.Profile = &p
	return nil
}

// populateMany batch-loads profiles for a page of users.
func (s *MongoStore) populateMany(ctx context.Context, users []User) error {
	if len(users) == 0 {
		return nil
	}

	idSet := make([]primitive.ObjectID, 0, len(users))
	for i := range users {
		if !users[i].ProfileID.IsZero() {
			idSet = append(idSet, users[i].ProfileID)
		}
	}
	if len(idSet) == 0 {
		return nil
	}

	cur, err := s.profiles.Find(ctx, bson.M{"_id": bson.M{"$in": idSet}})
	if err != nil {
		return err
	}
	var profiles []profile.Profile
	if err := cur.All(ctx, &profiles); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]*profile.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}
	for i := range users {
		if p, ok := byID[users[i].ProfileID]; ok {
			users[i].Profile = p
		}
	}
	return nil
}

func noPasswordFindOne() *options.FindOneOptions {
	return options.FindOne().SetProjection(bson.M{"password": 0})
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// duplicateKeyField classifies a unique-index violation to its logical field.
// Prefers the stable index names; falls back to substring matching on the
// driver's error text.
func duplicateKeyField(err error) (string, bool) {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return "", false
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, uqUsersEmail), strings.Contains(msg, "email"):
		return "email", true
	case strings.Contains(msg, uqUsersUsername), strings.Contains(msg, "username"):
		return "username", true
	default:
		return "unique", true
	}
}

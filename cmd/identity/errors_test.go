package identity

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestErrorKindsAndPredicates(t *testing.T) {
	t.Parallel()

	conflict := ConflictError{Op: "identity.CreateUser", Field: "email"}
	if !IsConflict(conflict) {
		t.Fatalf("IsConflict")
	}
	if !errors.Is(conflict, ErrConflict) {
		t.Fatalf("errors.Is(conflict, ErrConflict)")
	}
	if !IsConflict(fmt.Errorf("wrapped: %w", conflict)) {
		t.Fatalf("IsConflict through wrapping")
	}

	notFound := NotFoundError{Op: "identity.FindByID", Resource: "user"}
	if !IsNotFound(notFound) {
		t.Fatalf("IsNotFound")
	}
	if IsConflict(notFound) {
		t.Fatalf("kinds must not overlap")
	}

	invalid := OpError{Op: "identity.DeleteUser", Kind: ErrInvalidInput, Msg: "malformed id"}
	if !IsInvalidInput(invalid) {
		t.Fatalf("IsInvalidInput")
	}

	creds := invalidCredentials("identity.LookupCredentials")
	if !IsInvalidCredentials(creds) {
		t.Fatalf("IsInvalidCredentials")
	}
	if IsNotFound(creds) {
		t.Fatalf("missing user must not surface as not-found on the login path")
	}

	internal := OpError{Op: "identity.CreateUser", Kind: ErrInternal}
	if !IsInternal(internal) {
		t.Fatalf("IsInternal")
	}
}

func TestInvalidCredentials_UniformMessage(t *testing.T) {
	t.Parallel()

	// The two sign-in failure paths must be textually identical.
	a := invalidCredentials("identity.LookupCredentials").Error()
	b := invalidCredentials("identity.LookupCredentials").Error()
	if a != b {
		t.Fatalf("messages differ: %q vs %q", a, b)
	}
}

func TestDuplicateKeyField(t *testing.T) {
	t.Parallel()

	dupEmail := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: padron.users index: uq_users_email dup key",
	}}}
	if field, ok := duplicateKeyField(dupEmail); !ok || field != "email" {
		t.Fatalf("got (%q, %v), want (email, true)", field, ok)
	}

	dupUsername := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: padron.users index: uq_users_username dup key",
	}}}
	if field, ok := duplicateKeyField(dupUsername); !ok || field != "username" {
		t.Fatalf("got (%q, %v), want (username, true)", field, ok)
	}

	notDup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    2,
		Message: "bad value",
	}}}
	if _, ok := duplicateKeyField(notDup); ok {
		t.Fatalf("non-duplicate error classified as conflict")
	}

	if _, ok := duplicateKeyField(nil); ok {
		t.Fatalf("nil error classified as conflict")
	}
}

// Package ids provides document ID primitives (ObjectID) used by Padrón's stores.
package ids

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrMalformed reports an identifier that is not a valid 24-char hex ObjectID.
var ErrMalformed = errors.New("malformed id")

// New returns a fresh ObjectID carrying the given timestamp.
// ObjectIDs are generated client-side so callers can reference a document's
// id before the insert that creates it.
func New(now time.Time) primitive.ObjectID {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return primitive.NewObjectIDFromTimestamp(now)
}

// Parse validates and decodes a caller-supplied identifier.
func Parse(s string) (primitive.ObjectID, error) {
	s = strings.TrimSpace(s)
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrMalformed
	}
	return id, nil
}

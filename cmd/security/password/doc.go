// Package password provides password hashing and verification utilities for Padrón.
//
// It implements bcrypt hashing with a fixed work factor and includes:
// - Password policy validation (length bounds, configurable via environment variables)
// - Mismatch-tolerant verification: malformed digests report false, never an error
//
// Security notes:
// - Plaintext passwords are never logged or returned by this package.
// - Digest strings are treated as untrusted input during Verify.
package password

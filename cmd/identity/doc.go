// Package identity implements Padrón's user store and the user/profile
// consistency protocol.
//
// Users and profiles live in separate collections joined by mutual object
// references. This package owns the coupled lifecycle: atomic
// create-with-profile (profile first, then user, then back-link), cascading
// best-effort dual deletion, and the split partial update. It also implements
// the directory search fan-out across both collections.
//
// MongoDB only guarantees single-document atomicity per write; the
// create-with-profile unit therefore runs inside a multi-document transaction
// when the deployment supports one (replica set), or falls back to explicit
// compensating deletes. Unique indexes on email and username are the backstop
// for the pre-check-then-write race between concurrent signups.
package identity

// Package token issues and verifies Padrón's signed identity tokens.
//
// Tokens are HS256 JWTs carrying the user id (subject), email, and role.
// They are stateless: nothing is persisted server-side and there is no
// revocation. By default tokens carry no expiry; a lifetime is enforced only
// when PADRON_TOKEN_TTL is configured.
//
// Security notes:
// - The signing key comes from PADRON_TOKEN_KEY and must be >= 32 bytes.
// - Verification rejects any signing algorithm other than HS256.
package token

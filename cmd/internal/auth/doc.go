// Package auth implements the registration and sign-in flows on top of the
// identity store: credential verification, uniform sign-in failures, and
// access token issuance.
package auth

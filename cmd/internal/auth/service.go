package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"padron/cmd/identity"
	"padron/cmd/security/password"
	"padron/cmd/security/token"
)

// Service wires registration and sign-in to the identity store and the
// token manager.
type Service struct {
	log    *slog.Logger
	store  identity.Store
	tokens *token.Manager
	hasher password.Config

	dummyHash string
}

// Result is a successful sign-up or sign-in: the account (digest stripped)
// plus a freshly issued access token.
type Result struct {
	User  identity.User
	Token string
}

// NewService constructs the auth service. All dependencies are required.
func NewService(log *slog.Logger, store identity.Store, tokens *token.Manager, hasher password.Config) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: nil identity store")
	}
	if tokens == nil {
		return nil, errors.New("auth: nil token manager")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Service{
		log:    log,
		store:  store,
		tokens: tokens,
		hasher: hasher,
	}

	// Dummy digest for timing-resistant sign-in checks.
	if hash, err := hasher.Hash("dummy-password-for-timing-only"); err == nil {
		s.dummyHash = hash
	}

	return s, nil
}

// SignUp registers a new account and returns it with an access token so the
// caller is signed in immediately.
func (s *Service) SignUp(ctx context.Context, now time.Time, in identity.CreateUserInput) (Result, error) {
	const op = "auth.SignUp"

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	in.Now = now

	if err := s.hasher.Validate(in.Password); err != nil {
		return Result{}, identity.OpError{Op: op, Kind: identity.ErrInvalidInput, Msg: err.Error()}
	}

	// Early duplicate check for a friendlier failure. The store re-checks and
	// the unique indexes close the race window.
	if _, err := s.store.FindByEmail(ctx, in.Email); err == nil {
		return Result{}, identity.ConflictError{Op: op, Field: "email"}
	} else if !identity.IsNotFound(err) && !identity.IsInvalidInput(err) {
		s.log.Error("auth.signup.precheck.fail", "err", err)
		return Result{}, identity.OpError{Op: op, Kind: identity.ErrInternal, Msg: "registration failed"}
	}

	created, err := s.store.CreateUser(ctx, in)
	if err != nil {
		return Result{}, err
	}

	tok, err := s.tokens.Issue(created.ID.Hex(), created.Email, created.Role, now)
	if err != nil {
		s.log.Error("auth.signup.token.fail", "err", err, "user_id", created.ID.Hex())
		return Result{}, identity.OpError{Op: op, Kind: identity.ErrInternal, Msg: "token issuance failed"}
	}

	return Result{User: created, Token: tok}, nil
}

// SignIn verifies the email/password pair and issues an access token.
// Every failure mode surfaces the same invalid-credentials error so the
// response never reveals whether the account exists.
func (s *Service) SignIn(ctx context.Context, now time.Time, email, pass string) (Result, error) {
	const op = "auth.SignIn"

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	creds, err := s.store.LookupCredentials(ctx, email)
	if err != nil {
		if identity.IsInvalidCredentials(err) {
			// Timing resistance: burn a verify even when the user is missing.
			if s.dummyHash != "" {
				_ = s.hasher.Verify(s.dummyHash, pass)
			}
			return Result{}, err
		}
		s.log.Error("auth.signin.lookup.fail", "err", err)
		return Result{}, identity.OpError{Op: op, Kind: identity.ErrInternal, Msg: "sign-in failed"}
	}

	if !s.hasher.Verify(creds.PasswordHash, pass) {
		return Result{}, identity.OpError{Op: op, Kind: identity.ErrInvalidCredentials, Msg: "invalid credentials"}
	}

	u := creds.User
	tok, err := s.tokens.Issue(u.ID.Hex(), u.Email, u.Role, now)
	if err != nil {
		s.log.Error("auth.signin.token.fail", "err", err, "user_id", u.ID.Hex())
		return Result{}, identity.OpError{Op: op, Kind: identity.ErrInternal, Msg: "token issuance failed"}
	}

	return Result{User: u, Token: tok}, nil
}

// Verify validates a bearer token and returns its claims.
func (s *Service) Verify(tokenStr string, now time.Time) (token.Claims, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return s.tokens.Verify(tokenStr, now)
}

package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity envelope embedded in every issued token.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt *time.Time // nil when the token carries no expiry
}

// Manager issues and verifies signed identity tokens.
type Manager struct {
	cfg Config
}

// identityClaims is the wire shape of the JWT payload.
type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// NewManager builds a token Manager from config, enforcing the key policy.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Key) == 0 {
		return nil, ErrKeyMissing
	}
	if len(cfg.Key) < MinKeyBytes {
		return nil, ErrKeyTooShort
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		cfg.Issuer = "padron"
	}
	return &Manager{cfg: cfg}, nil
}

// Issue creates a new signed token for the given identity.
// Every call produces a fresh token; nothing is stored server-side.
func (m *Manager) Issue(userID, email, role string, now time.Time) (string, error) {
	if m == nil {
		return "", ErrKeyMissing
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			Issuer:   m.cfg.Issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Email: email,
		Role:  role,
	}
	if m.cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.cfg.TTL))
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.cfg.Key)
}

// Verify checks signature, issuer, and (when present) expiry, then returns
// the embedded claims. Any failure collapses to ErrInvalidToken so callers
// cannot leak why a token was rejected.
func (m *Manager) Verify(tokenStr string, now time.Time) (Claims, error) {
	if m == nil {
		return Claims{}, ErrInvalidToken
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var claims identityClaims
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return m.cfg.Key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
		Issuer: claims.Issuer,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		out.ExpiresAt = &exp
	}
	return out, nil
}

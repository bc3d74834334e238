// Package session implements the signed session token and its cookie
// transport. A session is self-contained: the token carries the subject
// identity and role, and its existence is determined entirely by
// cryptographic verification. There is no server-side session table.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jobmatch/go-jobmatch-server/users"
	"github.com/pkg/errors"
)

// DefaultTTL is the absolute lifetime of an issued session token.
const DefaultTTL = 7 * 24 * time.Hour

// Session is the verified content of a session token. A Session value only
// ever exists fully valid: correct signature, unexpired, known role.
type Session struct {
	SubjectID string
	Role      users.RoleType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a symmetric key held only by
// the server process. Verify is a pure function of the token and the key, so
// it is safe to call any number of times per request.
type Codec struct {
	key     []byte
	ttl     time.Duration
	issuer  string
	nowTime func() time.Time // injectable for testing
}

// CodecOption defines a function type to modify the Codec instance.
type CodecOption func(*Codec)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

// WithTTL overrides the default token lifetime.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *Codec) {
		c.ttl = ttl
	}
}

// NewCodec creates a Codec from the signing key loaded at process start.
// A missing key is a configuration error the caller must treat as fatal;
// operating without one would make every token unverifiable or insecure.
func NewCodec(key []byte, issuer string, options ...CodecOption) (*Codec, error) {
	if len(key) == 0 {
		return nil, errors.New("[NewCodec] signing key is required")
	}

	codec := &Codec{
		key:     key,
		ttl:     DefaultTTL,
		issuer:  issuer,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(codec)
	}

	if codec.ttl <= 0 {
		return nil, errors.New("[NewCodec] ttl must be positive")
	}

	return codec, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for the subject with a fresh expiry window.
func (c *Codec) Issue(subjectID string, role users.RoleType) (string, error) {
	if subjectID == "" {
		return "", errors.New("[Codec Issue] subjectID is required")
	}
	if !users.ValidRole(role) {
		return "", errors.Errorf("[Codec Issue] unknown role %q", role)
	}

	now := c.nowTime()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})

	return token.SignedString(c.key)
}

// Verify parses and validates a token. It returns the session on success and
// nil for anything else: malformed encoding, signature mismatch, expiry, or
// a role outside the known enumeration. All rejections look identical to the
// caller so a failed token never reveals why it failed.
func (c *Codec) Verify(tokenStr string) *Session {
	if tokenStr == "" {
		return nil
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.nowTime),
	)

	token, err := parser.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.key, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	parsed, ok := token.Claims.(*claims)
	if !ok {
		return nil
	}

	role := users.RoleType(parsed.Role)
	if !users.ValidRole(role) {
		return nil
	}
	if parsed.Subject == "" || parsed.ExpiresAt == nil {
		return nil
	}

	session := &Session{
		SubjectID: parsed.Subject,
		Role:      role,
		ExpiresAt: parsed.ExpiresAt.Time,
	}
	if parsed.IssuedAt != nil {
		session.IssuedAt = parsed.IssuedAt.Time
	}

	return session
}

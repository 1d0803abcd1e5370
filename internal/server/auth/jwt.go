package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidSignature covers tampered, unparseable and malformed tokens.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrTokenExpired is returned only when the signature checks out.
	ErrTokenExpired = errors.New("token expired")
)

// TokenType discriminates access from refresh tokens.
type TokenType int

const (
	TokenAccess TokenType = iota + 1
	TokenRefresh
)

func (t TokenType) String() string {
	switch t {
	case TokenAccess:
		return "access"
	case TokenRefresh:
		return "refresh"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

func ParseTokenType(s string) (TokenType, error) {
	switch s {
	case "access":
		return TokenAccess, nil
	case "refresh":
		return TokenRefresh, nil
	default:
		return 0, fmt.Errorf("unknown token type %q", s)
	}
}

// Claims is the decoded payload of a token.
type Claims struct {
	Subject   string
	Type      TokenType
	ExpiresAt time.Time
	IssuedAt  time.Time
	ID        string
}

type wireClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// CodecConfig carries the process-wide signing settings.
type CodecConfig struct {
	Secret     []byte
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Codec signs and verifies typed, expiring tokens. It does not care which
// type a caller expects; callers check Claims.Type themselves.
type Codec struct {
	method     jwt.SigningMethod
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type CodecOption func(*Codec)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

func NewCodec(cfg CodecConfig, opts ...CodecOption) (*Codec, error) {
	var method jwt.SigningMethod
	switch cfg.Algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if len(cfg.Secret) == 0 {
		return nil, errors.New("empty signing secret")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	c := &Codec{
		method:     method,
		secret:     cfg.Secret,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Codec) IssueAccess(subject string) (string, time.Time, error) {
	return c.issue(subject, TokenAccess, c.accessTTL)
}

func (c *Codec) IssueRefresh(subject string) (string, time.Time, error) {
	return c.issue(subject, TokenRefresh, c.refreshTTL)
}

func (c *Codec) issue(subject string, typ TokenType, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("empty subject")
	}
	now := c.now().UTC()
	exp := jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(c.method, wireClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: exp,
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Type: typ.String(),
	})

	s, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp.Time.UTC(), nil
}

func (c *Codec) Decode(tokenString string) (Claims, error) {
	wc := &wireClaims{}
	_, err := jwt.ParseWithClaims(tokenString, wc,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, ErrInvalidSignature
	}

	typ, err := ParseTokenType(wc.Type)
	if err != nil || wc.Subject == "" {
		return Claims{}, ErrInvalidSignature
	}

	out := Claims{
		Subject:   wc.Subject,
		Type:      typ,
		ExpiresAt: wc.ExpiresAt.Time.UTC(),
		ID:        wc.ID,
	}
	if wc.IssuedAt != nil {
		out.IssuedAt = wc.IssuedAt.Time.UTC()
	}
	return out, nil
}

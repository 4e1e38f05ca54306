package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretBytes is the minimum decoded HMAC key length (256 bits).
const MinSecretBytes = 32

// Token verification failures. Callers tell them apart with errors.Is; the
// messages are shown to clients after "Unauthorized: ".
var (
	ErrMalformedToken   = errors.New("invalid JWT token")
	ErrExpiredToken     = errors.New("expired JWT token")
	ErrUnsupportedToken = errors.New("unsupported JWT token")
	ErrMalformedClaims  = errors.New("JWT claims are missing or empty")

	ErrWeakSecret = errors.New("jwt secret must decode to at least 32 bytes")
)

var errUnexpectedAlg = errors.New("unexpected signing method")

// DecodeSecret decodes a Base64 (standard or URL alphabet, padded or not)
// secret and enforces the minimum key size.
func DecodeSecret(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	var (
		key []byte
		err error
	)
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if key, err = enc.DecodeString(s); err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("decode jwt secret: %w", err)
	}
	if len(key) < MinSecretBytes {
		return nil, ErrWeakSecret
	}
	return key, nil
}

// Claims is the payload of an access token. Expiry and issue time keep
// millisecond precision on the wire, which jwt.NumericDate truncates away.
type Claims struct {
	Subject   string     `json:"sub"`
	IssuedAt  epochMilli `json:"iat"`
	ExpiresAt epochMilli `json:"exp"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt.IsZero() {
		return nil, nil
	}
	return &jwt.NumericDate{Time: c.ExpiresAt.Time}, nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt.IsZero() {
		return nil, nil
	}
	return &jwt.NumericDate{Time: c.IssuedAt.Time}, nil
}

func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuer() (string, error) { return "", nil }
func (c Claims) GetSubject() (string, error) { return c.Subject, nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

// epochMilli is a NumericDate serialised as fractional seconds with three
// decimals.
type epochMilli struct{ time.Time }

func (d epochMilli) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(d.UnixMilli())/1e3, 'f', 3, 64)), nil
}

func (d *epochMilli) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("numeric date: %w", err)
	}
	d.Time = time.UnixMilli(int64(math.Round(f * 1e3)))
	return nil
}

// Codec mints and verifies HS256 access tokens under one process-wide key.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// CodecOption customises a Codec.
type CodecOption func(*Codec)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// NewCodec builds a Codec. key must already be decoded (see DecodeSecret).
func NewCodec(key []byte, ttl time.Duration, opts ...CodecOption) (*Codec, error) {
	if len(key) < MinSecretBytes {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	c := &Codec{key: key, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns how long minted tokens stay valid.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Mint issues a token for username valid for the codec TTL.
func (c *Codec) Mint(username string) (string, time.Time, error) {
	if username == "" {
		return "", time.Time{}, fmt.Errorf("mint token: %w", ErrMalformedClaims)
	}
	now := c.now().Truncate(time.Millisecond)
	exp := now.Add(c.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Subject:   username,
		IssuedAt:  epochMilli{now},
		ExpiresAt: epochMilli{exp},
	})
	signed, err := t.SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, structure and expiry and returns the subject.
func (c *Codec) Verify(token string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("%w: %v", errUnexpectedAlg, t.Header["alg"])
		}
		return c.key, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		return "", classify(err)
	}

	if claims.ExpiresAt.IsZero() {
		return "", fmt.Errorf("%w: exp", ErrMalformedClaims)
	}
	// Expiry is exclusive: a token is dead at exactly exp.
	if !c.now().Before(claims.ExpiresAt.Time) {
		return "", ErrExpiredToken
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: sub", ErrMalformedClaims)
	}
	return claims.Subject, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, errUnexpectedAlg), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrUnsupportedToken, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %v", ErrMalformedClaims, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}

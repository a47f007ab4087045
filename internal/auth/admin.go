package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrTokenFormat      = errors.New("invalid token format")
	ErrTokenSig         = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)

const minPasswordLen = 6

// Gate implements the admin password check and issues expiring session
// tokens. Token format: base64url(id "." exp_unix "." hex(hmac_sha256(secret, id "." exp))).
type Gate struct {
	mu       sync.Mutex
	password string
	secret   []byte
	timeout  time.Duration
	now      func() time.Time
}

// Option customizes a Gate, mainly for tests.
type Option func(*Gate)

// WithClock substitutes the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate builds a gate for the configured password and signing secret.
func NewGate(password, secret string, timeout time.Duration, opts ...Option) *Gate {
	g := &Gate{
		password: password,
		secret:   []byte(secret),
		timeout:  timeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login checks the password and mints a session token on success.
func (g *Gate) Login(password string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) != 1 {
		return "", ErrInvalidPassword
	}

	id := "admin_" + uuid.NewString()
	exp := g.now().Add(g.timeout).Unix()
	msg := id + "." + strconv.FormatInt(exp, 10)
	sig := hex.EncodeToString(g.sign(msg))
	return base64.RawURLEncoding.EncodeToString([]byte(msg + "." + sig)), nil
}

// Validate verifies a session token's signature and expiry.
func (g *Gate) Validate(token string) error {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return ErrTokenFormat
	}
	parts := strings.Split(string(raw), ".")
	if len(parts) != 3 {
		return ErrTokenFormat
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ErrTokenFormat
	}

	got, err := hex.DecodeString(parts[2])
	if err != nil {
		return ErrTokenFormat
	}
	want := g.sign(parts[0] + "." + parts[1])
	if !hmac.Equal(want, got) {
		return ErrTokenSig
	}

	if g.now().Unix() > exp {
		return ErrTokenExpired
	}
	return nil
}

// ChangePassword swaps the admin password after verifying the current one.
// Outstanding tokens stay valid until they expire.
func (g *Gate) ChangePassword(current, next string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if subtle.ConstantTimeCompare([]byte(current), []byte(g.password)) != 1 {
		return ErrInvalidPassword
	}
	if len(next) < minPasswordLen {
		return ErrPasswordTooShort
	}
	g.password = next
	return nil
}

func (g *Gate) sign(msg string) []byte {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}

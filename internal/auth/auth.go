// Package auth is the local account gate: bcrypt-hashed accounts and a
// signed session token, both kept in the KV store.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/examencivique/examencivique/internal/store"
)

// Account errors. The codes mirror what the sign-in screen explains.
var (
	ErrInvalidEmail      = errors.New("INVALID_EMAIL")
	ErrWrongPassword     = errors.New("WRONG_PASSWORD")
	ErrUserNotFound      = errors.New("USER_NOT_FOUND")
	ErrEmailInUse        = errors.New("EMAIL_ALREADY_IN_USE")
	ErrWeakPassword      = errors.New("WEAK_PASSWORD")
	ErrTooManyAttempts   = errors.New("TOO_MANY_REQUESTS")
	errSessionNotPresent = errors.New("no session")
)

// KV keys owned by this package.
const (
	Namespace   = "auth."
	KeySession  = Namespace + "session"
	KeySecret   = Namespace + "secret"
	keyUserPref = Namespace + "user."
)

const (
	MinPasswordLength = 6
	DefaultSessionTTL = 30 * 24 * time.Hour
	maxFailedAttempts = 5
	lockoutDuration   = time.Minute
	issuer            = "examencivique"
	secretSize        = 32
)

// User is a signed-in account.
type User struct {
	Email     string
	CreatedAt time.Time
}

type account struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    int64  `json:"created_at"` // unix millis
}

// Claims is the session token payload.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type failures struct {
	count int
	until time.Time
}

// Service manages local accounts and the current session.
type Service struct {
	kv         store.KV
	logger     *slog.Logger
	ttl        time.Duration
	now        func() time.Time
	bcryptCost int

	mu       sync.Mutex
	secret   []byte
	failures map[string]failures
}

// Option configures a Service.
type Option func(*Service)

// WithSessionTTL sets how long a sign-in lasts.
func WithSessionTTL(d time.Duration) Option { return func(s *Service) { s.ttl = d } }

// WithClock overrides the time source for token issue and expiry.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithBcryptCost overrides the hashing cost.
func WithBcryptCost(cost int) Option { return func(s *Service) { s.bcryptCost = cost } }

// NewService creates an auth service over kv.
func NewService(kv store.KV, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		kv:         kv,
		logger:     logger,
		ttl:        DefaultSessionTTL,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
		failures:   make(map[string]failures),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeEmail validates an address and returns its canonical form.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	at := strings.LastIndexByte(email, '@')
	if at < 1 || !strings.Contains(email[at+1:], ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Register creates an account and signs it in.
func (s *Service) Register(ctx context.Context, email, password string) (User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return User{}, err
	}
	if len([]rune(password)) < MinPasswordLength {
		return User{}, ErrWeakPassword
	}
	if _, err := s.loadAccount(ctx, email); err == nil {
		return User{}, ErrEmailInUse
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	acc := account{Email: email, PasswordHash: string(hash), CreatedAt: s.now().UnixMilli()}
	if err := s.saveAccount(ctx, acc); err != nil {
		return User{}, err
	}
	s.logger.Info("account registered", "email", email)

	if err := s.startSession(ctx, email); err != nil {
		return User{}, err
	}
	return acc.user(), nil
}

// SignIn checks credentials and starts a session. Repeated failures lock
// the account for a minute.
func (s *Service) SignIn(ctx context.Context, email, password string) (User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return User{}, err
	}
	if s.lockedOut(email) {
		return User{}, ErrTooManyAttempts
	}
	acc, err := s.loadAccount(ctx, email)
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		s.recordFailure(email)
		s.logger.Warn("sign-in rejected", "email", email)
		return User{}, ErrWrongPassword
	}
	s.clearFailures(email)

	if err := s.startSession(ctx, email); err != nil {
		return User{}, err
	}
	s.logger.Info("signed in", "email", email)
	return acc.user(), nil
}

// SignOut ends the current session. Signing out twice is fine.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeySession); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info("signed out")
	return nil
}

// ChangePassword replaces the password of an account after checking the
// old one.
func (s *Service) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	email, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	acc, err := s.loadAccount(ctx, email)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(oldPassword)) != nil {
		return ErrWrongPassword
	}
	if len([]rune(newPassword)) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	acc.PasswordHash = string(hash)
	if err := s.saveAccount(ctx, acc); err != nil {
		return err
	}
	s.logger.Info("password changed", "email", email)
	return nil
}

// CurrentUser returns the signed-in account. An expired or tampered token
// is discarded.
func (s *Service) CurrentUser(ctx context.Context) (User, bool) {
	email, err := s.sessionEmail(ctx)
	if err != nil {
		if !errors.Is(err, errSessionNotPresent) {
			s.logger.Info("session discarded", "reason", err)
			_ = s.kv.Delete(ctx, KeySession)
		}
		return User{}, false
	}
	acc, err := s.loadAccount(ctx, email)
	if err != nil {
		_ = s.kv.Delete(ctx, KeySession)
		return User{}, false
	}
	return acc.user(), true
}

// IsSignedIn reports whether a valid session exists.
func (s *Service) IsSignedIn() bool {
	_, ok := s.CurrentUser(context.Background())
	return ok
}

func (s *Service) startSession(ctx context.Context, email string) error {
	secret, err := s.signingSecret(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	if err := s.kv.Set(ctx, KeySession, []byte(token)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Service) sessionEmail(ctx context.Context) (string, error) {
	raw, err := s.kv.Get(ctx, KeySession)
	if errors.Is(err, store.ErrNotFound) {
		return "", errSessionNotPresent
	}
	if err != nil {
		return "", err
	}
	secret, err := s.signingSecret(ctx)
	if err != nil {
		return "", err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(string(raw), claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Email == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Email, nil
}

// signingSecret returns the per-installation HMAC key, creating it on first
// use.
func (s *Service) signingSecret(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.secret != nil {
		return s.secret, nil
	}

	raw, err := s.kv.Get(ctx, KeySecret)
	switch {
	case err == nil && len(raw) >= secretSize:
		s.secret = raw
		return raw, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("read signing secret: %w", err)
	}

	secret := make([]byte, secretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate signing secret: %w", err)
	}
	if err := s.kv.Set(ctx, KeySecret, secret); err != nil {
		return nil, fmt.Errorf("save signing secret: %w", err)
	}
	s.secret = secret
	return secret, nil
}

func (s *Service) loadAccount(ctx context.Context, email string) (account, error) {
	raw, err := s.kv.Get(ctx, keyUserPref+email)
	if errors.Is(err, store.ErrNotFound) {
		return account{}, ErrUserNotFound
	}
	if err != nil {
		return account{}, fmt.Errorf("read account: %w", err)
	}
	var acc account
	if err := json.Unmarshal(raw, &acc); err != nil {
		return account{}, fmt.Errorf("decode account %s: %w", email, err)
	}
	return acc, nil
}

func (s *Service) saveAccount(ctx context.Context, acc account) error {
	raw, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}
	if err := s.kv.Set(ctx, keyUserPref+acc.Email, raw); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (s *Service) lockedOut(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.failures[email]
	return f.count >= maxFailedAttempts && s.now().Before(f.until)
}

func (s *Service) recordFailure(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.failures[email]
	if f.count >= maxFailedAttempts {
		f = failures{} // lockout expired, start over
	}
	f.count++
	if f.count >= maxFailedAttempts {
		f.until = s.now().Add(lockoutDuration)
	}
	s.failures[email] = f
}

func (s *Service) clearFailures(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, email)
}

func (a account) user() User {
	return User{Email: a.Email, CreatedAt: time.UnixMilli(a.CreatedAt)}
}

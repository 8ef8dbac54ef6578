// Package identity manages user accounts, credentials, sessions and
// password-reset tokens on top of the document store.
package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"storefront/pkg/models"
	"storefront/pkg/store"
	"storefront/pkg/token"
)

// BearerPrefix starts every Authorization header this service accepts.
const BearerPrefix = "Bearer "

// Defaults for Config zero values.
const (
	DefaultSessionTTL = 24 * time.Hour
	DefaultResetTTL   = 15 * time.Minute
)

// Config tunes token lifetimes and password hashing.
type Config struct {
	SessionTTL time.Duration
	ResetTTL   time.Duration
	Hasher     Hasher
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Birthday string `json:"birthday"`
}

// Service implements registration, login and credential management.
type Service struct {
	store    *store.Store
	sessions token.Store
	resets   token.Store
	cfg      Config

	now      func() time.Time
	newToken func() string

	// resetMu makes consuming a reset token and applying it one step.
	resetMu sync.Mutex
}

// NewService wires the service to its document store and token tables.
func NewService(st *store.Store, sessions, resets token.Store, cfg Config) *Service {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.ResetTTL == 0 {
		cfg.ResetTTL = DefaultResetTTL
	}
	if cfg.Hasher == (Hasher{}) {
		cfg.Hasher = DefaultHasher()
	}
	return &Service{
		store:    st,
		sessions: sessions,
		resets:   resets,
		cfg:      cfg,
		now:      time.Now,
		newToken: token.New,
	}
}

// WithClock replaces the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates a user and opens a session for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.Profile, string, error) {
	if in.Email == "" || in.Password == "" {
		return models.Profile{}, "", ErrInvalidInput
	}
	hash, err := s.cfg.Hasher.Hash(ctx, in.Password)
	if err != nil {
		return models.Profile{}, "", err
	}

	var u models.User
	err = s.store.Update(ctx, func(doc *store.Document) error {
		if doc.FindUserByEmail(in.Email) >= 0 {
			return ErrDuplicateEmail
		}
		u = models.User{
			ID:           doc.NextUserID(),
			Email:        in.Email,
			PasswordHash: hash,
			Name:         in.Name,
			Phone:        in.Phone,
			Birthday:     in.Birthday,
			CreatedAt:    s.now().UTC().Format(models.TimestampLayout),
		}
		doc.Users = append(doc.Users, u)
		return nil
	})
	if err != nil {
		return models.Profile{}, "", err
	}

	tok, err := s.issueSession(ctx, u.ID)
	if err != nil {
		return models.Profile{}, "", err
	}
	return u.Profile(), tok, nil
}

// Login checks credentials and opens a new session. Accounts still carrying
// a plaintext password are rehashed on success.
func (s *Service) Login(ctx context.Context, email, password string) (models.Profile, string, error) {
	u, ok := s.userBy(func(doc *store.Document) int { return doc.FindUserByEmail(email) })
	if !ok {
		return models.Profile{}, "", ErrUnknownEmail
	}
	match, err := s.checkPassword(ctx, u, password)
	if err != nil {
		return models.Profile{}, "", err
	}
	if !match {
		return models.Profile{}, "", ErrInvalidPassword
	}

	if u.PasswordHash == "" {
		if err := s.setPassword(ctx, u, password); err != nil {
			return models.Profile{}, "", fmt.Errorf("rehash legacy password: %w", err)
		}
	}

	tok, err := s.issueSession(ctx, u.ID)
	if err != nil {
		return models.Profile{}, "", err
	}
	return u.Profile(), tok, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	tok, ok := strings.CutPrefix(header, BearerPrefix)
	tok = strings.TrimSpace(tok)
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}

// Authenticate resolves an Authorization header to the ID of an existing user.
func (s *Service) Authenticate(ctx context.Context, header string) (string, error) {
	tok, ok := BearerToken(header)
	if !ok {
		return "", ErrUnauthorized
	}
	userID, err := s.sessions.Get(ctx, tok)
	if errors.Is(err, token.ErrNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	if _, ok := s.userBy(func(doc *store.Document) int { return doc.FindUserByID(userID) }); !ok {
		return "", ErrUnauthorized
	}
	return userID, nil
}

// Logout revokes a single session token.
func (s *Service) Logout(ctx context.Context, tok string) error {
	return s.sessions.Delete(ctx, tok)
}

// ChangePassword replaces userID's password. Only the user themself may do
// it, and only with the current password.
func (s *Service) ChangePassword(ctx context.Context, userID, requesterID, oldPassword, newPassword string) error {
	if userID != requesterID {
		return ErrForbidden
	}
	u, ok := s.userBy(func(doc *store.Document) int { return doc.FindUserByID(userID) })
	if !ok {
		return ErrNotFound
	}
	match, err := s.checkPassword(ctx, u, oldPassword)
	if err != nil {
		return err
	}
	if !match {
		return ErrWrongOldPassword
	}
	if newPassword == "" {
		return ErrInvalidInput
	}
	return s.setPassword(ctx, u, newPassword)
}

// RequestPasswordReset mints a single-use reset token for the account behind
// email and returns it with the link the client should follow.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, string, error) {
	u, ok := s.userBy(func(doc *store.Document) int { return doc.FindUserByEmail(email) })
	if !ok {
		return "", "", ErrUnknownEmail
	}
	tok := s.newToken()
	if err := s.resets.Put(ctx, tok, u.ID, s.cfg.ResetTTL); err != nil {
		return "", "", err
	}
	return tok, "/reset-password?token=" + url.QueryEscape(tok), nil
}

// ResetPassword consumes a reset token and sets a new password. All open
// sessions of the user are revoked.
func (s *Service) ResetPassword(ctx context.Context, tok, newPassword string) error {
	s.resetMu.Lock()
	defer s.resetMu.Unlock()

	if tok == "" {
		return ErrInvalidResetToken
	}
	userID, err := s.resets.Get(ctx, tok)
	if errors.Is(err, token.ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}
	if newPassword == "" {
		return ErrInvalidInput
	}
	hash, err := s.cfg.Hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}

	err = s.store.Update(ctx, func(doc *store.Document) error {
		i := doc.FindUserByID(userID)
		if i < 0 {
			return ErrNotFound
		}
		doc.Users[i].PasswordHash = hash
		doc.Users[i].Password = ""
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.resets.Delete(ctx, tok); err != nil {
		return err
	}
	return s.sessions.DeleteUser(ctx, userID)
}

func (s *Service) issueSession(ctx context.Context, userID string) (string, error) {
	tok := s.newToken()
	if err := s.sessions.Put(ctx, tok, userID, s.cfg.SessionTTL); err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	return tok, nil
}

// userBy returns a copy of the user at the index chosen by find.
func (s *Service) userBy(find func(doc *store.Document) int) (models.User, bool) {
	var (
		u  models.User
		ok bool
	)
	s.store.View(func(doc *store.Document) {
		if i := find(doc); i >= 0 {
			u, ok = doc.Users[i], true
		}
	})
	return u, ok
}

func (s *Service) checkPassword(ctx context.Context, u models.User, password string) (bool, error) {
	switch {
	case u.PasswordHash != "":
		match, err := s.cfg.Hasher.Verify(ctx, password, u.PasswordHash)
		if err != nil {
			return false, fmt.Errorf("verify password of %s: %w", u.ID, err)
		}
		return match, nil
	case u.Password != "":
		return subtle.ConstantTimeCompare([]byte(password), []byte(u.Password)) == 1, nil
	default:
		return false, nil
	}
}

// setPassword stores a new hash for u, provided its credentials did not
// change since u was read.
func (s *Service) setPassword(ctx context.Context, u models.User, password string) error {
	hash, err := s.cfg.Hasher.Hash(ctx, password)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, func(doc *store.Document) error {
		i := doc.FindUserByID(u.ID)
		if i < 0 {
			return ErrNotFound
		}
		cur := doc.Users[i]
		if cur.PasswordHash != u.PasswordHash || cur.Password != u.Password {
			return ErrWrongOldPassword
		}
		doc.Users[i].PasswordHash = hash
		doc.Users[i].Password = ""
		return nil
	})
}

package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campusbites/campusbites/internal/api"
	"github.com/campusbites/campusbites/internal/cart"
	"github.com/campusbites/campusbites/internal/domain"
	"github.com/campusbites/campusbites/internal/storage"
)

const (
	keyToken   = "token"
	keyUser    = "user"
	keyCollege = "college"
	keyCanteen = "canteen"
)

// Tokens is the storage-backed token side channel handed to the API client.
type Tokens struct {
	st *storage.Store
}

func NewTokens(st *storage.Store) *Tokens {
	return &Tokens{st: st}
}

func (t *Tokens) Token() string {
	var token string
	if err := t.st.Get(keyToken, &token); err != nil {
		return ""
	}
	return token
}

func (t *Tokens) SetToken(token string) error {
	return t.st.Put(keyToken, token)
}

func (t *Tokens) Clear() error {
	return t.st.Delete(keyToken)
}

// Store holds the authenticated user for the lifetime of the process and
// keeps the durable snapshots (token, user, selections) in sync.
type Store struct {
	client *api.Client
	tokens *Tokens
	st     *storage.Store
	logger *slog.Logger
	user   *domain.User
}

func New(client *api.Client, tokens *Tokens, st *storage.Store, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		tokens: tokens,
		st:     st,
		logger: logger,
	}
}

// Init validates a persisted token by fetching the current user. Any failure
// silently resets the session to anonymous; a stale token is never surfaced
// as an error to the caller.
func (s *Store) Init(ctx context.Context) {
	if s.tokens.Token() == "" {
		return
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.logger.Debug("stored token rejected, clearing session", "error", err)
		s.reset()
		return
	}

	s.user = user
	if err := s.st.Put(keyUser, user); err != nil {
		s.logger.Warn("failed to cache user snapshot", "error", err)
	}
}

// Login exchanges a Google ID token plus college selection for a session.
// The bearer token is persisted before the canonical user is fetched, so the
// follow-up /users/me call is already authenticated.
func (s *Store) Login(ctx context.Context, idToken string, collegeID int) (*domain.User, error) {
	resp, err := s.client.GoogleLogin(ctx, idToken, collegeID)
	if err != nil {
		return nil, fmt.Errorf("google login: %w", err)
	}

	if err := s.tokens.SetToken(resp.AccessToken); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.reset()
		return nil, fmt.Errorf("fetch user after login: %w", err)
	}

	s.user = user
	if err := s.st.Put(keyUser, user); err != nil {
		return nil, fmt.Errorf("persist user: %w", err)
	}
	if err := s.st.Put(keyCollege, collegeID); err != nil {
		return nil, fmt.Errorf("persist college selection: %w", err)
	}

	s.logger.Info("logged in", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Logout drops the token, the cached user, the selections, and the cart
// snapshot. No network call is involved.
func (s *Store) Logout() {
	s.reset()
	s.logger.Info("logged out")
}

func (s *Store) reset() {
	_ = s.tokens.Clear()
	_ = s.st.Delete(keyUser)
	_ = s.st.Delete(keyCollege)
	_ = s.st.Delete(keyCanteen)
	_ = s.st.Delete(cart.StorageKey)
	s.user = nil
}

func (s *Store) CurrentUser() *domain.User {
	return s.user
}

func (s *Store) Authenticated() bool {
	return s.user != nil
}

// HasRole reports whether the current user holds any of the given roles.
// Anonymous sessions hold none.
func (s *Store) HasRole(roles ...domain.Role) bool {
	if s.user == nil {
		return false
	}
	for _, role := range roles {
		if s.user.Role == role {
			return true
		}
	}
	return false
}

// CollegeID returns the selected college, or zero when none is stored.
func (s *Store) CollegeID() int {
	var id int
	if err := s.st.Get(keyCollege, &id); err != nil {
		return 0
	}
	return id
}

// SelectCanteen records the canteen the student is browsing.
func (s *Store) SelectCanteen(id int) error {
	return s.st.Put(keyCanteen, id)
}

// CanteenID returns the selected canteen, or zero when none is stored.
func (s *Store) CanteenID() int {
	var id int
	if err := s.st.Get(keyCanteen, &id); err != nil {
		return 0
	}
	return id
}

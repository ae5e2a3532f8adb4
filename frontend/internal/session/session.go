package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
	"github.com/folio-desk/folio/shared/logger"
)

// IdentityResolver looks up the identity behind the credential currently held.
type IdentityResolver interface {
	CurrentUser(ctx context.Context) (domain.User, error)
}

// Store holds the current identity and bearer credential. The credential is
// mirrored to a CredentialStore; the identity lives only in memory.
type Store struct {
	mu         sync.RWMutex
	durable    CredentialStore
	credential string
	identity   domain.User
	hasUser    bool
}

// New loads any credential left by a previous run. An unreadable store is
// treated as empty.
func New(durable CredentialStore) *Store {
	s := &Store{durable: durable}
	token, err := durable.Load()
	if err != nil {
		logger.Component("session").Warn("could not load stored credential, starting signed out", "error", err)
	}
	s.credential = token
	return s
}

// Credential returns the bearer credential, empty when none is held.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

func (s *Store) Identity() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.hasUser
}

// ResolveCurrentIdentity answers "who is logged in". Without a credential no
// request is made. A credential the backend rejects is discarded. A
// transport failure also yields no identity but keeps the credential.
func (s *Store) ResolveCurrentIdentity(ctx context.Context, resolver IdentityResolver) (domain.User, bool) {
	token := s.Credential()
	if token == "" {
		return domain.User{}, false
	}

	user, err := resolver.CurrentUser(ctx)
	if err != nil {
		if errors.IsTransport(err) {
			logger.Component("session").Warn("identity lookup failed, keeping credential", "error", err)
			return domain.User{}, false
		}
		logger.Component("session").Info("stored credential rejected, discarding it", "error", err)
		s.discard(token)
		return domain.User{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credential != token {
		// replaced while the lookup was in flight
		return domain.User{}, false
	}
	s.identity, s.hasUser = user, true
	return user, true
}

// Establish persists the credential and makes user the current identity.
func (s *Store) Establish(user domain.User, token string) error {
	if err := s.durable.Save(token); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = token
	s.identity, s.hasUser = user, true
	return nil
}

// Adopt records an identity that has no credential behind it (demo sessions).
func (s *Store) Adopt(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity, s.hasUser = user, true
}

// Clear discards credential and identity. It is idempotent; storage failures
// are logged and otherwise ignored.
func (s *Store) Clear() {
	s.mu.Lock()
	s.credential = ""
	s.identity, s.hasUser = domain.User{}, false
	s.mu.Unlock()

	if err := s.durable.Delete(); err != nil {
		logger.Component("session").Warn("could not erase stored credential", "error", err)
	}
}

// discard clears the credential only if it is still the rejected one.
func (s *Store) discard(token string) {
	s.mu.Lock()
	if s.credential != token {
		s.mu.Unlock()
		return
	}
	s.credential = ""
	s.identity, s.hasUser = domain.User{}, false
	s.mu.Unlock()

	if err := s.durable.Delete(); err != nil {
		logger.Component("session").Warn("could not erase stored credential", "error", err)
	}
}

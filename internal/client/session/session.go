// Package session holds the authenticated user of the client and mirrors it
// into durable storage so a login survives restarts.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carservice/station/internal/client/storage"
	"github.com/carservice/station/internal/core/domain"
)

// StorageKey is the durable entry the session is kept under.
const StorageKey = "user"

// State is the store snapshot. Authenticated is true iff User is non-nil.
type State struct {
	User          *domain.UserSession
	Authenticated bool
}

// Action is a state transition understood by Reduce.
type Action interface{ isAction() }

// Login replaces the current session.
type Login struct{ User domain.UserSession }

// Logout clears the current session.
type Logout struct{}

func (Login) isAction()  {}
func (Logout) isAction() {}

// Reduce is the pure transition function of the store.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Login:
		u := a.User
		u.Roles = append([]string(nil), a.User.Roles...)
		return State{User: &u, Authenticated: true}
	case Logout:
		return State{}
	default:
		return s
	}
}

// Store is safe for concurrent use. Subscribers run synchronously after each
// transition, outside the store lock.
type Store struct {
	mu    sync.RWMutex
	state State
	subs  map[int]func(State)
	next  int

	storage storage.Storage
	log     zerolog.Logger
}

// Open restores the session from st. A missing or malformed entry leaves the
// store unauthenticated; nothing is returned because nothing can fail.
func Open(ctx context.Context, st storage.Storage, log zerolog.Logger) *Store {
	s := &Store{storage: st, log: log, subs: map[int]func(State){}}

	data, found, err := st.Get(ctx, StorageKey)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("reading stored session")
	case !found:
	default:
		var u domain.UserSession
		if err := json.Unmarshal(data, &u); err != nil {
			log.Warn().Err(err).Msg("stored session is malformed, starting signed out")
			break
		}
		if u.Token == "" && u.Username == "" && u.ID == 0 {
			// "null" or "{}"
			break
		}
		s.state = Reduce(s.state, Login{User: u})
	}
	return s
}

// Login stores u as the current session and persists it.
func (s *Store) Login(ctx context.Context, u domain.UserSession) {
	st := s.dispatch(Login{User: u})

	data, err := json.Marshal(st.User)
	if err != nil {
		s.log.Error().Err(err).Msg("encoding session")
		return
	}
	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		s.log.Error().Err(err).Msg("persisting session")
	}
}

// Logout clears the session and its durable entry. Calling it twice is harmless.
func (s *Store) Logout(ctx context.Context) {
	s.dispatch(Logout{})
	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		s.log.Error().Err(err).Msg("removing stored session")
	}
}

// State returns a snapshot; the returned user is a copy.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// User returns the current session, if any.
func (s *Store) User() (domain.UserSession, bool) {
	st := s.State()
	if st.User == nil {
		return domain.UserSession{}, false
	}
	return *st.User, true
}

// BearerToken returns the token to authenticate requests with. ok is false
// when signed out or when the session carries no token.
func (s *Store) BearerToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil || s.state.User.Token == "" {
		return "", false
	}
	return s.state.User.Token, true
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User.IsAdmin()
}

func (s *Store) IsCustomer() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User.IsCustomer()
}

// Subscribe registers fn to be called with the new state after every
// transition. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	st := copyState(s.state)
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(copyState(st))
	}
	return st
}

func copyState(s State) State {
	if s.User == nil {
		return s
	}
	u := *s.User
	u.Roles = append([]string(nil), s.User.Roles...)
	return State{User: &u, Authenticated: s.Authenticated}
}

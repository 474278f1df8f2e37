package sessions

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/go-tutor-portal/storage"
	"github.com/jrsteele09/go-tutor-portal/users"
	"github.com/rs/zerolog/log"
)

var errNoProfileFetcher = errors.New("no profile fetcher configured")

// ProfileFetcher loads the profile of whoever the persisted token belongs to.
// Any error means the session is invalid.
type ProfileFetcher interface {
	Profile(ctx context.Context) (*users.Profile, error)
}

// ProfileFetcherFunc adapts a function to ProfileFetcher.
type ProfileFetcherFunc func(ctx context.Context) (*users.Profile, error)

func (f ProfileFetcherFunc) Profile(ctx context.Context) (*users.Profile, error) {
	return f(ctx)
}

// Store is the single source of truth for who is logged in, with which role
// and profile. It reconciles memory against a durable storage.Repo and the
// backend profile endpoint. None of its operations return errors: failures
// show up as the resulting state.
//
// Overlapping Initialize calls are not deduplicated; the last fetch to
// complete wins.
type Store struct {
	repo     storage.Repo
	profiles ProfileFetcher

	lock      sync.RWMutex
	state     Session
	version   uint64
	listeners map[int]func(Session)
	nextID    int

	notifyLock sync.Mutex
	delivered  uint64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithProfileFetcher sets the collaborator Initialize uses to validate the token.
func WithProfileFetcher(f ProfileFetcher) StoreOption {
	return func(s *Store) {
		s.profiles = f
	}
}

// New creates a Store in the Unresolved phase. repo may be nil when no durable
// storage is available; the store then behaves as if storage were always empty.
func New(repo storage.Repo, options ...StoreOption) *Store {
	s := &Store{
		repo:      repo,
		state:     Session{IsLoading: true},
		listeners: make(map[int]func(Session)),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// SetProfileFetcher binds the profile collaborator after construction. The
// backend client usually needs the store as its token source, so one of the
// two has to be wired second.
func (s *Store) SetProfileFetcher(f ProfileFetcher) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.profiles = f
}

// Login records a freshly issued token and role. The profile is not fetched;
// the session stays in PhaseProfilePending until the next Initialize.
func (s *Store) Login(token string, role users.Role) {
	s.lock.Lock()
	s.write(storage.TokenKey, token)
	s.write(storage.RoleKey, role.String())
	s.state.IsAuthenticated = true
	s.state.Role = role
	snapshot, version := s.commit()
	s.lock.Unlock()

	log.Debug().Str("role", role.String()).Msg("session login")
	s.notify(snapshot, version)
}

// Logout wipes the persisted credential and the in-memory session.
// Safe to call when already logged out.
func (s *Store) Logout() {
	s.lock.Lock()
	s.clearPersisted()
	s.state.User = nil
	s.state.IsAuthenticated = false
	s.state.Role = users.RoleNone
	snapshot, version := s.commit()
	s.lock.Unlock()

	log.Debug().Msg("session logout")
	s.notify(snapshot, version)
}

// Initialize resolves the session from durable storage and the profile endpoint.
//
// No token: the persisted role is dropped and the session becomes Anonymous
// without any network call. Token present: the profile is fetched; success
// yields Authenticated with the persisted role, any failure wipes memory and
// storage together and yields Anonymous.
func (s *Store) Initialize(ctx context.Context) {
	s.lock.RLock()
	role := s.persistedRole()
	token := s.read(storage.TokenKey)
	profiles := s.profiles
	s.lock.RUnlock()

	if token == "" {
		s.lock.Lock()
		s.remove(storage.RoleKey)
		s.state.IsLoading = false
		s.state.Role = users.RoleNone
		snapshot, version := s.commit()
		s.lock.Unlock()

		s.notify(snapshot, version)
		return
	}

	profile, err := fetchProfile(ctx, profiles)

	s.lock.Lock()
	if err != nil {
		log.Warn().Err(err).Msg("session invalid, clearing stored credential")
		s.clearPersisted()
		s.state = Session{}
	} else {
		s.state = Session{
			User:            profile,
			IsAuthenticated: true,
			IsLoading:       false,
			Role:            role,
		}
	}
	snapshot, version := s.commit()
	s.lock.Unlock()

	s.notify(snapshot, version)
}

// Token returns the persisted bearer token or "" when there is none.
func (s *Store) Token() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.read(storage.TokenKey)
}

// Role returns the in-memory role, falling back to the persisted one so a
// role is available before Initialize has finished.
func (s *Store) Role() users.Role {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.state.Role != users.RoleNone {
		return s.state.Role
	}
	return s.persistedRole()
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state.clone()
}

// Phase reports where the session is in its lifecycle.
func (s *Store) Phase() Phase {
	return s.Snapshot().Phase()
}

// Subscribe registers fn to run after state changes. The returned function
// removes the subscription.
//
// Listeners run one at a time and never see an older state after a newer
// one: a snapshot overtaken by a later change is dropped, so under
// concurrent mutation some intermediate states are skipped. Listeners may
// read the store but must not call Login, Logout or Initialize.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.lock.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lock.Unlock()

	return func() {
		s.lock.Lock()
		delete(s.listeners, id)
		s.lock.Unlock()
	}
}

// commit stamps the current state with a new version. Must be called with
// the write lock held.
func (s *Store) commit() (Session, uint64) {
	s.version++
	return s.state.clone(), s.version
}

func (s *Store) notify(snapshot Session, version uint64) {
	s.notifyLock.Lock()
	defer s.notifyLock.Unlock()
	if version <= s.delivered {
		return
	}
	s.delivered = version

	s.lock.RLock()
	listeners := make([]func(Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.lock.RUnlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func fetchProfile(ctx context.Context, profiles ProfileFetcher) (profile *users.Profile, err error) {
	if profiles == nil {
		return nil, errNoProfileFetcher
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("profile fetch panicked")
			profile, err = nil, errors.New("profile fetch panicked")
		}
	}()
	profile, err = profiles.Profile(ctx)
	if err == nil && profile == nil {
		err = errors.New("empty profile response")
	}
	return profile, err
}

// persistedRole must be called with the lock held.
func (s *Store) persistedRole() users.Role {
	raw := s.read(storage.RoleKey)
	role, err := users.ParseRole(raw)
	if err != nil {
		log.Warn().Err(err).Msg("ignoring unrecognised stored role")
		return users.RoleNone
	}
	return role
}

func (s *Store) read(key string) string {
	if s.repo == nil {
		return ""
	}
	v, ok, err := s.repo.Get(key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("durable storage read failed")
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

func (s *Store) write(key, value string) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Set(key, value); err != nil {
		log.Error().Err(err).Str("key", key).Msg("durable storage write failed")
	}
}

func (s *Store) remove(key string) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Delete(key); err != nil {
		log.Error().Err(err).Str("key", key).Msg("durable storage delete failed")
	}
}

func (s *Store) clearPersisted() {
	s.remove(storage.TokenKey)
	s.remove(storage.RoleKey)
}

// Package session implements the Session Store: the single owner of the
// session credential and its validity status.
//
// State machine:
//
//	start ──(no persisted credential)──────────────▶ Unauthenticated
//	start ──(persisted credential)──▶ Validating ──2xx──▶ Valid
//	                                        └──other──▶ Invalid ──▶ Unauthenticated
//	Login ──────────────────────────────────────────▶ Valid
//	Logout / ForceInvalidate ───────────────────────▶ Unauthenticated
//	RejectCredential(current, not validating) ──────▶ Unauthenticated
//
// Every Login, Logout, ForceInvalidate and Initialize increments the state
// generation. A validation result is applied only when its generation is
// still current, so a late answer never overrides a newer user action.
//
// Changes are published to subscribers as State snapshots.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/creditmonitor/internal/client/identity"
	"github.com/dmitrijs2005/creditmonitor/internal/logging"
)

const subscriberBuffer = 16

// Validator confirms a persisted credential with the backend.
type Validator interface {
	ValidateToken(ctx context.Context, token string) error
}

type Store struct {
	persister Persister
	validator Validator
	logger    logging.Logger

	mu     sync.Mutex
	state  State
	closed bool
	subs   []chan State

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewStore(p Persister, v Validator, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		persister: p,
		validator: v,
		logger:    logger.With("component", "session"),
		state:     State{Status: StatusUnauthenticated},
		baseCtx:   ctx,
		cancel:    cancel,
	}
}

// Initialize reads the persisted credential. With a credential the store
// enters Validating and confirms it with the backend in the background;
// without one it settles on Unauthenticated.
func (s *Store) Initialize(ctx context.Context) error {
	cred, id, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	gen := s.state.Generation + 1
	if !cred.Present() {
		s.setLocked(State{Status: StatusUnauthenticated, Generation: gen})
		s.logger.Info(ctx, "no persisted session")
		return nil
	}

	s.setLocked(State{Status: StatusValidating, Credential: cred, Identity: id, Generation: gen})
	s.logger.Info(ctx, "validating persisted session", "generation", gen)

	s.wg.Add(1)
	go s.validate(gen, cred)
	return nil
}

func (s *Store) validate(gen uint64, cred Credential) {
	defer s.wg.Done()

	err := s.validator.ValidateToken(s.baseCtx, string(cred))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state.Generation != gen {
		s.logger.Debug(s.baseCtx, "discarding stale validation result", "generation", gen, "current", s.state.Generation)
		return
	}

	if err == nil {
		next := s.state
		next.Status = StatusValid
		s.setLocked(next)
		s.logger.Info(s.baseCtx, "session validated", "generation", gen)
		return
	}

	s.logger.Warn(s.baseCtx, "session validation failed", "generation", gen, "error", err)
	next := s.state
	next.Status = StatusInvalid
	s.setLocked(next)
	_ = s.logoutLocked(s.baseCtx, "validation failed")
}

// Login persists cred and marks the session Valid.
func (s *Store) Login(ctx context.Context, cred Credential, id *identity.Identity) error {
	if !cred.Present() {
		return ErrEmptyCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if err := s.persister.Save(ctx, cred, id); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	var ownID *identity.Identity
	if id != nil {
		cp := *id
		ownID = &cp
	}
	gen := s.state.Generation + 1
	s.setLocked(State{Status: StatusValid, Credential: cred, Identity: ownID, Generation: gen})
	s.logger.Info(ctx, "logged in", "user", ownID.DisplayName(), "generation", gen)
	return nil
}

// Logout clears the persisted credential and returns to Unauthenticated.
// Calling it while already logged out does nothing.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.state.LoggedOut() {
		return nil
	}
	return s.logoutLocked(ctx, "logout")
}

// ForceInvalidate has the same terminal effect as Logout. It is called by the
// transport when the backend rejects the credential, so it never issues a
// network call and is a no-op once the store is closed.
func (s *Store) ForceInvalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state.LoggedOut() {
		return nil
	}
	// the triggering request may already be cancelled; the slot must still be cleared
	return s.logoutLocked(context.WithoutCancel(ctx), "credential rejected")
}

// RejectCredential handles a 401/403 for a request that carried cred. The
// session is logged out only while cred is still the current credential, so
// a late rejection of a superseded credential changes nothing. A rejection
// of the credential under validation is left to the validation result,
// which passes through Invalid.
func (s *Store) RejectCredential(ctx context.Context, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state.LoggedOut() {
		return nil
	}
	if !cred.Present() || cred != s.state.Credential {
		s.logger.Debug(ctx, "ignoring rejection of a superseded credential", "generation", s.state.Generation)
		return nil
	}
	if s.state.Status == StatusValidating {
		return nil
	}
	return s.logoutLocked(context.WithoutCancel(ctx), "credential rejected")
}

// logoutLocked always reaches the logged-out shape in memory, even when the
// persisted slot cannot be cleared; that failure is logged and returned.
func (s *Store) logoutLocked(ctx context.Context, reason string) error {
	err := s.persister.Clear(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to clear persisted credential", "error", err)
		err = fmt.Errorf("clear credential: %w", err)
	}

	gen := s.state.Generation + 1
	s.setLocked(State{Status: StatusUnauthenticated, Generation: gen})
	s.logger.Info(ctx, "logged out", "reason", reason, "generation", gen)
	return err
}

// setLocked stores next and publishes it. Callers hold s.mu.
func (s *Store) setLocked(next State) {
	if !next.Consistent() {
		// a valid status never goes out without a credential
		next = State{Status: StatusUnauthenticated, Generation: next.Generation}
	}
	s.state = next

	snapshot := next.clone()
	for _, ch := range s.subs {
		select {
		case ch <- snapshot:
		default:
			// slow subscriber: drop its oldest pending snapshot, keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Credential returns the current credential for request construction, or ""
// when there is none.
func (s *Store) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.state.Credential)
}

// Subscribe returns a channel receiving every state change. The channel is
// closed by Close.
func (s *Store) Subscribe() <-chan State {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

// Close stops the store: in-flight validations are cancelled and their
// results ignored, subscriber channels are closed. Close waits for
// background work to finish and is safe to call more than once.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	s.mu.Unlock()

	s.wg.Wait()
}

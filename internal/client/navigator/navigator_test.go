package navigator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/creditmonitor/internal/client/connectivity"
	"github.com/dmitrijs2005/creditmonitor/internal/client/guard"
	"github.com/dmitrijs2005/creditmonitor/internal/client/identity"
	"github.com/dmitrijs2005/creditmonitor/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu sync.Mutex
	st session.State
}

func (f *fakeSession) Snapshot() session.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st
}

func (f *fakeSession) set(st session.State) {
	f.mu.Lock()
	f.st = st
	f.mu.Unlock()
}

type fakeConn struct {
	mu sync.Mutex
	st connectivity.State
}

func (f *fakeConn) Snapshot() connectivity.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st
}

func (f *fakeConn) set(s connectivity.Status) connectivity.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev := connectivity.Event{Previous: f.st.Status, State: connectivity.State{Status: s}}
	f.st = ev.State
	return ev
}

var (
	online    = connectivity.State{Status: connectivity.StatusOnline}
	loggedOut = session.State{Status: session.StatusUnauthenticated}
	valid     = session.State{Status: session.StatusValid, Credential: "tok"}
)

func TestNavigate_ProtectedWhileLoggedOut(t *testing.T) {
	n := New(guard.DefaultRoutes(), &fakeSession{st: loggedOut}, &fakeConn{st: online}, nil)

	v := n.Navigate("/credits")
	assert.Equal(t, "/", v.Path)
	assert.Equal(t, guard.Allow, v.Decision.Kind)
	assert.Equal(t, v, n.Current())
}

func TestNavigate_EntryWhileValid(t *testing.T) {
	n := New(guard.DefaultRoutes(), &fakeSession{st: valid}, &fakeConn{st: online}, nil)

	v := n.Navigate("/")
	assert.Equal(t, "/dashboard", v.Path)
	assert.Equal(t, guard.Allow, v.Decision.Kind)
}

func TestNavigate_HoldKeepsIntent(t *testing.T) {
	sess := &fakeSession{st: session.State{Status: session.StatusValidating, Credential: "tok"}}
	n := New(guard.DefaultRoutes(), sess, &fakeConn{st: online}, nil)

	v := n.Navigate("/payments")
	assert.Equal(t, "/loading", v.Path)
	assert.Equal(t, "/payments", v.Intent)
	assert.Equal(t, guard.Hold, v.Decision.Kind)

	sess.set(valid)
	v = n.Reevaluate()
	assert.Equal(t, "/payments", v.Path)
	assert.Equal(t, guard.Allow, v.Decision.Kind)
}

func TestNavigator_OfflineAndRecovery(t *testing.T) {
	sess := &fakeSession{st: valid}
	conn := &fakeConn{st: online}
	n := New(guard.DefaultRoutes(), sess, conn, nil)
	ctx := context.Background()

	require.Equal(t, "/credits", n.Navigate("/credits").Path)

	n.onConnectivity(ctx, conn.set(connectivity.StatusOffline))
	assert.Equal(t, "/server-offline", n.Current().Path)

	n.onConnectivity(ctx, conn.set(connectivity.StatusOffline))
	assert.Equal(t, "/server-offline", n.Current().Path, "repeated failures stay offline")

	n.onConnectivity(ctx, conn.set(connectivity.StatusOnline))
	v := n.Current()
	assert.Equal(t, "/dashboard", v.Path, "recovery goes through entry, not back to /credits")
}

func TestNavigator_RecoveryWhileLoggedOutLandsOnEntry(t *testing.T) {
	sess := &fakeSession{st: valid}
	conn := &fakeConn{st: online}
	n := New(guard.DefaultRoutes(), sess, conn, nil)
	ctx := context.Background()

	n.Navigate("/offers")
	n.onConnectivity(ctx, conn.set(connectivity.StatusOffline))
	sess.set(loggedOut)
	n.onConnectivity(ctx, conn.set(connectivity.StatusOnline))

	assert.Equal(t, "/", n.Current().Path)
}

func TestNavigator_OnlineProbeKeepsView(t *testing.T) {
	sess := &fakeSession{st: valid}
	conn := &fakeConn{st: online}
	n := New(guard.DefaultRoutes(), sess, conn, nil)

	n.Navigate("/installments")
	n.onConnectivity(context.Background(), conn.set(connectivity.StatusOnline))

	assert.Equal(t, "/installments", n.Current().Path)
}

func TestNavigator_UpdatesOnlyOnChange(t *testing.T) {
	n := New(guard.DefaultRoutes(), &fakeSession{st: valid}, &fakeConn{st: online}, nil)

	n.Navigate("/credits")
	n.Navigate("/credits")
	n.Navigate("/messages")

	var got []string
	for len(n.Updates()) > 0 {
		got = append(got, (<-n.Updates()).Path)
	}
	assert.Equal(t, []string{"/credits", "/messages"}, got)
}

// ---- end to end with the real store and monitor ----

type memPersister struct {
	mu   sync.Mutex
	cred session.Credential
}

func (m *memPersister) Load(context.Context) (session.Credential, *identity.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred, nil, nil
}

func (m *memPersister) Save(_ context.Context, c session.Credential, _ *identity.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = c
	return nil
}

func (m *memPersister) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = ""
	return nil
}

type validatorFunc func(ctx context.Context, token string) error

func (f validatorFunc) ValidateToken(ctx context.Context, token string) error { return f(ctx, token) }

type harness struct {
	store   *session.Store
	monitor *connectivity.Monitor
	nav     *Navigator
	cancel  context.CancelFunc
}

func start(t *testing.T, p session.Persister, v session.Validator, probe connectivity.ProberFunc) *harness {
	t.Helper()

	store := session.NewStore(p, v, nil)
	monitor := connectivity.NewMonitor(probe, connectivity.Options{Interval: time.Hour}, nil)
	nav := New(guard.DefaultRoutes(), store, monitor, nil)

	ctx, cancel := context.WithCancel(context.Background())
	sessions, conns := store.Subscribe(), monitor.Subscribe()
	go nav.Run(ctx, sessions, conns)
	go monitor.Run(ctx)

	<-monitor.Ready()
	require.NoError(t, store.Initialize(ctx))

	h := &harness{store: store, monitor: monitor, nav: nav, cancel: cancel}
	t.Cleanup(func() {
		cancel()
		store.Close()
	})
	return h
}

func (h *harness) eventuallyAt(t *testing.T, path string) {
	t.Helper()
	require.Eventually(t, func() bool { return h.nav.Current().Path == path }, time.Second, 5*time.Millisecond,
		"want %s, current %+v", path, h.nav.Current())
}

func TestScenario_NoCredentialLandsOnEntry(t *testing.T) {
	h := start(t, &memPersister{}, validatorFunc(func(context.Context, string) error { return nil }),
		func(context.Context) error { return nil })

	h.eventuallyAt(t, "/")
	assert.Equal(t, "/", h.nav.Navigate("/credits").Path)
}

func TestScenario_ValidCredentialLandsOnDashboard(t *testing.T) {
	h := start(t, &memPersister{cred: "tok"}, validatorFunc(func(context.Context, string) error { return nil }),
		func(context.Context) error { return nil })

	h.eventuallyAt(t, "/dashboard")
	assert.Equal(t, "/dashboard", h.nav.Navigate("/").Path)
}

func TestScenario_RejectedCredentialLandsOnEntry(t *testing.T) {
	p := &memPersister{cred: "tok"}
	h := start(t, p, validatorFunc(func(context.Context, string) error { return errors.New("401") }),
		func(context.Context) error { return nil })

	h.eventuallyAt(t, "/")
	assert.True(t, h.store.Snapshot().LoggedOut())
	cred, _, _ := p.Load(context.Background())
	assert.False(t, cred.Present())
}

func TestScenario_OfflineThenRecoveryGoesThroughEntry(t *testing.T) {
	var mu sync.Mutex
	var down bool
	probe := func(context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		if down {
			return errors.New("unreachable")
		}
		return nil
	}
	h := start(t, &memPersister{cred: "tok"}, validatorFunc(func(context.Context, string) error { return nil }), probe)
	h.eventuallyAt(t, "/dashboard")
	h.nav.Navigate("/credits")

	mu.Lock()
	down = true
	mu.Unlock()
	_, err := h.monitor.CheckNow(context.Background(), false)
	require.NoError(t, err)
	h.eventuallyAt(t, "/server-offline")

	mu.Lock()
	down = false
	mu.Unlock()
	_, err = h.monitor.CheckNow(context.Background(), false)
	require.NoError(t, err)
	h.eventuallyAt(t, "/dashboard")
}

func TestScenario_LoginAndLogoutMoveTheView(t *testing.T) {
	h := start(t, &memPersister{}, validatorFunc(func(context.Context, string) error { return nil }),
		func(context.Context) error { return nil })
	h.eventuallyAt(t, "/")

	require.NoError(t, h.store.Login(context.Background(), "tok", nil))
	h.eventuallyAt(t, "/dashboard")

	h.nav.Navigate("/messages")
	require.NoError(t, h.store.ForceInvalidate(context.Background()))
	h.eventuallyAt(t, "/")
}

package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/creditmonitor/internal/client/client"
	"github.com/dmitrijs2005/creditmonitor/internal/client/config"
	"github.com/dmitrijs2005/creditmonitor/internal/client/connectivity"
	"github.com/dmitrijs2005/creditmonitor/internal/client/dashboard"
	"github.com/dmitrijs2005/creditmonitor/internal/client/guard"
	"github.com/dmitrijs2005/creditmonitor/internal/client/models"
	"github.com/dmitrijs2005/creditmonitor/internal/client/navigator"
	"github.com/dmitrijs2005/creditmonitor/internal/client/services"
	"github.com/dmitrijs2005/creditmonitor/internal/client/session"
	"github.com/dmitrijs2005/creditmonitor/internal/logging"
	"google.golang.org/grpc"

	_ "modernc.org/sqlite"
)

// DataService is the dashboard data the views render.
type DataService interface {
	Credits(ctx context.Context) (models.CreditMatrix, error)
	Chart(ctx context.Context, kind models.ChartKind, q models.ChartQuery) (models.ChartData, error)
}

type App struct {
	config *config.Config
	logger logging.Logger
	routes guard.Routes

	db          *sql.DB
	store       *session.Store
	monitor     *connectivity.Monitor
	nav         *navigator.Navigator
	authService services.AuthService
	data        DataService
	closers     []func() error

	chartQuery models.ChartQuery

	// viewMu serialises rendering; shown is the view last put on screen.
	viewMu sync.Mutex
	shown  navigator.View

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database and wires the transport, session store,
// connectivity monitor, navigator and services. Nothing touches the network
// until Run.
func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()
	if logger == nil {
		logger = logging.Nop()
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	// the transport and the store depend on each other; closures break the cycle
	var store *session.Store
	tokens := func() string { return store.Credential() }
	onAuthFailure := func(ctx context.Context, code int, cred string) {
		logger.Warn(ctx, "credential rejected by backend", "status", code)
		_ = store.RejectCredential(ctx, session.Credential(cred))
	}

	api, err := client.NewAPIClient(client.Config{
		BaseURL:       c.APIURL,
		Timeout:       c.RequestTimeout,
		Tokens:        tokens,
		OnAuthFailure: onAuthFailure,
		Logger:        logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store = session.NewStore(session.NewSQLitePersister(db), api, logger)

	a := &App{
		config:     c,
		logger:     logger,
		routes:     guard.DefaultRoutes(),
		db:         db,
		store:      store,
		chartQuery: models.DefaultChartQuery(time.Now()),
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}

	prober, err := a.newProber(api, tokens, onAuthFailure)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.monitor = connectivity.NewMonitor(prober, connectivity.Options{
		Interval: c.OnlineCheckInterval,
		Timeout:  c.ProbeTimeout,
	}, logger)
	a.nav = navigator.New(a.routes, store, a.monitor, logger)
	a.authService = services.NewAuthService(api, store, logger)
	a.data = dashboard.NewService(api, logger)

	return a, nil
}

func (a *App) newProber(api *client.APIClient, tokens client.TokenSource, onAuthFailure client.AuthFailureHandler) (connectivity.Prober, error) {
	if a.config.ProbeMode != config.ProbeModeGRPC {
		return connectivity.NewHTTPProber(api, a.config.HealthPath), nil
	}

	p, err := connectivity.NewGRPCHealthProber(a.config.GRPCHealthAddr, "",
		grpc.WithUnaryInterceptor(client.UnaryAuthInterceptor(tokens, onAuthFailure)))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, p.Close)
	return p, nil
}

// Run starts the background monitor, waits for the first reachability
// verdict, restores the session and then serves the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer a.Close()
	a.out = &lockedWriter{w: a.out}
	defer wg.Wait()
	defer cancel()

	sessions := a.store.Subscribe()
	settled := a.store.Subscribe()
	conns := a.monitor.Subscribe()

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.monitor.Run(ctx)
	}()

	a.show(ctx, a.nav.Current)

	select {
	case <-a.monitor.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := a.store.Initialize(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if err := a.awaitSession(ctx, settled); err != nil {
		return err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.nav.Run(ctx, sessions, conns)
	}()

	printlnFn("Welcome to Credit Monitor CLI (type 'help' for commands)")
	a.show(ctx, a.nav.Reevaluate)

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.watchViews(ctx)
	}()

	scanner := bufio.NewScanner(a.reader)
	runREPL(ctx, a, a.getStatus, scanner)
	return nil
}

// awaitSession keeps the loading view up while a restored credential is
// being validated.
func (a *App) awaitSession(ctx context.Context, changes <-chan session.State) error {
	for a.store.Snapshot().Status == session.StatusValidating {
		select {
		case <-changes:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// watchViews renders view changes that no command put on screen, such as a
// redirect to the offline view or a forced logout.
func (a *App) watchViews(ctx context.Context) {
	for {
		select {
		case <-a.nav.Updates():
			a.announce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// announce renders the navigator's current view unless it is already shown.
func (a *App) announce(ctx context.Context) {
	a.viewMu.Lock()
	defer a.viewMu.Unlock()

	v := a.nav.Current()
	if v == a.shown {
		return
	}
	a.logger.Debug(ctx, "view changed", "path", v.Path, "decision", v.Decision.Kind)
	fmt.Fprintf(a.out, "-> %s\n", v.Path)
	a.showLocked(ctx, v)
}

// show resolves a view with move and renders it. Holding viewMu across both
// keeps announce from echoing a move a command just made.
func (a *App) show(ctx context.Context, move func() navigator.View) {
	a.viewMu.Lock()
	defer a.viewMu.Unlock()
	a.showLocked(ctx, move())
}

func (a *App) showLocked(ctx context.Context, v navigator.View) {
	a.shown = v
	a.render(ctx, v)
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Close releases the store, monitor, probers and database. It is safe to
// call more than once.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.monitor != nil {
		a.monitor.Close()
	}
	for _, c := range a.closers {
		_ = c()
	}
	a.closers = nil
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.CurrentUser() != nil
}

func (a *App) getStatus() string {
	s := ""
	if u := a.authService.CurrentUser(); u != nil {
		s = u.DisplayName() + " "
	}
	s += a.monitor.Snapshot().Status.String()
	s += " " + a.nav.Current().Path
	return fmt.Sprintf("(%s)", s)
}

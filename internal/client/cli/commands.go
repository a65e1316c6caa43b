package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/creditmonitor/internal/client/connectivity"
	"github.com/dmitrijs2005/creditmonitor/internal/client/models"
	"github.com/dmitrijs2005/creditmonitor/internal/client/navigator"
)

const statusHistory = 5

// Status prints the session, connectivity and the most recent probes.
func (a *App) Status(ctx context.Context) error {
	sess := a.store.Snapshot()
	conn := a.monitor.Snapshot()
	view := a.nav.Current()

	fmt.Fprintf(a.out, "Session:      %s", sess.Status)
	if u := a.authService.CurrentUser(); u != nil {
		fmt.Fprintf(a.out, " (%s)", u.DisplayName())
	}
	fmt.Fprintln(a.out)

	fmt.Fprintf(a.out, "Server:       %s", conn.Status)
	if !conn.LastCheckedAt.IsZero() {
		fmt.Fprintf(a.out, ", checked %s", conn.LastCheckedAt.Local().Format(time.TimeOnly))
	}
	fmt.Fprintln(a.out)
	if conn.LastError != "" {
		fmt.Fprintf(a.out, "Last error:   %s\n", conn.LastError)
	}
	fmt.Fprintf(a.out, "View:         %s (%s)\n", view.Path, view.Decision.Kind)

	history := a.monitor.History()
	if len(history) > statusHistory {
		history = history[len(history)-statusHistory:]
	}
	for _, s := range history {
		verdict := "ok"
		if !s.OK {
			verdict = "failed: " + s.Error
		}
		fmt.Fprintf(a.out, "  %s  %s\n", s.CheckedAt.Local().Format(time.TimeOnly), verdict)
	}
	return nil
}

// Views lists the navigable views.
func (a *App) Views(ctx context.Context) error {
	fmt.Fprintf(a.out, "  %-16s credits by country and status\n", a.routes.Default)
	for _, k := range models.ChartKinds {
		fmt.Fprintf(a.out, "  %-16s %s chart\n", "/"+string(k), k)
	}
	fmt.Fprintf(a.out, "  %-16s login\n", a.routes.Entry)
	return nil
}

// Go navigates to path and renders wherever the guard lands.
func (a *App) Go(ctx context.Context, path string) error {
	a.show(ctx, func() navigator.View { return a.nav.Navigate(path) })
	return nil
}

// Refresh re-renders the current view, fetching its data again.
func (a *App) Refresh(ctx context.Context) error {
	a.show(ctx, a.nav.Reevaluate)
	return nil
}

// Check probes the backend immediately.
func (a *App) Check(ctx context.Context) error {
	st, err := a.monitor.CheckNow(ctx, false)
	if errors.Is(err, connectivity.ErrProbeInFlight) {
		fmt.Fprintln(a.out, "A check is already running")
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Server is %s\n", st.Status)
	return nil
}

// Set changes one chart filter and refreshes the view.
func (a *App) Set(ctx context.Context, key, value string) error {
	q := a.chartQuery

	switch strings.ToLower(key) {
	case "unit":
		u, err := models.ParseTimeUnit(value)
		if err != nil {
			return a.fail(err)
		}
		q.Unit = u
	case "date":
		d, err := time.ParseInLocation(models.DateLayout, value, time.Local)
		if err != nil {
			return a.fail(fmt.Errorf("date must be YYYY-MM-DD: %w", err))
		}
		q.Date = d
	case "country":
		q.Country = models.Country(strings.ToUpper(value))
		if q.Country == "ALL" {
			q.Country = ""
		}
	case "integration":
		q.Integration = strings.ToUpper(value)
		if q.Integration == "ALL" {
			q.Integration = ""
		}
	case "client":
		c, err := models.ParseClientType(value)
		if err != nil {
			return a.fail(err)
		}
		q.Client = c
	default:
		return a.fail(fmt.Errorf("unknown setting %q", key))
	}

	q, err := q.Validate()
	if err != nil {
		return a.fail(err)
	}
	a.chartQuery = q
	return a.Refresh(ctx)
}

// Shift moves the chart window n periods.
func (a *App) Shift(ctx context.Context, n int) error {
	a.chartQuery = a.chartQuery.Shift(n)
	return a.Refresh(ctx)
}

func (a *App) fail(err error) error {
	fmt.Fprintf(a.out, "Error: %s\n", err)
	return err
}

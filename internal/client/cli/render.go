package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/creditmonitor/internal/client/models"
	"github.com/dmitrijs2005/creditmonitor/internal/client/navigator"
)

// render prints v. Data views fetch on every render; fetch errors are shown
// in place and never change the view.
func (a *App) render(ctx context.Context, v navigator.View) {
	switch v.Path {
	case a.routes.Loading:
		fmt.Fprintln(a.out, "Loading...")
	case a.routes.Offline:
		fmt.Fprintf(a.out, "The server is not reachable. Checking again every %s; type 'check' to retry now.\n",
			a.config.OnlineCheckInterval)
	case a.routes.Entry:
		fmt.Fprintln(a.out, "Credit Monitor. Log in with your Google account: type 'login'.")
	case a.routes.Default:
		a.renderCredits(ctx)
	default:
		kind, err := models.ParseChartKind(v.Path)
		if err != nil {
			fmt.Fprintf(a.out, "Unknown view %s (type 'views')\n", v.Path)
			return
		}
		a.renderChart(ctx, kind)
	}
}

func (a *App) renderCredits(ctx context.Context) {
	m, err := a.data.Credits(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error loading credits: %s\n", err)
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{"Country"}
	for _, s := range models.CreditStatuses {
		header = append(header, s.Name())
	}
	header = append(header, "Total")
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, c := range models.Countries {
		row := []string{c.Name()}
		for _, s := range models.CreditStatuses {
			row = append(row, fmt.Sprint(m[c][s]))
		}
		row = append(row, fmt.Sprint(m.Total(c)))
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	_ = tw.Flush()
}

func (a *App) renderChart(ctx context.Context, kind models.ChartKind) {
	q := a.chartQuery
	data, err := a.data.Chart(ctx, kind, q)
	if err != nil {
		fmt.Fprintf(a.out, "Error loading %s: %s\n", kind, err)
		return
	}

	fmt.Fprintf(a.out, "%s, %s from %s, client %s, country %s, integration %s\n",
		strings.ToUpper(string(kind)), q.Unit, q.PeriodStart().Format(models.DateLayout),
		q.Client, orAll(string(q.Country)), orAll(q.Integration))

	if len(data.Series) == 0 {
		fmt.Fprintln(a.out, "No data")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{""}
	for _, s := range data.Series {
		header = append(header, s.Name)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for i, cat := range data.Options.XAxis.Categories {
		row := []string{cat}
		for _, s := range data.Series {
			cell := "-"
			if i < len(s.Data) {
				cell = fmt.Sprint(s.Data[i])
			}
			row = append(row, cell)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	_ = tw.Flush()
}

func orAll(s string) string {
	if s == "" {
		return "ALL"
	}
	return s
}

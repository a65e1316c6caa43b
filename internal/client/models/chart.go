package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrUnknownChart       = errors.New("unknown chart")
	ErrInvalidTimeUnit    = errors.New("invalid time unit")
	ErrInvalidClientType  = errors.New("invalid client type")
	ErrInvalidIntegration = errors.New("invalid integration")
	ErrInvalidCountry     = errors.New("invalid country")
)

// ChartKind names a /api/contract/<kind> endpoint.
type ChartKind string

const (
	ChartCredits      ChartKind = "credits"
	ChartPayments     ChartKind = "payments"
	ChartInstallments ChartKind = "installments"
	ChartMessages     ChartKind = "messages"
	ChartOffers       ChartKind = "offers"
)

var ChartKinds = []ChartKind{ChartCredits, ChartPayments, ChartInstallments, ChartMessages, ChartOffers}

func ParseChartKind(s string) (ChartKind, error) {
	k := ChartKind(strings.ToLower(strings.Trim(strings.TrimSpace(s), "/")))
	for _, known := range ChartKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChart, s)
}

type TimeUnit string

const (
	UnitDay   TimeUnit = "DAY"
	UnitWeek  TimeUnit = "WEEK"
	UnitMonth TimeUnit = "MONTH"
)

func ParseTimeUnit(s string) (TimeUnit, error) {
	switch u := TimeUnit(strings.ToUpper(strings.TrimSpace(s))); u {
	case UnitDay, UnitWeek, UnitMonth:
		return u, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeUnit, s)
	}
}

type ClientType string

const (
	ClientRider    ClientType = "RIDER"
	ClientContract ClientType = "CONTRACT"
)

func ParseClientType(s string) (ClientType, error) {
	switch c := ClientType(strings.ToUpper(strings.TrimSpace(s))); c {
	case ClientRider, ClientContract:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidClientType, s)
	}
}

// Integrations are the backend integrations a chart can be filtered by.
var Integrations = []string{
	"ACCOUNTING",
	"CREATE_OFFER",
	"DEBT",
	"DEPOSIT",
	"INSTALLMENT_TAXES",
	"INVOICING",
	"NOTIFY",
	"PAYMENT",
	"SAVE_CLIENT",
	"SELECTED_DEBT",
}

// ChartQuery selects the window and filters of a chart. Empty Country or
// Integration means all.
type ChartQuery struct {
	Unit        TimeUnit
	Date        time.Time
	Country     Country
	Integration string
	Client      ClientType
}

// DefaultChartQuery is a daily contract chart for today.
func DefaultChartQuery(now time.Time) ChartQuery {
	return ChartQuery{Unit: UnitDay, Date: now, Client: ClientContract}
}

// Validate checks every field and fills defaults for unit and client.
func (q ChartQuery) Validate() (ChartQuery, error) {
	if q.Unit == "" {
		q.Unit = UnitDay
	}
	if _, err := ParseTimeUnit(string(q.Unit)); err != nil {
		return q, err
	}
	if q.Client == "" {
		q.Client = ClientContract
	}
	if _, err := ParseClientType(string(q.Client)); err != nil {
		return q, err
	}
	if q.Country != "" && !q.Country.Known() {
		return q, fmt.Errorf("%w: %q", ErrInvalidCountry, q.Country)
	}
	if q.Integration != "" && !knownIntegration(q.Integration) {
		return q, fmt.Errorf("%w: %q", ErrInvalidIntegration, q.Integration)
	}
	if q.Date.IsZero() {
		q.Date = time.Now()
	}
	return q, nil
}

func knownIntegration(s string) bool {
	for _, i := range Integrations {
		if i == s {
			return true
		}
	}
	return false
}

// PeriodStart returns the first day of the window containing q.Date: the
// day itself, the Monday of its week, or the first of its month.
func (q ChartQuery) PeriodStart() time.Time {
	y, m, d := q.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, q.Date.Location())

	switch q.Unit {
	case UnitWeek:
		// Monday is the first day of the week
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case UnitMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, q.Date.Location())
	default:
		return day
	}
}

// Shift moves the query n windows forward (negative n moves back).
func (q ChartQuery) Shift(n int) ChartQuery {
	switch q.Unit {
	case UnitWeek:
		q.Date = q.Date.AddDate(0, 0, 7*n)
	case UnitMonth:
		q.Date = q.PeriodStart().AddDate(0, n, 0)
	default:
		q.Date = q.Date.AddDate(0, 0, n)
	}
	return q
}

// Series is one named data series of a chart.
type Series struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

type XAxis struct {
	Categories []string `json:"categories"`
}

type ChartOptions struct {
	XAxis XAxis `json:"xaxis"`
}

// ChartData is the backend chart payload.
type ChartData struct {
	Options ChartOptions `json:"options"`
	Series  []Series     `json:"series"`
}

// WeekdayLabels replaces YYYY-MM-DD categories with weekday names. Categories
// that are not dates are kept as they are.
func (c *ChartData) WeekdayLabels() {
	for i, cat := range c.Options.XAxis.Categories {
		d, err := time.Parse(DateLayout, cat)
		if err != nil {
			continue
		}
		c.Options.XAxis.Categories[i] = d.Weekday().String()
	}
}

// Package models defines the dashboard data shapes shared by the client
// services and the CLI renderer.
package models

// Country is an ISO country code the backend reports credits for.
type Country string

// Countries lists the markets in display order.
var Countries = []Country{"AR", "CL", "DO", "EC", "GT", "PE", "SV"}

var countryNames = map[Country]string{
	"AR": "Argentina",
	"CL": "Chile",
	"DO": "Dominican Republic",
	"EC": "Ecuador",
	"GT": "Guatemala",
	"PE": "Peru",
	"SV": "El Salvador",
}

// Name returns the display name, or the code itself when unknown.
func (c Country) Name() string {
	if n, ok := countryNames[c]; ok {
		return n
	}
	return string(c)
}

func (c Country) Known() bool {
	_, ok := countryNames[c]
	return ok
}

// CreditStatus is the lifecycle status of a credit.
type CreditStatus string

// CreditStatuses lists the statuses in display order.
var CreditStatuses = []CreditStatus{
	"PENDING",
	"ACCOUNTING",
	"ACCOUNTED",
	"DEPOSIT_FAIL",
	"IN_PROGRESS",
	"REGRETTED",
	"FINISHED",
	"WRITE_OFF",
}

var statusNames = map[CreditStatus]string{
	"PENDING":      "Pending",
	"ACCOUNTING":   "Accounting",
	"ACCOUNTED":    "Accounted",
	"DEPOSIT_FAIL": "Deposit failed",
	"IN_PROGRESS":  "In progress",
	"REGRETTED":    "Rejected",
	"FINISHED":     "Finished",
	"WRITE_OFF":    "Written off",
}

func (s CreditStatus) Name() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return string(s)
}

// CreditCount is one row of GET /api/credits.
type CreditCount struct {
	Country Country      `json:"country"`
	Status  CreditStatus `json:"status"`
	Qty     int64        `json:"qty"`
}

// CreditMatrix is the full country by status grid. Every known country and
// status has a cell; cells without data are zero.
type CreditMatrix map[Country]map[CreditStatus]int64

// NewCreditMatrix groups rows into a matrix. Rows for unknown countries or
// statuses are ignored; a repeated cell keeps the last value.
func NewCreditMatrix(rows []CreditCount) CreditMatrix {
	m := make(CreditMatrix, len(Countries))
	for _, c := range Countries {
		m[c] = make(map[CreditStatus]int64, len(CreditStatuses))
		for _, s := range CreditStatuses {
			m[c][s] = 0
		}
	}

	for _, r := range rows {
		row, ok := m[r.Country]
		if !ok {
			continue
		}
		if _, ok := row[r.Status]; !ok {
			continue
		}
		row[r.Status] = r.Qty
	}
	return m
}

// Total sums every cell of a country.
func (m CreditMatrix) Total(c Country) int64 {
	var sum int64
	for _, v := range m[c] {
		sum += v
	}
	return sum
}

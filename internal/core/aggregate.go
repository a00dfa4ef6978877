package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// CategoryTotal is an amount aggregated under a category name.
	CategoryTotal struct {
		Category string          `json:"category"`
		Total    decimal.Decimal `json:"total"`
	}

	// MonthTotal is an amount aggregated under a calendar month.
	MonthTotal struct {
		Year  int             `json:"year"`
		Month time.Month      `json:"month"`
		Label string          `json:"label"`
		Total decimal.Decimal `json:"total"`
	}

	// GroupTotal is an amount aggregated under an arbitrary grouping key.
	GroupTotal struct {
		Key   string          `json:"key"`
		Total decimal.Decimal `json:"total"`
	}
)

// RecordFilter selects which records take part in an aggregation. A nil
// filter admits everything.
type RecordFilter func(MoneyRecord) bool

// WithStatus returns a filter admitting only records in one of the given
// statuses.
func WithStatus(statuses ...RecordStatus) RecordFilter {
	return func(r MoneyRecord) bool {
		for _, s := range statuses {
			if r.Status == s {
				return true
			}
		}
		return false
	}
}

// GroupByCategory sums record amounts per category, including only records
// passing the filter.
func GroupByCategory(records []MoneyRecord, filter RecordFilter) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, r := range records {
		if filter != nil && !filter(r) {
			continue
		}
		out[r.Category] = out[r.Category].Add(r.Amount)
	}
	return out
}

// GroupByMonth buckets record amounts by calendar month of their date,
// returned in chronological order.
func GroupByMonth(records []MoneyRecord) []MonthTotal {
	type ym struct {
		year  int
		month time.Month
	}
	sums := make(map[ym]decimal.Decimal)
	for _, r := range records {
		k := ym{r.Date.Year(), r.Date.Month()}
		sums[k] = sums[k].Add(r.Amount)
	}

	out := make([]MonthTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, MonthTotal{
			Year:  k.year,
			Month: k.month,
			Label: time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006"),
			Total: total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// LastMonths truncates a chronological month series to its last n entries.
func LastMonths(months []MonthTotal, n int) []MonthTotal {
	if n <= 0 || len(months) == 0 {
		return []MonthTotal{}
	}
	if len(months) > n {
		months = months[len(months)-n:]
	}
	return append([]MonthTotal(nil), months...)
}

// LastNDays buckets record amounts by days-before-today, on the calendar
// of now's location. Index 0 holds the total from n-1 days ago, the last
// index holds today. Records outside the window are dropped.
func LastNDays(records []MoneyRecord, n int, now time.Time) []decimal.Decimal {
	if n <= 0 {
		return []decimal.Decimal{}
	}
	out := make([]decimal.Decimal, n)
	loc := now.Location()
	today := calendarDay(now, loc)
	for _, r := range records {
		ago := today - calendarDay(r.Date, loc)
		if ago < 0 || ago >= n {
			continue
		}
		idx := n - 1 - ago
		out[idx] = out[idx].Add(r.Amount)
	}
	return out
}

// calendarDay numbers a timestamp's calendar date as seen in loc. Counting
// whole dates keeps day arithmetic stable across time zones and DST shifts.
func calendarDay(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// TopN returns the n largest groups by summed amount, descending. Ties keep
// first-encountered order.
func TopN(records []MoneyRecord, keyFn func(MoneyRecord) string, n int) []GroupTotal {
	if n <= 0 || keyFn == nil {
		return []GroupTotal{}
	}
	sums := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	for _, r := range records {
		k := keyFn(r)
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] = sums[k].Add(r.Amount)
	}

	out := make([]GroupTotal, 0, len(order))
	for _, k := range order {
		out = append(out, GroupTotal{Key: k, Total: sums[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// CategoryBreakdown turns per-category totals into percentage shares of the
// overall sum, descending by share. An all-zero input yields zero shares.
func CategoryBreakdown(totals map[string]decimal.Decimal) []CategoryTotal {
	var whole decimal.Decimal
	for _, v := range totals {
		whole = whole.Add(v)
	}
	out := make([]CategoryTotal, 0, len(totals))
	for cat, v := range totals {
		out = append(out, CategoryTotal{Category: cat, Total: PercentOf(v, whole)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

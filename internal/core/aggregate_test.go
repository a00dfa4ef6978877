package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func record(date string, category string, amount string, status RecordStatus) MoneyRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return MoneyRecord{Date: d, Category: category, Amount: dec(amount), Status: status}
}

func TestGroupByCategory(t *testing.T) {
	records := []MoneyRecord{
		record("2025-01-05", "Food", "25.50", StatusPaid),
		record("2025-01-08", "Food", "14.50", StatusPaid),
		record("2025-01-10", "Travel", "120", StatusPaid),
		record("2025-01-12", "Travel", "30", StatusPending),
	}

	got := GroupByCategory(records, nil)
	if !got["Food"].Equal(dec("40")) {
		t.Errorf("Food = %s, want 40", got["Food"])
	}
	if !got["Travel"].Equal(dec("150")) {
		t.Errorf("Travel = %s, want 150", got["Travel"])
	}

	paidOnly := GroupByCategory(records, WithStatus(StatusPaid))
	if !paidOnly["Travel"].Equal(dec("120")) {
		t.Errorf("paid Travel = %s, want 120", paidOnly["Travel"])
	}
}

func TestGroupByCategory_SumsToTotal(t *testing.T) {
	records := []MoneyRecord{
		record("2025-02-01", "A", "10.01", StatusReceived),
		record("2025-02-02", "B", "0.99", StatusReceived),
		record("2025-02-03", "A", "5", StatusReceived),
		record("2025-02-04", "C", "100", StatusPending),
	}
	filter := WithStatus(StatusReceived)

	var wantTotal decimal.Decimal
	for _, r := range records {
		if filter(r) {
			wantTotal = wantTotal.Add(r.Amount)
		}
	}

	var gotTotal decimal.Decimal
	for _, v := range GroupByCategory(records, filter) {
		gotTotal = gotTotal.Add(v)
	}
	if !gotTotal.Equal(wantTotal) {
		t.Errorf("sum of category totals = %s, want %s", gotTotal, wantTotal)
	}
}

func TestGroupByMonth_Chronological(t *testing.T) {
	records := []MoneyRecord{
		record("2025-03-15", "A", "10", StatusPaid),
		record("2024-12-01", "A", "20", StatusPaid),
		record("2025-03-02", "B", "5", StatusPaid),
		record("2025-01-20", "B", "7", StatusPaid),
	}

	got := GroupByMonth(records)
	want := []struct {
		label string
		total string
	}{
		{"Dec 2024", "20"},
		{"Jan 2025", "7"},
		{"Mar 2025", "15"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d months, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Label != w.label || !got[i].Total.Equal(dec(w.total)) {
			t.Errorf("month[%d] = %s %s, want %s %s", i, got[i].Label, got[i].Total, w.label, w.total)
		}
	}

	last := LastMonths(got, 2)
	if len(last) != 2 || last[0].Label != "Jan 2025" {
		t.Errorf("LastMonths(2) = %v", last)
	}
}

func TestLastNDays_Indexing(t *testing.T) {
	now, _ := time.Parse("2006-01-02", "2025-06-10")
	records := []MoneyRecord{
		record("2025-06-10", "A", "1", StatusPaid),  // today -> last index
		record("2025-06-04", "A", "2", StatusPaid),  // 6 days ago -> index 0
		record("2025-06-08", "A", "4", StatusPaid),  // 2 days ago
		record("2025-06-01", "A", "99", StatusPaid), // outside the window
		record("2025-06-11", "A", "99", StatusPaid), // future, dropped
	}

	got := LastNDays(records, 7, now)
	if len(got) != 7 {
		t.Fatalf("len = %d, want 7", len(got))
	}
	if !got[0].Equal(dec("2")) {
		t.Errorf("index 0 = %s, want 2", got[0])
	}
	if !got[4].Equal(dec("4")) {
		t.Errorf("index 4 = %s, want 4", got[4])
	}
	if !got[6].Equal(dec("1")) {
		t.Errorf("index 6 = %s, want 1", got[6])
	}
}

func TestLastNDays_BucketsByCalendarDateNotUTCOffset(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	// Both sit before midnight UTC but on different local calendar days.
	now := time.Date(2025, 6, 10, 0, 30, 0, 0, loc)
	records := []MoneyRecord{
		{Date: time.Date(2025, 6, 9, 23, 30, 0, 0, loc), Category: "A", Amount: dec("5"), Status: StatusPaid},
		{Date: time.Date(2025, 6, 10, 0, 15, 0, 0, loc), Category: "A", Amount: dec("3"), Status: StatusPaid},
	}

	got := LastNDays(records, 2, now)
	if !got[0].Equal(dec("5")) {
		t.Errorf("yesterday = %s, want 5", got[0])
	}
	if !got[1].Equal(dec("3")) {
		t.Errorf("today = %s, want 3", got[1])
	}
}

func TestTopN_StableTies(t *testing.T) {
	records := []MoneyRecord{
		record("2025-01-01", "alpha", "50", StatusPaid),
		record("2025-01-02", "beta", "50", StatusPaid),
		record("2025-01-03", "gamma", "80", StatusPaid),
		record("2025-01-04", "delta", "10", StatusPaid),
	}
	byCategory := func(r MoneyRecord) string { return r.Category }

	got := TopN(records, byCategory, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Key != "gamma" {
		t.Errorf("top = %s, want gamma", got[0].Key)
	}
	// alpha and beta tie at 50; alpha was encountered first.
	if got[1].Key != "alpha" || got[2].Key != "beta" {
		t.Errorf("tie order = %s, %s, want alpha, beta", got[1].Key, got[2].Key)
	}
}

func TestPercentOf_ZeroWhole(t *testing.T) {
	for _, part := range []string{"0", "1", "-5", "123.45"} {
		if got := PercentOf(dec(part), decimal.Zero); !got.IsZero() {
			t.Errorf("PercentOf(%s, 0) = %s, want 0", part, got)
		}
	}
	if got := PercentOf(dec("25"), dec("200")); !got.Equal(dec("12.5")) {
		t.Errorf("PercentOf(25, 200) = %s, want 12.5", got)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	got := CategoryBreakdown(map[string]decimal.Decimal{
		"A": dec("75"),
		"B": dec("25"),
	})
	if len(got) != 2 || got[0].Category != "A" || !got[0].Total.Equal(dec("75")) {
		t.Errorf("breakdown = %v", got)
	}

	// All zero: shares are zero, never NaN.
	zero := CategoryBreakdown(map[string]decimal.Decimal{"A": decimal.Zero})
	if !zero[0].Total.IsZero() {
		t.Errorf("zero breakdown = %s, want 0", zero[0].Total)
	}
}

func TestAggregationDoesNotMutateInput(t *testing.T) {
	records := []MoneyRecord{
		record("2025-01-01", "A", "10", StatusPaid),
		record("2025-01-02", "B", "20", StatusPaid),
	}
	before := append([]MoneyRecord(nil), records...)

	GroupByCategory(records, nil)
	GroupByMonth(records)
	TopN(records, func(r MoneyRecord) string { return r.Category }, 1)

	for i := range records {
		if records[i].Category != before[i].Category || !records[i].Amount.Equal(before[i].Amount) {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

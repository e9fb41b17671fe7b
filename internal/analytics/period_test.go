package analytics

import (
	"errors"
	"testing"
	"time"
)

func TestPeriod_Advance(t *testing.T) {
	tests := []struct {
		name     string
		period   Period
		start    time.Time
		n        int
		expected time.Time
	}{
		{"Day", PeriodDay, date(2024, 2, 28), 1, date(2024, 2, 29)},
		{"Week", PeriodWeek, date(2024, 3, 11), 2, date(2024, 3, 25)},
		{"MonthClampsLeapYear", PeriodMonth, date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"MonthClamps30", PeriodMonth, date(2024, 3, 31), 1, date(2024, 4, 30)},
		{"MonthKeepsDay", PeriodMonth, date(2024, 3, 31), 2, date(2024, 5, 31)},
		{"Quarter", PeriodQuarter, date(2023, 11, 30), 1, date(2024, 2, 29)},
		{"Year", PeriodYear, date(2024, 2, 29), 1, date(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.Advance(tt.start, tt.n); !got.Equal(tt.expected) {
				t.Errorf("Advance() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPeriod_SnapToStart(t *testing.T) {
	ts := time.Date(2024, 5, 15, 13, 45, 0, 0, time.UTC) // Wednesday

	tests := []struct {
		period   Period
		expected time.Time
	}{
		{PeriodDay, date(2024, 5, 15)},
		{PeriodWeek, date(2024, 5, 13)},
		{PeriodMonth, date(2024, 5, 1)},
		{PeriodQuarter, date(2024, 4, 1)},
		{PeriodYear, date(2024, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			if got := tt.period.SnapToStart(ts); !got.Equal(tt.expected) {
				t.Errorf("SnapToStart() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPeriod_Label(t *testing.T) {
	if got := PeriodQuarter.Label(date(2024, 5, 1)); got != "2024-Q2" {
		t.Errorf("expected 2024-Q2, got %s", got)
	}
	if got := PeriodMonth.Label(date(2024, 5, 1)); got != "2024-05" {
		t.Errorf("expected 2024-05, got %s", got)
	}
}

func TestParsePeriod_Unknown(t *testing.T) {
	if _, err := ParsePeriod("fortnight"); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
	if _, err := ParsePeriod(""); err == nil {
		t.Error("empty period must not be inferred")
	}
}

func TestBucketize_FillsGaps(t *testing.T) {
	dates := []time.Time{date(2024, 1, 5), date(2024, 1, 20), {}, date(2024, 3, 3)}
	values := []float64{100, 50, 999, 25}

	series := bucketize(PeriodMonth, dates, values)
	if len(series) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(series))
	}
	expected := []float64{150, 0, 25}
	for i, v := range expected {
		if series[i].Value != v {
			t.Errorf("bucket %d: expected %v, got %v", i, v, series[i].Value)
		}
	}
	if !series[1].Date.Equal(date(2024, 2, 1)) {
		t.Errorf("expected gap bucket at 2024-02-01, got %v", series[1].Date)
	}
}

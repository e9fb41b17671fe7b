package analytics

import (
	"fmt"
	"time"
)

// Period is the calendar granularity of a time series.
type Period string

const (
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown period %q", ErrInvalidConfiguration, s)
}

// Advance moves t forward by n periods. Month based periods clamp to the last
// day of the target month, so Jan 31 + 1 month is Feb 28 (or 29).
func (p Period) Advance(t time.Time, n int) time.Time {
	switch p {
	case PeriodDay:
		return t.AddDate(0, 0, n)
	case PeriodWeek:
		return t.AddDate(0, 0, 7*n)
	case PeriodMonth:
		return addMonths(t, n)
	case PeriodQuarter:
		return addMonths(t, 3*n)
	case PeriodYear:
		return addMonths(t, 12*n)
	}
	return t
}

// SnapToStart normalizes a timestamp to the beginning of its period.
func (p Period) SnapToStart(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	switch p {
	case PeriodYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	case PeriodQuarter:
		q := (int(t.Month()) - 1) / 3
		return time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, t.Location())
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case PeriodWeek:
		// Snap to Monday
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return time.Date(t.Year(), t.Month(), t.Day()-(weekday-1), 0, 0, 0, 0, t.Location())
	default: // day
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// Label renders a bucket start in a compact, period appropriate form.
func (p Period) Label(t time.Time) string {
	switch p {
	case PeriodYear:
		return t.Format("2006")
	case PeriodQuarter:
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case PeriodMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// bucketize sums values into consecutive period buckets between the earliest
// and latest dates, filling gaps with zero. Zero dates are ignored.
func bucketize(p Period, dates []time.Time, values []float64) []SeriesPoint {
	sums := make(map[time.Time]float64)
	var first, last time.Time
	for i, d := range dates {
		if d.IsZero() {
			continue
		}
		b := p.SnapToStart(d)
		sums[b] += values[i]
		if first.IsZero() || b.Before(first) {
			first = b
		}
		if b.After(last) {
			last = b
		}
	}
	if first.IsZero() {
		return nil
	}

	var series []SeriesPoint
	for i := 0; ; i++ {
		b := p.SnapToStart(p.Advance(first, i))
		if b.After(last) {
			break
		}
		series = append(series, SeriesPoint{Date: b, Value: sums[b]})
	}
	return series
}

package analytics

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

func monthlySeries(start time.Time, values ...float64) []SeriesPoint {
	series := make([]SeriesPoint, len(values))
	for i, v := range values {
		series[i] = SeriesPoint{Date: PeriodMonth.Advance(start, i), Value: v}
	}
	return series
}

func TestForecast_InsufficientData(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		series := monthlySeries(date(2024, 1, 31), []float64{10, 20}[:min(n, 2)]...)
		got, err := Forecast(series, ForecastOptions{Horizon: 3, Period: PeriodMonth})
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("n=%d: expected empty non-nil forecast, got %v", n, got)
		}
	}
}

func TestForecast_LinearTrend(t *testing.T) {
	series := monthlySeries(date(2024, 1, 31), 10, 20, 30)

	got, err := Forecast(series, ForecastOptions{Horizon: 3, Period: PeriodMonth})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []ForecastPoint{
		{Date: date(2024, 4, 30), Value: 40, Confidence: 0.9},
		{Date: date(2024, 5, 31), Value: 50, Confidence: 0.7667},
		{Date: date(2024, 6, 30), Value: 60, Confidence: 0.6333},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Forecast() = %+v, want %+v", got, expected)
	}
}

func TestForecast_NonNegativeAndMonotoneConfidence(t *testing.T) {
	series := monthlySeries(date(2024, 1, 1), 100, 50, 10)

	for _, h := range []int{1, 4, 12, 30} {
		got, err := Forecast(series, ForecastOptions{Horizon: h, Period: PeriodWeek, Seasonal: true})
		if err != nil {
			t.Fatalf("h=%d: unexpected error: %v", h, err)
		}
		if len(got) != h {
			t.Fatalf("h=%d: expected %d points, got %d", h, h, len(got))
		}
		for i, p := range got {
			if p.Value < 0 {
				t.Errorf("h=%d: point %d negative: %v", h, i, p.Value)
			}
			if p.Confidence < 0 || p.Confidence > 1 {
				t.Errorf("h=%d: point %d confidence out of range: %v", h, i, p.Confidence)
			}
			if i > 0 && p.Confidence > got[i-1].Confidence {
				t.Errorf("h=%d: confidence increased at %d", h, i)
			}
		}
	}
}

func TestForecast_Seasonal(t *testing.T) {
	series := monthlySeries(date(2024, 1, 1), 10, 20, 30)

	got, err := Forecast(series, ForecastOptions{Horizon: 2, Period: PeriodMonth, Seasonal: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Index 3 uses factor 1.1, index 4 uses 1.0
	if got[0].Value != 44 || got[1].Value != 50 {
		t.Errorf("unexpected seasonal values: %v, %v", got[0].Value, got[1].Value)
	}

	custom := make([]float64, 12)
	for i := range custom {
		custom[i] = 2
	}
	got, err = Forecast(series, ForecastOptions{Horizon: 1, Period: PeriodMonth, Seasonal: true, SeasonalFactors: custom})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Value != 80 {
		t.Errorf("expected custom factor to double the projection, got %v", got[0].Value)
	}

	// Same positions starting in July pick the same factors
	july, err := Forecast(monthlySeries(date(2024, 7, 1), 10, 20, 30), ForecastOptions{Horizon: 2, Period: PeriodMonth, Seasonal: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if july[0].Value != 44 || july[1].Value != 50 {
		t.Errorf("expected position indexed factors, got %v, %v", july[0].Value, july[1].Value)
	}
}

func TestForecast_ConfidenceFloor(t *testing.T) {
	series := monthlySeries(date(2024, 1, 1), 1, 2, 3)
	decay := Decay{Initial: 0.9, Floor: 0.5, Range: 0.8}

	got, err := Forecast(series, ForecastOptions{Horizon: 4, Period: PeriodDay, Decay: &decay})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []float64{0.9, 0.7, 0.5, 0.5}
	for i, c := range expected {
		if got[i].Confidence != c {
			t.Errorf("point %d: expected confidence %v, got %v", i, c, got[i].Confidence)
		}
	}
}

func TestForecast_DropsNonFinite(t *testing.T) {
	series := monthlySeries(date(2024, 1, 1), 10, math.NaN(), 20, math.Inf(1), 30)

	got, err := Forecast(series, ForecastOptions{Horizon: 1, Period: PeriodMonth})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Value != 40 {
		t.Errorf("expected 40 after dropping non-finite points, got %v", got[0].Value)
	}
}

func TestForecast_InvalidConfiguration(t *testing.T) {
	series := monthlySeries(date(2024, 1, 1), 10, 20, 30)
	badDecay := Decay{Initial: 0.4, Floor: 0.6, Range: 0.1}

	tests := []struct {
		name string
		opts ForecastOptions
	}{
		{"ZeroHorizon", ForecastOptions{Horizon: 0, Period: PeriodMonth}},
		{"NegativeHorizon", ForecastOptions{Horizon: -2, Period: PeriodMonth}},
		{"MissingPeriod", ForecastOptions{Horizon: 3}},
		{"ShortTable", ForecastOptions{Horizon: 3, Period: PeriodMonth, SeasonalFactors: make([]float64, 11)}},
		{"ZeroFactor", ForecastOptions{Horizon: 3, Period: PeriodMonth, SeasonalFactors: make([]float64, 12)}},
		{"FloorAboveInitial", ForecastOptions{Horizon: 3, Period: PeriodMonth, Decay: &badDecay}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Forecast(series, tt.opts)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestForecast_Deterministic(t *testing.T) {
	series := monthlySeries(date(2023, 1, 1), 12, 15, 11, 19, 22, 25, 21)
	opts := ForecastOptions{Horizon: 6, Period: PeriodMonth, Seasonal: true}

	a, _ := Forecast(series, opts)
	b, _ := Forecast(series, opts)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical input produced different forecasts")
	}
}

func TestProjectAverageDelta(t *testing.T) {
	cumulative := []SeriesPoint{
		{Date: date(2024, 1, 1), Value: 2},
		{Date: date(2024, 2, 1), Value: 5},
		{Date: date(2024, 3, 1), Value: 6},
	}

	got, err := ProjectAverageDelta(cumulative, 6, ForecastOptions{Horizon: 3, Period: PeriodMonth}, CustomerDecay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []ForecastPoint{
		{Date: date(2024, 4, 1), Value: 8, Confidence: 0.85},
		{Date: date(2024, 5, 1), Value: 10, Confidence: 0.6667},
		{Date: date(2024, 6, 1), Value: 12, Confidence: 0.4833},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ProjectAverageDelta() = %+v, want %+v", got, expected)
	}

	short, err := ProjectAverageDelta(cumulative[:1], 6, ForecastOptions{Horizon: 3, Period: PeriodMonth}, CustomerDecay)
	if err != nil || len(short) != 0 {
		t.Errorf("expected empty projection for a single point, got %v (%v)", short, err)
	}
}

package calc

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func weight(w float64) *float64 { return &w }

func TestKPIRatio(t *testing.T) {
	tests := []struct {
		name    string
		dir     Direction
		current float64
		target  float64
		want    float64
	}{
		{"zero target up", Up, 10, 0, 0},
		{"negative target down", Down, 10, -5, 0},
		{"zero target down with zero current", Down, 0, 0, 0},
		{"up exactly on target", Up, 10, 10, 1.0},
		{"up half way", Up, 5, 10, 0.5},
		{"up double clamps", Up, 20, 10, MaxRatio},
		{"up no observation", Up, 0, 10, 0},
		{"down on target", Down, 100, 100, 1.0},
		{"down over target", Down, 8000, 5000, 0.625},
		{"down zero current clamps", Down, 0, 100, MaxRatio},
		{"unknown direction scored as down", Direction("sideways"), 200, 100, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(KPIRatio(tt.dir, tt.current, tt.target), tt.want)
		})
	}
}

func TestKPIRatioNeverExceedsCap(t *testing.T) {
	is := is.New(t)
	for _, current := range []float64{0, 0.00001, 1, 1e9} {
		is.True(KPIRatio(Up, current, 1) <= MaxRatio)
		is.True(KPIRatio(Down, current, 1) <= MaxRatio)
	}
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name string
		kpis []WeightedRatio
		want int
	}{
		{"empty", nil, 0},
		{"unweighted mean", []WeightedRatio{{Weight: weight(1), Ratio: 0.5}, {Weight: weight(1), Ratio: 1.0}}, 75},
		{"missing weight counts as one", []WeightedRatio{{Ratio: 0.5}, {Ratio: 1.0}}, 75},
		{"zero total weight", []WeightedRatio{{Weight: weight(0), Ratio: 0.9}}, 0},
		{"weighted", []WeightedRatio{{Weight: weight(3), Ratio: 1.0}, {Weight: weight(1), Ratio: 0}}, 75},
		{"rounds half up", []WeightedRatio{{Ratio: 0.125}}, 13},
		{"rounds down below half", []WeightedRatio{{Ratio: 0.125}, {Ratio: 0.0}}, 6},
		{"overachievement", []WeightedRatio{{Ratio: MaxRatio}}, 120},
		{"mixed zero weight ignored", []WeightedRatio{{Weight: weight(0), Ratio: 1.2}, {Ratio: 0.4}}, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(GoalProgress(tt.kpis), tt.want)
		})
	}
}

func TestIsOverdueAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	t.Run("never updated", func(t *testing.T) {
		is := is.New(t)
		for _, f := range []Frequency{Daily, Weekly, Monthly} {
			is.True(IsOverdueAt(nil, f, now))
		}
	})

	tests := []struct {
		name string
		last *time.Time
		freq Frequency
		want bool
	}{
		{"daily 25h", ago(25 * time.Hour), Daily, true},
		{"daily 23h", ago(23 * time.Hour), Daily, false},
		{"daily exactly one day", ago(24 * time.Hour), Daily, false},
		{"daily one ms past", ago(24*time.Hour + time.Millisecond), Daily, true},
		{"weekly 6 days", ago(6 * day), Weekly, false},
		{"weekly 8 days", ago(8 * day), Weekly, true},
		{"monthly 30 days", ago(30 * day), Monthly, false},
		{"monthly 31 days", ago(31 * day), Monthly, true},
		{"unknown frequency", ago(365 * day), Frequency("yearly"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(IsOverdueAt(tt.last, tt.freq, now), tt.want)
		})
	}
}

func TestDaysRemainingAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := func(d time.Duration) *time.Time {
		ts := now.Add(d)
		return &ts
	}

	t.Run("no due date", func(t *testing.T) {
		is := is.New(t)
		is.True(DaysRemainingAt(nil, now) == nil)
	})

	tests := []struct {
		name string
		due  *time.Time
		want int
	}{
		{"48h", in(48 * time.Hour), 2},
		{"47h", in(47 * time.Hour), 2},
		{"49h", in(49 * time.Hour), 3},
		{"due now", in(0), 0},
		{"half a day late", in(-12 * time.Hour), 0},
		{"three days late", in(-72 * time.Hour), -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got := DaysRemainingAt(tt.due, now)
			is.True(got != nil)
			is.Equal(*got, tt.want)
		})
	}
}

func TestFromMillis(t *testing.T) {
	is := is.New(t)
	is.True(FromMillis(nil) == nil)
	zero := int64(0)
	is.True(FromMillis(&zero) == nil)

	ms := int64(1_700_000_000_123)
	got := FromMillis(&ms)
	is.True(got != nil)
	is.Equal(ToMillis(*got), ms)
}

func TestIdempotent(t *testing.T) {
	is := is.New(t)
	now := time.Now()
	last := now.Add(-30 * time.Hour)
	due := now.Add(50 * time.Hour)
	kpis := []WeightedRatio{{Weight: weight(2), Ratio: 0.3}, {Ratio: 1.1}}

	is.Equal(KPIRatio(Down, 3, 7), KPIRatio(Down, 3, 7))
	is.Equal(GoalProgress(kpis), GoalProgress(kpis))
	is.Equal(IsOverdueAt(&last, Daily, now), IsOverdueAt(&last, Daily, now))
	is.Equal(*DaysRemainingAt(&due, now), *DaysRemainingAt(&due, now))
}

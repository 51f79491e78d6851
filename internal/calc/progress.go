// Package calc scores KPIs and goals. Every function is pure: callers pass
// the observations (and the current time where it matters) and get a value
// back, nothing is read from or written to storage.
package calc

import (
	"math"
	"time"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func (d Direction) Valid() bool {
	return d == Up || d == Down
}

type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	return f == Daily || f == Weekly || f == Monthly
}

const (
	// MaxRatio caps overachievement at 120%.
	MaxRatio = 1.2
	// downEpsilon keeps a "down" KPI observed at 0 from dividing by zero.
	downEpsilon = 0.0001

	day = 24 * time.Hour
)

// KPIRatio returns how far current is towards target, in [0, MaxRatio].
// A non-positive target scores 0. Any direction other than Up is scored as Down.
func KPIRatio(dir Direction, current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	var r float64
	if dir == Up {
		r = current / target
	} else {
		r = target / math.Max(current, downEpsilon)
	}
	return math.Min(r, MaxRatio)
}

// WeightedRatio is one KPI's contribution to its goal. A nil Weight counts as 1.
type WeightedRatio struct {
	Weight *float64
	Ratio  float64
}

func (w WeightedRatio) weight() float64 {
	if w.Weight == nil {
		return 1
	}
	return *w.Weight
}

// GoalProgress is the weighted mean of the ratios as a rounded percentage.
// When the weights sum to 0 the divisor becomes 1, which yields 0.
func GoalProgress(kpis []WeightedRatio) int {
	if len(kpis) == 0 {
		return 0
	}
	var total, score float64
	for _, k := range kpis {
		total += k.weight()
		score += k.Ratio * k.weight()
	}
	if total == 0 {
		total = 1
	}
	return int(math.Floor(score/total*100 + 0.5))
}

// Threshold is the longest gap between check-ins before a KPI is overdue.
// Days are fixed 24h spans. Unknown frequencies have no threshold.
func Threshold(f Frequency) (time.Duration, bool) {
	switch f {
	case Daily:
		return day, true
	case Weekly:
		return 7 * day, true
	case Monthly:
		return 30 * day, true
	}
	return 0, false
}

// IsOverdueAt reports whether more than the frequency's threshold has passed
// since lastUpdate. A KPI that was never updated is always overdue.
func IsOverdueAt(lastUpdate *time.Time, f Frequency, now time.Time) bool {
	if lastUpdate == nil {
		return true
	}
	threshold, ok := Threshold(f)
	if !ok {
		return false
	}
	return now.Sub(*lastUpdate) > threshold
}

func IsOverdue(lastUpdate *time.Time, f Frequency) bool {
	return IsOverdueAt(lastUpdate, f, time.Now())
}

// DaysRemainingAt counts whole days (rounded up) until dueDate. The result is
// negative once the due date has passed; nil means there is no due date.
func DaysRemainingAt(dueDate *time.Time, now time.Time) *int {
	if dueDate == nil {
		return nil
	}
	ms := dueDate.Sub(now).Milliseconds()
	days := int(math.Ceil(float64(ms) / float64(day.Milliseconds())))
	return &days
}

func DaysRemaining(dueDate *time.Time) *int {
	return DaysRemainingAt(dueDate, time.Now())
}

// FromMillis converts a stored epoch-millisecond column. Absent and zero
// values both mean "no timestamp".
func FromMillis(ms *int64) *time.Time {
	if ms == nil || *ms == 0 {
		return nil
	}
	t := time.UnixMilli(*ms)
	return &t
}

func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

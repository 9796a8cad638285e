package patterns

import (
	"fmt"
	"time"

	"github.com/linguakit/linguakit/internal/store"
)

// Direction is the coarse movement of a pattern's error rate.
type Direction string

const (
	Improving Direction = "improving"
	Stable    Direction = "stable"
	Worsening Direction = "worsening"
)

const trendWeeks = 5

// WeeklyTrend computes the pattern's share of all errors for each of the
// last five Monday-aligned weeks, current week last. A point is nil when
// the week had no errors at all, which is different from a zero share.
func WeeklyTrend(clusterLogs, allLogs []store.ErrorLog, now time.Time) ([]*float64, []string) {
	series := make([]*float64, trendWeeks)
	labels := make([]string, trendWeeks)

	currentWeek := weekStart(now)
	for i := 0; i < trendWeeks; i++ {
		weeksAgo := trendWeeks - 1 - i
		from := currentWeek.AddDate(0, 0, -7*weeksAgo)
		to := from.AddDate(0, 0, 7)

		labels[i] = weekLabel(weeksAgo)

		total := countBetween(allLogs, from, to)
		if total == 0 {
			continue
		}
		ratio := float64(countBetween(clusterLogs, from, to)) / float64(total)
		series[i] = &ratio
	}

	return series, labels
}

// LocalTrend compares the trailing 7 days against the 7 days before.
// With no baseline errors in the prior window the direction is stable.
// Cutoffs: ratio below 0.7 is improving, above 1.3 is worsening.
func LocalTrend(clusterLogs []store.ErrorLog, now time.Time) Direction {
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	current := countBetween(clusterLogs, weekAgo, now)
	previous := countBetween(clusterLogs, twoWeeksAgo, weekAgo)

	if previous == 0 {
		return Stable
	}
	ratio := float64(current) / float64(previous)
	switch {
	case ratio < 0.7:
		return Improving
	case ratio > 1.3:
		return Worsening
	default:
		return Stable
	}
}

// weekStart returns midnight of the Monday of t's week.
func weekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	back := (int(t.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -back)
}

func weekLabel(weeksAgo int) string {
	switch weeksAgo {
	case 0:
		return "This week"
	case 1:
		return "Last week"
	default:
		return fmt.Sprintf("%d weeks ago", weeksAgo)
	}
}

// countBetween counts logs with from <= CreatedAt < to.
func countBetween(logs []store.ErrorLog, from, to time.Time) int {
	n := 0
	for _, l := range logs {
		if !l.CreatedAt.Before(from) && l.CreatedAt.Before(to) {
			n++
		}
	}
	return n
}

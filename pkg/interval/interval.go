// Package interval implements half-open [start, end) time intervals within a
// single day, at minute resolution. It carries no state and no persistence
// concerns; callers feed it pre-sorted occupied intervals and a day window.
package interval

import (
	"fmt"
	"sort"
)

// Minutes counts minutes since midnight (wall clock, day-local).
type Minutes int

// ParseClock parses an "HH:MM" wall-clock string into Minutes.
func ParseClock(s string) (Minutes, error) {
	var h, m int
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM", s)
	}
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q: out of range", s)
	}
	return Minutes(h*60 + m), nil
}

// Clock formats Minutes back into "HH:MM".
func (m Minutes) Clock() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Interval is a half-open [Start, End) slice of a day.
type Interval struct {
	Start Minutes
	End   Minutes
}

// Overlaps reports whether a and b share at least one instant. Touching
// endpoints (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// SortByStart orders intervals ascending by start time in place.
func SortByStart(intervals []Interval) {
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start < intervals[j].Start
	})
}

// Free sweeps occupied (pre-sorted by start ascending) against window and
// returns the gaps inside window: before the first occupied interval, between
// consecutive ones, and after the last. An occupied interval fully absorbed by
// a previous one never moves the cursor backward; intervals outside the window
// are clipped implicitly because the cursor only advances forward and the
// trailing gap is capped at window.End.
func Free(window Interval, occupied []Interval) []Interval {
	free := []Interval{}
	cursor := window.Start
	for _, occ := range occupied {
		if occ.Start > cursor && cursor < window.End {
			end := occ.Start
			if end > window.End {
				end = window.End
			}
			free = append(free, Interval{Start: cursor, End: end})
		}
		if occ.End > cursor {
			cursor = occ.End
		}
	}
	if cursor < window.End {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}

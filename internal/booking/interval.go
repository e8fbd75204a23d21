package booking

// Interval is a half-open [Start, End) window in minutes since
// midnight. End < Start means the window crosses midnight and covers
// [Start, 1440) plus [0, End). End == Start is an empty window.
type Interval struct {
	Start int
	End   int
}

// crossesMidnight reports whether the window wraps past 24:00.
func (iv Interval) crossesMidnight() bool {
	return iv.End < iv.Start
}

// empty reports whether the window covers no minutes at all.
func (iv Interval) empty() bool {
	return iv.End == iv.Start
}

// overlapSameDay is the standard half-open overlap test for two
// windows that both stay within one day. Touching windows
// (a.End == b.Start) do not overlap.
func overlapSameDay(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Overlaps reports whether two reservation windows share at least one
// minute. Midnight-crossing policy: a window that wraps is split into
// its evening half [Start, 1440) and its morning half [0, End) and
// the other window is tested against each half. When both windows
// wrap they are declared overlapping unconditionally; both occupy the
// stroke of midnight under the split rule anyway, so the shortcut is
// exact, not just conservative.
func Overlaps(a, b Interval) bool {
	if a.empty() || b.empty() {
		return false
	}
	switch {
	case a.crossesMidnight() && b.crossesMidnight():
		return true
	case a.crossesMidnight():
		return overlapSameDay(Interval{a.Start, minutesPerDay}, b) ||
			overlapSameDay(Interval{0, a.End}, b)
	case b.crossesMidnight():
		return Overlaps(b, a)
	default:
		return overlapSameDay(a, b)
	}
}

// OverlapsClock is Overlaps over raw HH:MM strings. It returns an
// error when any of the four times fails to parse.
func OverlapsClock(aStart, aEnd, bStart, bEnd string) (bool, error) {
	a, err := ParseInterval(aStart, aEnd)
	if err != nil {
		return false, err
	}
	b, err := ParseInterval(bStart, bEnd)
	if err != nil {
		return false, err
	}
	return Overlaps(a, b), nil
}

// ParseInterval builds an Interval from two HH:MM strings.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

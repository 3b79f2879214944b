package quiz

import "time"

// AvailabilityState classifies a quiz against its availability window.
type AvailabilityState string

const (
	Available       AvailabilityState = "available"
	NotYetAvailable AvailabilityState = "not_yet_available"
	Closed          AvailabilityState = "closed"
)

// Availability is the result of evaluating the window at some instant.
// AvailableAt is set only for NotYetAvailable, for display.
type Availability struct {
	State       AvailabilityState `json:"state"`
	AvailableAt *time.Time        `json:"available_at,omitempty"`
}

// AvailabilityAt evaluates the quiz's [available, until] window at now.
// Missing dates are unbounded; date strings that fail to parse are treated as
// missing. The until bound wins over the available bound, so every
// combination of present/absent dates maps to exactly one state.
func (z Quiz) AvailabilityAt(now time.Time) Availability {
	until, hasUntil := parseDate(z.UntilDate)
	if hasUntil && now.After(until) {
		return Availability{State: Closed}
	}
	avail, hasAvail := parseDate(z.AvailableDate)
	if hasAvail && now.Before(avail) {
		return Availability{State: NotYetAvailable, AvailableAt: &avail}
	}
	return Availability{State: Available}
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

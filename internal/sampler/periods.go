package sampler

import "fmt"

// Mode selects which age band of the mailbox a sampling run covers.
type Mode string

const (
	// ModeRecent samples the last month, 6-7 months ago and 12-13 months ago.
	ModeRecent Mode = "recent"
	// ModeOld samples 5-10 year old mail.
	ModeOld Mode = "old"
	// ModeVeryOld samples mail older than 10 years.
	ModeVeryOld Mode = "very-old"
)

// Modes lists all supported sampling modes.
var Modes = []Mode{ModeRecent, ModeOld, ModeVeryOld}

// ParseMode validates a mode string from a flag or tool argument.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRecent, ModeOld, ModeVeryOld:
		return Mode(s), nil
	case "":
		return ModeRecent, nil
	}
	return "", fmt.Errorf("invalid age range %q (expected recent, old or very-old)", s)
}

// Period is one named relative-time window of a sampling run. The age filter
// is a literal Gmail query fragment.
type Period struct {
	Name string
	Age  string
}

// PeriodsFor returns the three fixed periods of a mode. Periods are mutually
// exclusive by construction, but query results may still overlap, which is
// why the pool deduplicates.
func PeriodsFor(mode Mode) []Period {
	switch mode {
	case ModeVeryOld:
		return []Period{
			{Name: "ancient", Age: "older_than:15y"},
			{Name: "very-old", Age: "older_than:12y newer_than:15y"},
			{Name: "old", Age: "older_than:10y newer_than:12y"},
		}
	case ModeOld:
		return []Period{
			{Name: "older", Age: "older_than:8y newer_than:10y"},
			{Name: "old", Age: "older_than:6y newer_than:8y"},
			{Name: "mid-old", Age: "older_than:5y newer_than:6y"},
		}
	default: // ModeRecent
		return []Period{
			{Name: "newer", Age: "newer_than:1m"},
			{Name: "mid", Age: "older_than:6m newer_than:7m"},
			{Name: "old", Age: "older_than:1y newer_than:13m"},
		}
	}
}

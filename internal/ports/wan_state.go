package ports

import "time"

type WANState int

const (
	WANPrimary WANState = iota
	WANSecondary
)

func (s WANState) String() string {
	switch s {
	case WANPrimary:
		return "primary"
	case WANSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// CheckResult is the outcome of a single completed check cycle.
type CheckResult struct {
	IP      string
	ISPName string
	State   WANState
}

type WANStateUpdate struct {
	Result    CheckResult
	Previous  WANState
	Changed   bool
	CheckedAt time.Time
}

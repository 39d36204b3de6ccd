package calendar

// State is the delegation state of a Manager.
type State int

const (
	StateUnconfigured State = iota
	StateConfiguredNoToken
	StateDelegated
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfiguredNoToken:
		return "configured_no_token"
	case StateDelegated:
		return "delegated"
	default:
		return "unknown"
	}
}

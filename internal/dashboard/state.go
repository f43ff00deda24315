package dashboard

// State is the lifecycle state of the dashboard.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

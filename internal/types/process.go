package types

// ProcessStatus is the scheduler state of a process.
type ProcessStatus int

const (
	StatusUnknown ProcessStatus = iota
	StatusRunning
	StatusSleeping
	StatusIdle
	StatusStopped
	StatusZombie
	StatusWaiting
	StatusLocked
	StatusBlocked
)

func (s ProcessStatus) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusSleeping:
		return "Sleeping"
	case StatusIdle:
		return "Idle"
	case StatusStopped:
		return "Stopped"
	case StatusZombie:
		return "Zombie"
	case StatusWaiting:
		return "Waiting"
	case StatusLocked:
		return "Locked"
	case StatusBlocked:
		return "Blocked"
	default:
		return "Unknown"
	}
}

// ProcessUsage is a point-in-time view of a process's resource usage.
type ProcessUsage struct {
	PID        int32         `json:"pid"`
	Name       string        `json:"name"`
	Status     ProcessStatus `json:"status"`
	CPUPercent float64       `json:"cpu_percent"`
	MemoryKiB  uint64        `json:"memory_kib"` // resident set size
}

// MarshalText encodes the status by name.
func (s ProcessStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

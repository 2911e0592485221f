package scheduler

import "github.com/dshills/traitforge/pkg/model"

// EventKind classifies the events emitted on a run's stream.
type EventKind int

const (
	EventProgress EventKind = iota
	EventItemReady
	EventWarning
	EventError
	EventComplete
	EventCancelled
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "Progress"
	case EventItemReady:
		return "ItemReady"
	case EventWarning:
		return "Warning"
	case EventError:
		return "Error"
	case EventComplete:
		return "Complete"
	case EventCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Progress reports monotonically increasing completion counts.
type Progress struct {
	Completed       uint32
	Total           uint32
	MemoryUsedBytes uint64
}

// Summary is the terminal payload of a successful run.
type Summary struct {
	Completed uint32
	Total     uint32
}

// Cancelled is the terminal payload of a cancelled or timed-out run.
type Cancelled struct {
	Completed uint32
	Reason    string
}

// Event is one entry on a run's stream. Exactly one of the payload fields
// is populated, selected by Kind.
type Event struct {
	Kind EventKind

	Progress  *Progress
	Item      *model.GeneratedItem
	Warning   string
	Err       *model.EngineError
	Complete  *Summary
	Cancelled *Cancelled
}

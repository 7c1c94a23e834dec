package dispatch

import "fmt"

/* Status represents the state of a delivery log entry
 * Lifecycle: Pending -> Success/Failed, or Skipped (terminal from creation)
 * An entry is written once in a non-terminal state and updated exactly once
 */
type Status int

const (
	Pending Status = iota + 1
	Success
	Failed
	Skipped
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// NewStatus creates a Status from a string
func NewStatus(str string) Status {
	switch str {
	case "pending":
		return Pending
	case "success":
		return Success
	case "failed":
		return Failed
	case "skipped":
		return Skipped
	default:
		return Pending
	}
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	if s < Pending || s > Skipped {
		return fmt.Errorf("invalid status: %d", s)
	}
	return nil
}

// IsFinal returns true if the status is a terminal state
func (s Status) IsFinal() bool {
	return s == Success || s == Failed || s == Skipped
}

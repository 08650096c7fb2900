package warden

import "fmt"

// ErrorKind identifies the category of a failure raised by the core. Hosts
// can compare against the package-level sentinels below with errors.Is, or
// switch on Error.Kind after an errors.As unwrap.
type ErrorKind uint8

const (
	// AlreadyPresent is raised when a Single kind is added to an entity
	// that already holds an instance of it.
	AlreadyPresent ErrorKind = iota + 1
	// Missing is raised by Get/Update on an absent Single kind.
	Missing
	// IllegalFilter is raised when a filter configuration names more than
	// one Multiple kind in its include set, or targets a Singleton kind.
	IllegalFilter
	// MutationDuringIteration is raised when the driver pool of an active
	// Filter iteration is mutated mid-iteration.
	MutationDuringIteration
	// MissingCleanup is raised when a single-frame kind with check=true is
	// added while no bulk-remove system clears it.
	MissingCleanup
	// MultipleNotRemovable is raised by an attempt to remove a single
	// instance of a Multiple kind; only full removal of all instances is
	// supported.
	MultipleNotRemovable
	// EventTypeOverflow is raised by Subscribe when the EventBus has
	// already allocated MaxEventTypes distinct event types.
	EventTypeOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case AlreadyPresent:
		return "AlreadyPresent"
	case Missing:
		return "Missing"
	case IllegalFilter:
		return "IllegalFilter"
	case MutationDuringIteration:
		return "MutationDuringIteration"
	case MissingCleanup:
		return "MissingCleanup"
	case MultipleNotRemovable:
		return "MultipleNotRemovable"
	case EventTypeOverflow:
		return "EventTypeOverflow"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by the core. It carries a Kind
// for programmatic handling and a human-readable message for logs.
type Error struct {
	Kind ErrorKind
	msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ecs: %s: %s", e.Kind, e.msg)
}

// Is makes Error comparable against the package-level sentinels via
// errors.Is, matching on Kind rather than identity.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newError(k ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: k, msg: fmt.Sprintf(format, args...)}
}

// Sentinel errors for use with errors.Is. Each carries only a Kind; the
// message on the returned error from an actual operation is more specific.
var (
	ErrAlreadyPresent          = &Error{Kind: AlreadyPresent, msg: "already present"}
	ErrMissing                 = &Error{Kind: Missing, msg: "missing"}
	ErrIllegalFilter           = &Error{Kind: IllegalFilter, msg: "illegal filter"}
	ErrMutationDuringIteration = &Error{Kind: MutationDuringIteration, msg: "mutation during iteration"}
	ErrMissingCleanup          = &Error{Kind: MissingCleanup, msg: "missing cleanup"}
	ErrMultipleNotRemovable    = &Error{Kind: MultipleNotRemovable, msg: "multiple not removable"}
	ErrEventTypeOverflow       = &Error{Kind: EventTypeOverflow, msg: "event type overflow"}
)

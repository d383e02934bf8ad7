package future

import (
	"errors"
	"fmt"
)

// Namespace prefixes every sentinel error message in this package, mirroring
// the teacher's workers.Namespace convention.
const Namespace = "future"

var (
	// ErrCancelRequested marks cooperative cancellation. It is never delivered
	// to a then/tap/stap/finally callback; it is carried purely as state.
	ErrCancelRequested = errors.New(Namespace + ": cancellation requested")

	// ErrBrokenChain is returned by ResultAt when the future finished without
	// an exception and without a result at the requested index, and by
	// ResultAt on a zero-value Future.
	ErrBrokenChain = errors.New(Namespace + ": shared state destroyed with no result and no exception")

	// ErrAlreadySatisfied names the condition of a producer setting a value
	// or exception on a state already in terminal form. The producer methods
	// return nothing: such a call is ignored, a warning is logged, and the
	// future_already_satisfied_total counter is incremented.
	ErrAlreadySatisfied = errors.New(Namespace + ": state already in terminal form")

	// ErrInvalidIndex names the condition of ReportResult being asked to fill
	// a hole (i must equal the current result count). ReportResult returns
	// nothing: such a call is ignored and a warning is logged.
	ErrInvalidIndex = errors.New(Namespace + ": result index is not an append position")
)

// CancelError is an error a callable run by Run or RunDedicated may return
// to signal cooperative cancellation: the Future is then canceled without a
// stored exception. It matches ErrCancelRequested under errors.Is.
type CancelError struct {
	ID   uint64
	Name string
}

func (e *CancelError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: future %q (id=%d) was canceled", Namespace, e.Name, e.ID)
	}
	return fmt.Sprintf("%s: future id=%d was canceled", Namespace, e.ID)
}

func (e *CancelError) Is(target error) bool { return target == ErrCancelRequested }

// StateError tags an arbitrary stored exception with the identity of the
// shared state it escaped from, mirroring the teacher's TaskMetaError /
// taskTaggedError pattern (error_tagging.go) so callers can correlate a
// failure with the future that produced it via errors.As.
type StateError struct {
	ID   uint64
	Name string
	Err  error
}

func (e *StateError) Error() string { return e.Err.Error() }

func (e *StateError) Unwrap() error { return e.Err }

func (e *StateError) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			_, _ = fmt.Fprintf(f, "future(id=%d,name=%q): %+v", e.ID, e.Name, e.Err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(f, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error())
	}
}

// StateMetaError exposes the correlation metadata carried by StateError.
type StateMetaError interface {
	error
	Unwrap() error
	StateID() uint64
	StateName() string
}

func (e *StateError) StateID() uint64   { return e.ID }
func (e *StateError) StateName() string { return e.Name }

// ExtractStateID returns the id of the shared state that produced err, if any.
func ExtractStateID(err error) (uint64, bool) {
	var sme StateMetaError
	if errors.As(err, &sme) {
		return sme.StateID(), true
	}
	return 0, false
}

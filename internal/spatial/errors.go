package spatial

import "fmt"

// ErrorKind distinguishes the four failure modes the core recognizes (spec §7).
type ErrorKind string

const (
	// InvalidCoordinate: a non-positive row/col was supplied in input cells.
	InvalidCoordinate ErrorKind = "INVALID_COORDINATE"
	// NestedBuilderFailure: a builder panicked or errored while building a
	// nested construct inside a tree domain. Caught locally; the outer
	// parse continues with domainRegion.parsedSuccessfully = false.
	NestedBuilderFailure ErrorKind = "NESTED_BUILDER_FAILURE"
	// EmptyCluster: a cell cluster has zero filled cells; skipped silently.
	EmptyCluster ErrorKind = "EMPTY_CLUSTER"
	// Cancelled: the cooperative cancellation token tripped mid-parse.
	Cancelled ErrorKind = "CANCELLED"
)

// ParseError is the only error type the core returns; it carries a Kind
// and a Message and no retry hint. Re-invoking Parse with the same inputs
// fails again with InvalidCoordinate; Cancelled reflects only the caller's
// context; NestedBuilderFailure and EmptyCluster are absorbed inside Parse
// and never returned.
type ParseError struct {
	Kind    ErrorKind
	Message string
}

func (e *ParseError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsCancelled reports whether err is a Cancelled ParseError.
func IsCancelled(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.Kind == Cancelled
}

package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrGraphFrozen is returned by mutation methods after Freeze.
	ErrGraphFrozen = errors.New("graph is frozen")

	// ErrDataIntegrity marks a record that reached the builder with an
	// invariant violation it cannot coerce, such as negative counts.
	ErrDataIntegrity = errors.New("data integrity violation")
)

// NodeNotFoundError reports an edge operation referencing a missing node.
type NodeNotFoundError struct {
	ID string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node not found: %s", e.ID)
}

// IntegrityError carries the offending record index and reason for a
// per-record integrity failure. It wraps ErrDataIntegrity so callers can
// match with errors.Is.
type IntegrityError struct {
	Record int
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("record %d: %s: %s", e.Record, ErrDataIntegrity, e.Reason)
}

func (e *IntegrityError) Unwrap() error { return ErrDataIntegrity }

package layout

import (
	"errors"
	"fmt"
)

var (
	ErrNotInitialized = errors.New("layout engine is not initialized")
	ErrUnknownNode    = errors.New("unknown node")
)

// NotInitializedError is returned when the engine is used before Initialize.
type NotInitializedError struct {
	Op string
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, ErrNotInitialized)
}

func (e *NotInitializedError) Is(target error) bool {
	return target == ErrNotInitialized
}

// UnknownNodeError is returned when pin or unpin references a node that is
// not part of the bound graph.
type UnknownNodeError struct {
	Op     string
	NodeID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("%s: unknown node %q", e.Op, e.NodeID)
}

func (e *UnknownNodeError) Is(target error) bool {
	return target == ErrUnknownNode
}

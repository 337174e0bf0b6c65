package graph

import (
	"fmt"
	"strings"
)

// IllegalVertexOperationError is returned by DAGBuilder.Connect when either
// endpoint has not been added to the builder yet.
type IllegalVertexOperationError struct {
	SourceID *string
	DestID   *string
}

func idOrNull(id *string) string {
	if id == nil {
		return "null"
	}
	return *id
}

func (e *IllegalVertexOperationError) Error() string {
	return fmt.Sprintf("illegal vertex operation: cannot connect %s -> %s: endpoint not present in builder",
		idOrNull(e.SourceID), idOrNull(e.DestID))
}

// CycleDetectedError is returned by DAGBuilder.Build / BuildWithoutSourceSinkCheck
// when the accumulated vertices and edges contain a directed cycle. Cycle,
// when non-empty, names a path from the first revisited vertex back to
// itself, in DFS visitation order.
type CycleDetectedError struct {
	Cycle []string
}

func (e *CycleDetectedError) Error() string {
	if len(e.Cycle) == 0 {
		return "DAG contains a cycle"
	}
	return fmt.Sprintf("DAG contains a cycle: %s", strings.Join(e.Cycle, " -> "))
}

// SourceViolationError is returned by DAGBuilder.Build when one or more IR
// vertices with no incoming edges are not Source vertices.
type SourceViolationError struct {
	OffendingIDs []string
}

func (e *SourceViolationError) Error() string {
	return fmt.Sprintf("source violation: vertices with no incoming edges must be Source vertices: %s",
		strings.Join(e.OffendingIDs, ", "))
}

// SinkViolationError is returned by DAGBuilder.Build when one or more IR
// vertices with no outgoing edges are neither a Loop nor an Operator
// wrapping a DoTransform.
type SinkViolationError struct {
	OffendingIDs []string
}

func (e *SinkViolationError) Error() string {
	return fmt.Sprintf("sink violation: vertices with no outgoing edges must be a Loop or a DoTransform Operator: %s",
		strings.Join(e.OffendingIDs, ", "))
}

// ParallelismMismatchError is returned by DAGBuilder.Build when a OneToOne
// edge's endpoints disagree on their Parallelism attribute.
type ParallelismMismatchError struct {
	EdgeID string
}

func (e *ParallelismMismatchError) Error() string {
	return fmt.Sprintf("parallelism mismatch on edge %q: OneToOne endpoints must share the same Parallelism", e.EdgeID)
}

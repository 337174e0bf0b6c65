// Package pass implements the compile-time annotating pass framework: a
// pass is a pure function over DAGs that may mutate only its own declared
// write-attribute on existing vertices or edges, and must not alter graph
// structure.
package pass

import "github.com/skystar-p/dagflow/graph"

// Pass is a compile-time pass over a graph.DAG. Implementations declare the
// attribute keys they read (ReadSet) and the single attribute key they are
// permitted to write (WriteAttribute); Apply must not add or remove
// vertices or edges, and must touch only WriteAttribute.
type Pass interface {
	// ReadSet names the attribute keys this pass depends on having already
	// been computed by an earlier pass (or the frontend).
	ReadSet() []graph.AttributeKey
	// WriteAttribute names the single attribute key this pass is
	// permitted to mutate.
	WriteAttribute() graph.AttributeKey
	// Apply runs the pass over dag, mutating only WriteAttribute on
	// existing vertices/edges, and returns the same dag.
	Apply(dag *graph.DAG) (*graph.DAG, error)
}

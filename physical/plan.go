// Package physical models the physical-plan layer the runtime skew pass
// rewrites: a PhysicalPlan wraps a graph.DAG whose vertices are tagged
// graph.KindStage and whose edges carry the mutable TaskIndexToKeyRange
// attribute the executor reads to learn which keys each downstream task
// owns.
package physical

import "github.com/skystar-p/dagflow/graph"

// PhysicalPlan is a compiled, executable dataflow plan. It shares its
// identity (ID) with whatever user-level IR it was derived from by the
// (out of scope) physical planner; this module never constructs that
// mapping, only exposes the plan produced by it.
type PhysicalPlan struct {
	ID  string
	DAG *graph.DAG
}

// NewPhysicalPlan wraps dag (whose vertices must all be graph.KindStage)
// under the given plan id.
func NewPhysicalPlan(id string, dag *graph.DAG) *PhysicalPlan {
	return &PhysicalPlan{ID: id, DAG: dag}
}

// Stages returns every Stage vertex in the plan, in insertion order.
func (p *PhysicalPlan) Stages() []*graph.Vertex {
	return p.DAG.Vertices()
}

// StageEdges returns every edge incident on any stage in the plan. Order is
// insertion order per source stage, not globally deduplicated across
// stages (an edge between two stages appears once, keyed off its source
// stage's outgoing set).
func (p *PhysicalPlan) StageEdges() []*graph.Edge {
	var out []*graph.Edge
	for _, v := range p.DAG.Vertices() {
		out = append(out, p.DAG.OutgoingEdgesOf(v)...)
	}
	return out
}

// StageEdgeByID returns the stage edge with the given id, if present.
func (p *PhysicalPlan) StageEdgeByID(id string) (*graph.Edge, bool) {
	for _, e := range p.StageEdges() {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// WithDAG returns a new PhysicalPlan that shares p's id but wraps a
// different (structurally identical) DAG. The runtime skew pass uses this
// to return a fresh plan value after rewriting stage-edge attributes, per
// SPEC_FULL.md §4.4: the underlying vertices and edges are the same
// objects, mutated in place, so "fresh plan" means a fresh wrapper, not a
// deep copy.
func (p *PhysicalPlan) WithDAG(dag *graph.DAG) *PhysicalPlan {
	return &PhysicalPlan{ID: p.ID, DAG: dag}
}

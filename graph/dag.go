package graph

// DAG is the immutable, validated intermediate representation produced by
// DAGBuilder.Build. All queries are O(1) expected on the adjacency indices,
// or O(degree) where a slice of edges is returned. Vertex and edge order
// within adjacency slices is insertion order, preserved from the builder, so
// that traversal and pass iteration are deterministic.
type DAG struct {
	order    []string // vertex insertion order
	vertices map[string]*Vertex
	incoming map[string][]*Edge
	outgoing map[string][]*Edge
	loopOf   map[string]*Vertex
	depthOf  map[string]int
}

// Vertices returns every vertex in the DAG, in insertion order.
func (d *DAG) Vertices() []*Vertex {
	out := make([]*Vertex, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.vertices[id])
	}
	return out
}

// Vertex returns the vertex with the given id, if present.
func (d *DAG) Vertex(id string) (*Vertex, bool) {
	v, ok := d.vertices[id]
	return v, ok
}

// IncomingEdgesOf returns the edges whose destination is v.ID, in the order
// they were connected.
func (d *DAG) IncomingEdgesOf(v *Vertex) []*Edge {
	return d.incoming[v.ID]
}

// OutgoingEdgesOf returns the edges whose source is v.ID, in the order they
// were connected.
func (d *DAG) OutgoingEdgesOf(v *Vertex) []*Edge {
	return d.outgoing[v.ID]
}

// AssignedLoopOf returns the Loop vertex v is nested inside, if any.
func (d *DAG) AssignedLoopOf(v *Vertex) (*Vertex, bool) {
	loop, ok := d.loopOf[v.ID]
	return loop, ok
}

// LoopDepthOf returns v's loop-nesting depth (0 when not inside a loop).
func (d *DAG) LoopDepthOf(v *Vertex) int {
	return d.depthOf[v.ID]
}

// IsComposite reports whether v has loop assignment and depth metadata
// recorded, i.e. whether it was added to its builder with loop context.
func (d *DAG) IsComposite(v *Vertex) bool {
	_, hasLoop := d.loopOf[v.ID]
	_, hasDepth := d.depthOf[v.ID]
	return hasLoop && hasDepth
}

// TopologicalOrder returns a deterministic topological ordering of the
// DAG's vertices: a depth-first postorder traversal seeded from vertices in
// insertion order, visiting each vertex's outgoing edges in insertion
// order, reversed. Because the DAG is acyclic by construction, this always
// succeeds.
func (d *DAG) TopologicalOrder() []*Vertex {
	visited := make(map[string]bool, len(d.order))
	order := make([]*Vertex, 0, len(d.order))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, e := range d.outgoing[id] {
			visit(e.DestID)
		}
		order = append(order, d.vertices[id])
	}

	for _, id := range d.order {
		visit(id)
	}

	// order is currently a reverse topological order (postorder puts a
	// vertex after everything it leads to); reverse it in place.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// ReverseTopologicalOrder returns TopologicalOrder reversed: every vertex
// appears before all of its predecessors.
func (d *DAG) ReverseTopologicalOrder() []*Vertex {
	order := d.TopologicalOrder()
	out := make([]*Vertex, len(order))
	for i, v := range order {
		out[len(order)-1-i] = v
	}
	return out
}

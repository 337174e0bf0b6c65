package graph

import (
	"github.com/hashicorp/go-multierror"
)

// LoopStack is a stack of enclosing Loop vertices, outermost first, used by
// the AddVertex convenience overload that mirrors nesting depth onto vertex
// metadata as the frontend walks into and out of loop bodies.
type LoopStack []*Vertex

// DAGBuilder is a mutable accumulator that produces an immutable DAG. It
// owns the structural integrity checks (acyclicity, source/sink
// classification, attribute consistency) that Build runs before freezing
// its state into a DAG. DAGBuilder is not safe for concurrent use; it is
// meant to be populated by a single frontend thread (see SPEC_FULL.md §5).
type DAGBuilder struct {
	order    []string
	vertices map[string]*Vertex
	incoming map[string][]*Edge
	outgoing map[string][]*Edge
	loopOf   map[string]*Vertex
	depthOf  map[string]int
}

// NewDAGBuilder returns an empty builder.
func NewDAGBuilder() *DAGBuilder {
	return &DAGBuilder{
		vertices: make(map[string]*Vertex),
		incoming: make(map[string][]*Edge),
		outgoing: make(map[string][]*Edge),
		loopOf:   make(map[string]*Vertex),
		depthOf:  make(map[string]int),
	}
}

// AddVertex inserts v with empty adjacency sets. Idempotent: adding the
// same vertex id twice is a no-op on the second call.
func (b *DAGBuilder) AddVertex(v *Vertex) {
	if _, exists := b.vertices[v.ID]; exists {
		return
	}
	b.order = append(b.order, v.ID)
	b.vertices[v.ID] = v
}

// AddVertexWithLoop inserts v and additionally records its enclosing loop
// vertex and nesting depth. depth must equal the number of loops enclosing
// v; callers that maintain a LoopStack should prefer AddVertexWithStack.
func (b *DAGBuilder) AddVertexWithLoop(v *Vertex, loop *Vertex, depth int) {
	b.AddVertex(v)
	b.loopOf[v.ID] = loop
	b.depthOf[v.ID] = depth
}

// AddVertexWithStack inserts v, recording the top of stack as its enclosing
// loop and the stack's length as its depth. If stack is empty, v is added
// with no loop assignment, as by plain AddVertex.
func (b *DAGBuilder) AddVertexWithStack(v *Vertex, stack LoopStack) {
	b.AddVertex(v)
	if len(stack) == 0 {
		return
	}
	b.loopOf[v.ID] = stack[len(stack)-1]
	b.depthOf[v.ID] = len(stack)
}

// AddVertexCopyingFrom inserts v, copying its loop assignment and depth
// from source if source.IsComposite(v) is true; otherwise behaves like
// plain AddVertex.
func (b *DAGBuilder) AddVertexCopyingFrom(v *Vertex, source *DAG) {
	if source.IsComposite(v) {
		loop, _ := source.AssignedLoopOf(v)
		depth := source.LoopDepthOf(v)
		b.AddVertexWithLoop(v, loop, depth)
		return
	}
	b.AddVertex(v)
}

// RemoveVertex removes v and every edge incident on it from both endpoints'
// adjacency sets and from the vertex-keyed maps.
func (b *DAGBuilder) RemoveVertex(v *Vertex) {
	if _, exists := b.vertices[v.ID]; !exists {
		return
	}
	for _, e := range b.incoming[v.ID] {
		b.outgoing[e.SourceID] = removeEdge(b.outgoing[e.SourceID], e.ID)
	}
	for _, e := range b.outgoing[v.ID] {
		b.incoming[e.DestID] = removeEdge(b.incoming[e.DestID], e.ID)
	}
	delete(b.incoming, v.ID)
	delete(b.outgoing, v.ID)
	delete(b.loopOf, v.ID)
	delete(b.depthOf, v.ID)
	delete(b.vertices, v.ID)
	for i, id := range b.order {
		if id == v.ID {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

func removeEdge(edges []*Edge, id string) []*Edge {
	out := edges[:0]
	for _, e := range edges {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// Connect adds edge to the builder: on success it is appended to the
// destination's incoming set and the source's outgoing set. Both endpoints
// must already have been added with AddVertex, otherwise Connect fails with
// *IllegalVertexOperationError naming both endpoint ids (rendered "null"
// when absent).
func (b *DAGBuilder) Connect(edge *Edge) error {
	_, srcOK := b.vertices[edge.SourceID]
	_, dstOK := b.vertices[edge.DestID]
	if !srcOK || !dstOK {
		err := &IllegalVertexOperationError{}
		if srcOK {
			err.SourceID = &edge.SourceID
		}
		if dstOK {
			err.DestID = &edge.DestID
		}
		return err
	}
	b.outgoing[edge.SourceID] = append(b.outgoing[edge.SourceID], edge)
	b.incoming[edge.DestID] = append(b.incoming[edge.DestID], edge)
	return nil
}

// IsEmpty reports whether the builder holds no vertices.
func (b *DAGBuilder) IsEmpty() bool {
	return len(b.vertices) == 0
}

// Contains reports whether a vertex with id v.ID has been added.
func (b *DAGBuilder) Contains(v *Vertex) bool {
	_, ok := b.vertices[v.ID]
	return ok
}

// ContainsFunc reports whether any added vertex satisfies predicate.
func (b *DAGBuilder) ContainsFunc(predicate func(*Vertex) bool) bool {
	for _, id := range b.order {
		if predicate(b.vertices[id]) {
			return true
		}
	}
	return false
}

// Build runs the full integrity check suite (acyclicity, source, sink,
// attribute consistency) and returns a frozen DAG. Acyclicity is checked
// first and returned immediately on failure, since the remaining checks are
// not meaningful on a cyclic graph; the source, sink, and attribute checks
// that follow are all run and their failures combined into a single
// returned error (see SPEC_FULL.md §4.2).
func (b *DAGBuilder) Build() (*DAG, error) {
	if err := b.checkAcyclicity(); err != nil {
		return nil, err
	}

	var result *multierror.Error
	if err := b.checkSource(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := b.checkSink(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := b.checkAttributeConsistency(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return b.freeze(), nil
}

// BuildWithoutSourceSinkCheck runs only the acyclicity and attribute
// consistency checks, then returns a frozen DAG. This is used when
// assembling the body of a loop container in isolation, where the
// surrounding IR graph (and therefore source/sink well-formedness) is not
// yet known.
func (b *DAGBuilder) BuildWithoutSourceSinkCheck() (*DAG, error) {
	if err := b.checkAcyclicity(); err != nil {
		return nil, err
	}
	if err := b.checkAttributeConsistency(); err != nil {
		return nil, err
	}
	return b.freeze(), nil
}

func (b *DAGBuilder) freeze() *DAG {
	d := &DAG{
		order:    append([]string(nil), b.order...),
		vertices: make(map[string]*Vertex, len(b.vertices)),
		incoming: make(map[string][]*Edge, len(b.incoming)),
		outgoing: make(map[string][]*Edge, len(b.outgoing)),
		loopOf:   make(map[string]*Vertex, len(b.loopOf)),
		depthOf:  make(map[string]int, len(b.depthOf)),
	}
	for id, v := range b.vertices {
		d.vertices[id] = v
	}
	for id, edges := range b.incoming {
		d.incoming[id] = append([]*Edge(nil), edges...)
	}
	for id, edges := range b.outgoing {
		d.outgoing[id] = append([]*Edge(nil), edges...)
	}
	for id, loop := range b.loopOf {
		d.loopOf[id] = loop
	}
	for id, depth := range b.depthOf {
		d.depthOf[id] = depth
	}
	return d
}

// checkAcyclicity performs a depth-first traversal seeded first from
// vertices with no incoming edges, in insertion order, visiting each
// vertex's outgoing edges in insertion order. A cycle is any outgoing edge
// whose destination is already on the current DFS path stack.
//
// Vertices reachable only from inside a cycle with no external entry point
// are not reached from those seeds (and, since every vertex on such a cycle
// has an incoming edge, the source check does not flag them either), so any
// vertex still unvisited afterwards is used as a further seed, in insertion
// order. Every directed cycle is therefore reported.
func (b *DAGBuilder) checkAcyclicity() error {
	visited := make(map[string]bool, len(b.order))
	onPath := make(map[string]bool)
	var pathStack []string
	var cycleErr *CycleDetectedError

	var dfs func(id string) bool
	dfs = func(id string) bool {
		onPath[id] = true
		pathStack = append(pathStack, id)

		for _, e := range b.outgoing[id] {
			dest := e.DestID
			if onPath[dest] {
				start := 0
				for i, v := range pathStack {
					if v == dest {
						start = i
						break
					}
				}
				cycle := append(append([]string(nil), pathStack[start:]...), dest)
				cycleErr = &CycleDetectedError{Cycle: cycle}
				return true
			}
			if !visited[dest] {
				if dfs(dest) {
					return true
				}
			}
		}

		onPath[id] = false
		pathStack = pathStack[:len(pathStack)-1]
		visited[id] = true
		return false
	}

	for _, id := range b.order {
		if len(b.incoming[id]) != 0 || visited[id] {
			continue
		}
		if dfs(id) {
			return cycleErr
		}
	}
	for _, id := range b.order {
		if visited[id] {
			continue
		}
		if dfs(id) {
			return cycleErr
		}
	}
	return nil
}

func (b *DAGBuilder) checkSource() error {
	var offending []string
	for _, id := range b.order {
		v := b.vertices[id]
		if v.IsIRKind() && len(b.incoming[id]) == 0 && v.Kind != KindSource {
			offending = append(offending, id)
		}
	}
	if len(offending) > 0 {
		return &SourceViolationError{OffendingIDs: offending}
	}
	return nil
}

func (b *DAGBuilder) checkSink() error {
	var offending []string
	for _, id := range b.order {
		v := b.vertices[id]
		if !v.IsIRKind() || len(b.outgoing[id]) != 0 {
			continue
		}
		if v.Kind == KindLoop {
			continue
		}
		if v.Kind == KindOperator && v.Transform == DoTransform {
			continue
		}
		offending = append(offending, id)
	}
	if len(offending) > 0 {
		return &SinkViolationError{OffendingIDs: offending}
	}
	return nil
}

func (b *DAGBuilder) checkAttributeConsistency() error {
	var result *multierror.Error
	for _, id := range b.order {
		for _, e := range b.incoming[id] {
			if e.Type != OneToOne || e.Attrs.HasSideInput() {
				continue
			}
			src := b.vertices[e.SourceID]
			dst := b.vertices[e.DestID]
			if src == nil || dst == nil {
				continue
			}
			if !src.IsIRKind() || !dst.IsIRKind() || src.Kind == KindLoop || dst.Kind == KindLoop {
				continue
			}
			srcP, srcOK := src.Attrs.Parallelism()
			dstP, dstOK := dst.Attrs.Parallelism()
			if !srcOK || !dstOK {
				continue
			}
			if srcP != dstP {
				result = multierror.Append(result, &ParallelismMismatchError{EdgeID: e.ID})
			}
		}
	}
	return result.ErrorOrNil()
}

package graph

// Kind discriminates the vertex variants well-formedness rules care about.
// Rather than an inheritance hierarchy of Source/Operator/Loop/IR types,
// Vertex is a single tagged struct with a shared metadata header (ID,
// Attrs) and kind-specific fields that are simply left zero-valued when
// Kind doesn't apply to them (see SPEC_FULL.md §3 for the rationale).
type Kind int

const (
	// KindIR is a plain intermediate-representation vertex with no special
	// well-formedness role.
	KindIR Kind = iota
	// KindSource may have no incoming edges.
	KindSource
	// KindOperator wraps a user transform. Only the DoTransform transform
	// kind is a legal sink.
	KindOperator
	// KindLoop is a composite container whose Body recursively holds a
	// sub-DAG.
	KindLoop
	// KindStage is a physical-plan vertex grouping parallel tasks. Stage
	// vertices are not IR vertices: the source/sink/parallelism checks in
	// DAGBuilder.Build never evaluate them.
	KindStage
)

// TransformKind identifies the user transform an Operator vertex wraps.
// DoTransform is the only transform kind the sink check accepts at a graph
// sink.
type TransformKind int

const (
	// OtherTransform is any transform kind other than DoTransform.
	OtherTransform TransformKind = iota
	// DoTransform is the only legal sink transform.
	DoTransform
)

// Vertex is a node in a DAG. Its meaning is determined by Kind:
//
//   - KindSource, KindIR: Transform, Body, and TaskIDs are unused.
//   - KindOperator: Transform names the wrapped user transform.
//   - KindLoop: Body holds the validated sub-DAG assembled with
//     DAGBuilder.BuildWithoutSourceSinkCheck.
//   - KindStage: TaskIDs holds the ordered list of parallel task ids.
type Vertex struct {
	ID    string
	Kind  Kind
	Attrs *Attributes

	// Transform is meaningful only when Kind == KindOperator.
	Transform TransformKind

	// Body is meaningful only when Kind == KindLoop.
	Body *DAG

	// TaskIDs is meaningful only when Kind == KindStage.
	TaskIDs []string
}

// NewVertex returns a plain IR vertex with an empty attribute map.
func NewVertex(id string) *Vertex {
	return &Vertex{ID: id, Kind: KindIR, Attrs: NewAttributes()}
}

// NewSourceVertex returns a Source vertex.
func NewSourceVertex(id string) *Vertex {
	return &Vertex{ID: id, Kind: KindSource, Attrs: NewAttributes()}
}

// NewOperatorVertex returns an Operator vertex wrapping transform.
func NewOperatorVertex(id string, transform TransformKind) *Vertex {
	return &Vertex{ID: id, Kind: KindOperator, Transform: transform, Attrs: NewAttributes()}
}

// NewLoopVertex returns a Loop vertex with an empty (not-yet-assembled)
// body.
func NewLoopVertex(id string) *Vertex {
	return &Vertex{ID: id, Kind: KindLoop, Attrs: NewAttributes()}
}

// NewStageVertex returns a physical-plan Stage vertex with the given
// ordered task ids.
func NewStageVertex(id string, taskIDs []string) *Vertex {
	ids := make([]string, len(taskIDs))
	copy(ids, taskIDs)
	return &Vertex{ID: id, Kind: KindStage, TaskIDs: ids, Attrs: NewAttributes()}
}

// IsIRKind reports whether v participates in the source/sink/parallelism
// well-formedness rules, i.e. whether v is not a physical Stage vertex.
func (v *Vertex) IsIRKind() bool {
	return v.Kind != KindStage
}

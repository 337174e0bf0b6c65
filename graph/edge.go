package graph

// EdgeType is the closed set of edge communication patterns.
type EdgeType int

const (
	// OneToOne connects corresponding parallel tasks directly.
	OneToOne EdgeType = iota
	// Broadcast sends every record to every downstream task.
	Broadcast
	// Shuffle is all-to-all communication partitioned by key.
	Shuffle
)

func (t EdgeType) String() string {
	switch t {
	case OneToOne:
		return "ONE_TO_ONE"
	case Broadcast:
		return "BROADCAST"
	case Shuffle:
		return "SHUFFLE"
	default:
		return "UNKNOWN"
	}
}

// Edge is a directed, attributed connection between two vertices. At the
// physical-plan layer a StageEdge is exactly an Edge whose Attrs carries the
// TaskIndexToKeyRange attribute; no separate struct is needed (see
// SPEC_FULL.md §3).
type Edge struct {
	ID       string
	SourceID string
	DestID   string
	Type     EdgeType
	Attrs    *Attributes
}

// NewEdge returns an edge of the given type between source and dest, with
// an empty attribute map. The CommunicationPattern attribute is also set to
// match Type, since the annotating pass framework reads communication
// pattern as an attribute rather than the structural Type field.
func NewEdge(id, sourceID, destID string, t EdgeType) *Edge {
	e := &Edge{ID: id, SourceID: sourceID, DestID: destID, Type: t, Attrs: NewAttributes()}
	switch t {
	case OneToOne:
		e.Attrs.SetCommunicationPattern(CommOneToOne)
	case Broadcast:
		e.Attrs.SetCommunicationPattern(CommBroadcast)
	case Shuffle:
		e.Attrs.SetCommunicationPattern(CommShuffle)
	}
	return e
}

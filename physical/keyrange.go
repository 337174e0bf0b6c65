package physical

import (
	"fmt"

	"github.com/skystar-p/dagflow/graph"
)

// KeyRange (also called HashRange) is a half-open interval [Start, End)
// over non-negative integer hash keys, with a flag marking whether the
// range contains one of the keys identified as skewed.
type KeyRange struct {
	Start   int64
	End     int64
	Skewed  bool
}

// NewKeyRange returns the range [start, end) with the given skewed flag.
func NewKeyRange(start, end int64, skewed bool) KeyRange {
	return KeyRange{Start: start, End: end, Skewed: skewed}
}

// Len returns the number of keys the range covers. It is zero for an empty
// range (Start == End).
func (r KeyRange) Len() int64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether key falls within [Start, End).
func (r KeyRange) Contains(key int64) bool {
	return key >= r.Start && key < r.End
}

func (r KeyRange) String() string {
	skew := ""
	if r.Skewed {
		skew = ", skewed"
	}
	return fmt.Sprintf("[%d, %d)%s", r.Start, r.End, skew)
}

// TaskIndexToKeyRange is the mutable task-index -> key-range mapping a
// StageEdge carries as its TaskIndexToKeyRange attribute, telling each
// downstream task which keys it owns.
type TaskIndexToKeyRange map[int]KeyRange

// TaskIndexToKeyRangeOf returns the TaskIndexToKeyRange attribute of edge,
// if present.
func TaskIndexToKeyRangeOf(edge *graph.Edge) (TaskIndexToKeyRange, bool) {
	v, ok := edge.Attrs.Get(graph.AttrTaskIndexToKeyRange)
	if !ok {
		return nil, false
	}
	m, ok := v.(TaskIndexToKeyRange)
	return m, ok
}

// SetTaskIndexToKeyRange overwrites edge's TaskIndexToKeyRange attribute.
func SetTaskIndexToKeyRange(edge *graph.Edge, ranges TaskIndexToKeyRange) {
	edge.Attrs.Set(graph.AttrTaskIndexToKeyRange, ranges)
}

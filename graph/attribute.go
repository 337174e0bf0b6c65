// Package graph implements the attributed, acyclic intermediate
// representation shared by the compiler and the physical-plan layer: vertex
// and edge value types, an immutable DAG container with deterministic
// traversal, and a validated builder that produces it.
package graph

import "sync"

// AttributeKey identifies a typed entry in a vertex or edge attribute map.
// Well-known keys are declared as constants below; callers may define their
// own for extension attributes a pass chooses to read or write.
type AttributeKey string

// Well-known attribute keys consumed by the builder's integrity checks and
// by the annotating pass framework.
const (
	AttrParallelism         AttributeKey = "parallelism"
	AttrCommunicationPattern AttributeKey = "communication_pattern"
	AttrDecoder             AttributeKey = "decoder"
	AttrSideInput           AttributeKey = "side_input"
	AttrTaskIndexToKeyRange AttributeKey = "task_index_to_key_range"
)

// CommunicationPattern is the closed set of edge communication patterns. Its
// values mirror EdgeType and are stored as an edge attribute so that passes
// can declare a read-set dependency on it without depending on the graph
// package's structural EdgeType field.
type CommunicationPattern string

const (
	CommOneToOne  CommunicationPattern = "ONE_TO_ONE"
	CommBroadcast CommunicationPattern = "BROADCAST"
	CommShuffle   CommunicationPattern = "SHUFFLE"
)

// Decoder is an opaque factory marker. The executor interprets specific
// values (e.g. BytesDecoder) to decide how to deserialize a shuffle edge's
// data; the core never inspects the marker's meaning.
type Decoder string

// BytesDecoder tells the executor to read shuffle bytes without
// deserializing them, enabling relay-transform optimization.
const BytesDecoder Decoder = "BYTES_DECODER"

// Attributes is a heterogeneous, typed attribute map attached to a vertex or
// an edge. It is backed by a *sync.Map, mirroring the teacher dag binding's
// Vertex.Attributes field, so that a pass may safely mutate its declared
// write-attribute while other goroutines hold a read reference to the same
// (otherwise immutable) DAG.
type Attributes struct {
	m sync.Map // AttributeKey -> any
}

// NewAttributes returns an empty attribute map.
func NewAttributes() *Attributes {
	return &Attributes{}
}

// Get returns the raw value stored under key, and whether it was present.
func (a *Attributes) Get(key AttributeKey) (any, bool) {
	if a == nil {
		return nil, false
	}
	return a.m.Load(key)
}

// Set stores value under key, overwriting any previous value.
func (a *Attributes) Set(key AttributeKey, value any) {
	a.m.Store(key, value)
}

// Has reports whether key is present, regardless of value.
func (a *Attributes) Has(key AttributeKey) bool {
	_, ok := a.Get(key)
	return ok
}

// Delete removes key, if present.
func (a *Attributes) Delete(key AttributeKey) {
	a.m.Delete(key)
}

// Parallelism returns the AttrParallelism value and whether it was defined.
func (a *Attributes) Parallelism() (int, bool) {
	v, ok := a.Get(AttrParallelism)
	if !ok {
		return 0, false
	}
	p, ok := v.(int)
	return p, ok
}

// SetParallelism stores the AttrParallelism attribute.
func (a *Attributes) SetParallelism(p int) {
	a.Set(AttrParallelism, p)
}

// CommunicationPattern returns the AttrCommunicationPattern value and
// whether it was defined.
func (a *Attributes) CommunicationPattern() (CommunicationPattern, bool) {
	v, ok := a.Get(AttrCommunicationPattern)
	if !ok {
		return "", false
	}
	p, ok := v.(CommunicationPattern)
	return p, ok
}

// SetCommunicationPattern stores the AttrCommunicationPattern attribute.
func (a *Attributes) SetCommunicationPattern(p CommunicationPattern) {
	a.Set(AttrCommunicationPattern, p)
}

// Decoder returns the AttrDecoder value and whether it was defined.
func (a *Attributes) Decoder() (Decoder, bool) {
	v, ok := a.Get(AttrDecoder)
	if !ok {
		return "", false
	}
	d, ok := v.(Decoder)
	return d, ok
}

// SetDecoder stores the AttrDecoder attribute.
func (a *Attributes) SetDecoder(d Decoder) {
	a.Set(AttrDecoder, d)
}

// HasSideInput reports whether the presence-only AttrSideInput attribute is
// set. SideInput carries no payload: the builder's parallelism check only
// cares whether it is present.
func (a *Attributes) HasSideInput() bool {
	return a.Has(AttrSideInput)
}

// SetSideInput marks the edge as carrying a side input.
func (a *Attributes) SetSideInput() {
	a.Set(AttrSideInput, struct{}{})
}

// ToMap snapshots the attribute map into a plain map for testing and
// inspection, mirroring the teacher dag binding's AttributesToMap /
// SyncMapToMap helpers.
func (a *Attributes) ToMap() map[AttributeKey]any {
	out := make(map[AttributeKey]any)
	if a == nil {
		return out
	}
	a.m.Range(func(key, value any) bool {
		out[key.(AttributeKey)] = value
		return true
	})
	return out
}

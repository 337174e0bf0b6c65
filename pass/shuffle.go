package pass

import "github.com/skystar-p/dagflow/graph"

// LargeShuffleDecoderPass tags every incoming shuffle edge with a
// BytesDecoder marker, telling the executor it may read the edge's data as
// raw bytes without deserializing it, which enables the relay-transform
// optimization. Non-shuffle edges are left untouched. Iteration order over
// vertices/edges need not be deterministic: the result depends only on the
// set of shuffle edges, not the order they are visited in.
type LargeShuffleDecoderPass struct{}

var _ Pass = LargeShuffleDecoderPass{}

// ReadSet returns {CommunicationPattern}.
func (LargeShuffleDecoderPass) ReadSet() []graph.AttributeKey {
	return []graph.AttributeKey{graph.AttrCommunicationPattern}
}

// WriteAttribute returns Decoder.
func (LargeShuffleDecoderPass) WriteAttribute() graph.AttributeKey {
	return graph.AttrDecoder
}

// Apply overwrites the Decoder attribute of every incoming shuffle edge of
// every vertex in dag with graph.BytesDecoder.
func (LargeShuffleDecoderPass) Apply(dag *graph.DAG) (*graph.DAG, error) {
	for _, v := range dag.Vertices() {
		for _, e := range dag.IncomingEdgesOf(v) {
			pattern, ok := e.Attrs.CommunicationPattern()
			if !ok || pattern != graph.CommShuffle {
				continue
			}
			e.Attrs.SetDecoder(graph.BytesDecoder)
		}
	}
	return dag, nil
}

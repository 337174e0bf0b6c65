package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/skystar-p/dagflow/graph"
)

// TestDAG_ConcurrentReadOnlyTraversalIsSafe mirrors the teacher's use of
// errgroup to fan out traversal: many goroutines traverse the same frozen
// DAG's structure concurrently while each of them also sets and reads the
// Decoder attribute on the shared Attributes maps, and the race detector
// (when enabled by the caller) must find nothing to complain about.
func TestDAG_ConcurrentReadOnlyTraversalIsSafe(t *testing.T) {
	dag := buildDiamond(t)

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			for _, v := range dag.Vertices() {
				_ = dag.IncomingEdgesOf(v)
				_ = dag.OutgoingEdgesOf(v)
				v.Attrs.Set(graph.AttrDecoder, graph.BytesDecoder)
				_, _ = v.Attrs.Decoder()
			}
			_ = dag.TopologicalOrder()
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

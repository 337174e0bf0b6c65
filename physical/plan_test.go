package physical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skystar-p/dagflow/graph"
	"github.com/skystar-p/dagflow/physical"
)

func buildStagePlan(t *testing.T) *physical.PhysicalPlan {
	t.Helper()
	b := graph.NewDAGBuilder()
	b.AddVertex(graph.NewStageVertex("s1", []string{"t0", "t1"}))
	b.AddVertex(graph.NewStageVertex("s2", []string{"t0", "t1", "t2"}))
	require.NoError(t, b.Connect(graph.NewEdge("s1->s2", "s1", "s2", graph.Shuffle)))

	dag, err := b.BuildWithoutSourceSinkCheck()
	require.NoError(t, err)
	return physical.NewPhysicalPlan("plan-1", dag)
}

func TestPhysicalPlan_StagesAndStageEdges(t *testing.T) {
	plan := buildStagePlan(t)
	assert.Len(t, plan.Stages(), 2)
	assert.Len(t, plan.StageEdges(), 1)

	edge, ok := plan.StageEdgeByID("s1->s2")
	require.True(t, ok)
	assert.Equal(t, "s1", edge.SourceID)
	assert.Equal(t, "s2", edge.DestID)
}

func TestKeyRange_ContainsAndLen(t *testing.T) {
	r := physical.NewKeyRange(10, 20, true)
	assert.Equal(t, int64(10), r.Len())
	assert.True(t, r.Contains(10))
	assert.True(t, r.Contains(19))
	assert.False(t, r.Contains(20))
	assert.Contains(t, r.String(), "skewed")
}

func TestKeyRange_EmptyRangeHasZeroLen(t *testing.T) {
	r := physical.NewKeyRange(5, 5, false)
	assert.Equal(t, int64(0), r.Len())
	assert.False(t, r.Contains(5))
}

func TestTaskIndexToKeyRange_SetAndGet(t *testing.T) {
	plan := buildStagePlan(t)
	edge, ok := plan.StageEdgeByID("s1->s2")
	require.True(t, ok)

	assignment := physical.TaskIndexToKeyRange{
		0: physical.NewKeyRange(0, 5, false),
		1: physical.NewKeyRange(5, 10, true),
	}
	physical.SetTaskIndexToKeyRange(edge, assignment)

	got, ok := physical.TaskIndexToKeyRangeOf(edge)
	require.True(t, ok)
	assert.Equal(t, assignment, got)
}

func TestPhysicalPlan_WithDAGPreservesID(t *testing.T) {
	plan := buildStagePlan(t)
	other := plan.WithDAG(plan.DAG)
	assert.Equal(t, plan.ID, other.ID)
}

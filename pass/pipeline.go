package pass

import (
	"fmt"

	"github.com/skystar-p/dagflow/graph"
)

// Pipeline orders a set of passes by their declared (read-set,
// write-attribute) dependencies and runs them sequentially. It is a small
// internal convenience, not the external compiler driver spec.md §4.3/§6
// excludes from this module's scope: composing passes in dependency order
// is still something a reusable library can offer, the same way the
// teacher dag binding offers ProcessTopology/ProcessReverseTopology as
// convenience orchestration layered on top of its graph primitives.
//
// Each pass must declare a unique WriteAttribute; Pipeline has no notion of
// two passes writing the same attribute.
type Pipeline struct {
	passes []Pass
}

// NewPipeline returns a Pipeline that will run passes in dependency order.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// Run orders the pipeline's passes and applies them in turn to dag,
// returning the final result. A pass whose ReadSet names an attribute no
// other pass in the pipeline writes is assumed to depend on frontend-set
// data and is simply not ordered relative to that attribute. A dependency
// cycle among the passes themselves surfaces as the same
// *graph.CycleDetectedError the graph primitives use elsewhere: passes are
// not a separate error domain.
func (p *Pipeline) Run(dag *graph.DAG) (*graph.DAG, error) {
	byAttr := make(map[graph.AttributeKey]Pass, len(p.passes))
	for _, pa := range p.passes {
		attr := pa.WriteAttribute()
		if _, dup := byAttr[attr]; dup {
			return nil, fmt.Errorf("pipeline: more than one pass declares write-attribute %q", attr)
		}
		byAttr[attr] = pa
	}

	builder := graph.NewDAGBuilder()
	for _, pa := range p.passes {
		builder.AddVertex(graph.NewVertex(string(pa.WriteAttribute())))
	}
	for _, pa := range p.passes {
		for _, read := range pa.ReadSet() {
			writer, ok := byAttr[read]
			if !ok || writer.WriteAttribute() == pa.WriteAttribute() {
				continue
			}
			edgeID := fmt.Sprintf("%s->%s", writer.WriteAttribute(), pa.WriteAttribute())
			edge := graph.NewEdge(edgeID, string(writer.WriteAttribute()), string(pa.WriteAttribute()), graph.OneToOne)
			if err := builder.Connect(edge); err != nil {
				return nil, err
			}
		}
	}

	depDAG, err := builder.BuildWithoutSourceSinkCheck()
	if err != nil {
		return nil, fmt.Errorf("pipeline: passes have unsatisfiable dependencies: %w", err)
	}

	result := dag
	for _, v := range depDAG.TopologicalOrder() {
		pa := byAttr[graph.AttributeKey(v.ID)]
		result, err = pa.Apply(result)
		if err != nil {
			return nil, fmt.Errorf("pipeline: pass writing %q failed: %w", pa.WriteAttribute(), err)
		}
	}
	return result, nil
}

package skew

import "fmt"

// EmptyOptimizationEdgesError is returned by Apply when none of the decoded
// runtime edge ids in a metric report match any stage edge in the plan: the
// report names nothing this plan can act on.
type EmptyOptimizationEdgesError struct {
	PlanID string
}

func (e *EmptyOptimizationEdgesError) Error() string {
	return fmt.Sprintf("skew: metric report matched no stage edge in plan %q", e.PlanID)
}

// InsufficientKeysError is returned by IdentifySkewedKeys when the observed
// key-size map has fewer entries than the configured skewed-key count,
// making "top k" ill-defined.
type InsufficientKeysError struct {
	Requested int
	Observed  int
}

func (e *InsufficientKeysError) Error() string {
	return fmt.Sprintf("skew: requested top %d skewed keys but only %d keys were observed", e.Requested, e.Observed)
}

// DynamicOptimizationError wraps a failure of the rebalancing procedure
// itself (as opposed to a malformed request), carrying the plan and edge ids
// it was attempting to rebalance for diagnostic purposes.
type DynamicOptimizationError struct {
	PlanID string
	EdgeID string
	Err    error
}

func (e *DynamicOptimizationError) Error() string {
	return fmt.Sprintf("skew: dynamic optimization of plan %q edge %q failed: %v", e.PlanID, e.EdgeID, e.Err)
}

func (e *DynamicOptimizationError) Unwrap() error {
	return e.Err
}

package skew

import (
	"log/slog"
	"sort"

	"github.com/skystar-p/dagflow/graph"
	"github.com/skystar-p/dagflow/physical"
)

// defaultSkewedKeyCount is the default number of top keys the pass flags as
// skewed when no WithSkewedKeyCount option is given.
const defaultSkewedKeyCount = 3

// Config holds the runtime skew pass's tunables, built from a chain of
// Option values the same way the teacher's synced-traversal options are:
// small functional-option struct, no user-facing constructor arguments
// beyond what actually varies.
type Config struct {
	skewedKeyCount int
	logger         *slog.Logger
}

// Option configures a Config.
type Option func(*Config)

// WithSkewedKeyCount overrides the number of top keys flagged as skewed
// (default 3).
func WithSkewedKeyCount(n int) Option {
	return func(c *Config) {
		c.skewedKeyCount = n
	}
}

// WithLogger attaches a logger the pass uses to report what it rebalanced.
// Defaults to slog.Default() if not given.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

func newConfig(opts ...Option) *Config {
	c := &Config{
		skewedKeyCount: defaultSkewedKeyCount,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IdentifySkewedKeys returns the top n keys of sizes by descending size,
// breaking ties by ascending key, per the standing convention that the
// smaller key wins a tie so the result is deterministic regardless of map
// iteration order. It fails if sizes has fewer than n entries.
func IdentifySkewedKeys(sizes map[int64]int64, n int) ([]int64, error) {
	if len(sizes) < n {
		return nil, &InsufficientKeysError{Requested: n, Observed: len(sizes)}
	}

	keys := make([]int64, 0, len(sizes))
	for k := range sizes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := sizes[keys[i]], sizes[keys[j]]
		if si != sj {
			return si > sj
		}
		return keys[i] < keys[j]
	})
	return keys[:n], nil
}

// CalculateKeyRanges partitions [0, maxKey+1) into exactly n half-open
// ranges, walking keys in ascending order and advancing the boundary of each
// range until its accumulated size reaches ideal = total/n, correcting by
// one key backward when doing so lands closer to ideal than overshooting
// did. The final range always runs through maxKey inclusive, absorbing
// whatever remainder the integer-division ideal left behind.
//
// The loop intentionally starts each non-final range's inner scan one key
// ahead of where the previous range's accumulator left off: finish is
// advanced by one after a range is emitted without folding that key's size
// back into acc first. This is a known rough edge in the accumulation, not a
// bug to paper over here; see SPEC_FULL.md.
//
// The inner scan and the post-range advance are both bounded by maxFinish
// (maxKey+1, the end of the keyspace): once finish reaches it there is no
// more size mass to accumulate from (sizeOf returns 0 beyond maxKey), so
// advancing further would either spin forever waiting for acc to reach an
// unreachable target or push a range boundary past the keyspace. Once a
// non-final range ends at maxFinish, every later non-final range is emitted
// as the empty range [maxFinish, maxFinish).
func CalculateKeyRanges(sizes map[int64]int64, n int, skewedKeyCount int) ([]physical.KeyRange, error) {
	if len(sizes) == 0 {
		return nil, &InsufficientKeysError{Requested: skewedKeyCount, Observed: 0}
	}
	if n <= 0 {
		return nil, &DynamicOptimizationError{Err: errNonPositivePartitionCount(n)}
	}

	var maxKey int64
	var total int64
	for k, v := range sizes {
		if k > maxKey {
			maxKey = k
		}
		total += v
	}
	maxFinish := maxKey + 1

	skewedKeys, err := IdentifySkewedKeys(sizes, skewedKeyCount)
	if err != nil {
		return nil, err
	}
	skewed := make(map[int64]struct{}, len(skewedKeys))
	for _, k := range skewedKeys {
		skewed[k] = struct{}{}
	}

	sizeOf := func(k int64) int64 { return sizes[k] }
	containsSkewed := func(start, end int64) bool {
		for k := range skewed {
			if k >= start && k < end {
				return true
			}
		}
		return false
	}

	ideal := total / int64(n)
	ranges := make([]physical.KeyRange, n)

	start := int64(0)
	finish := int64(1)
	acc := sizeOf(0)

	for i := 1; i <= n; i++ {
		if i < n {
			target := ideal * int64(i)
			for acc < target && finish < maxFinish {
				acc += sizeOf(finish)
				finish++
			}

			if acc >= target {
				overshoot := acc - target
				undershoot := target - (acc - sizeOf(finish-1))
				if overshoot > undershoot {
					finish--
					acc -= sizeOf(finish)
				}
			}

			ranges[i-1] = physical.NewKeyRange(start, finish, containsSkewed(start, finish))
			start = finish
			finish++
			if finish > maxFinish {
				finish = maxFinish
			}
		} else {
			end := maxFinish
			ranges[i-1] = physical.NewKeyRange(start, end, containsSkewed(start, end))
		}
	}
	return ranges, nil
}

type errNonPositivePartitionCount int

func (e errNonPositivePartitionCount) Error() string {
	return "skew: partition count must be positive"
}

// Apply rebalances plan in place against metrics: it decodes the runtime
// edge id embedded in every reported block id, finds the stage edges in
// plan those ids name, recomputes their key ranges from the observed
// key-size distribution, and overwrites each matched edge's
// TaskIndexToKeyRange attribute. It returns a plan sharing plan's identity
// but wrapping the mutated DAG.
func Apply(plan *physical.PhysicalPlan, metrics Metrics, decoder RuntimeEdgeIDDecoder, opts ...Option) (*physical.PhysicalPlan, error) {
	cfg := newConfig(opts...)

	edgeIDs := RuntimeEdgeIDsOf(metrics.BlockIDs, decoder)

	var matched []*graph.Edge
	for _, e := range plan.StageEdges() {
		if _, ok := edgeIDs[e.ID]; ok {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return nil, &EmptyOptimizationEdgesError{PlanID: plan.ID}
	}

	for _, e := range matched {
		dest, ok := plan.DAG.Vertex(e.DestID)
		if !ok {
			continue
		}
		n := len(dest.TaskIDs)
		if n == 0 {
			continue
		}

		ranges, err := CalculateKeyRanges(metrics.KeySizes, n, cfg.skewedKeyCount)
		if err != nil {
			return nil, &DynamicOptimizationError{PlanID: plan.ID, EdgeID: e.ID, Err: err}
		}

		assignment := make(physical.TaskIndexToKeyRange, n)
		for idx, r := range ranges {
			assignment[idx] = r
		}
		physical.SetTaskIndexToKeyRange(e, assignment)

		cfg.logger.Info("rebalanced stage edge key ranges",
			"plan", plan.ID, "edge", e.ID, "task_count", n)
	}

	return plan.WithDAG(plan.DAG), nil
}

package sgd

// OptimizationStrategy selects how element-wise update kernels are executed.
type OptimizationStrategy int

const (
	// StrategyPureBLAS uses only BLAS level-1 operations with minimal fusion
	StrategyPureBLAS OptimizationStrategy = iota
	// StrategyFusion fuses the accumulator and parameter updates into single passes
	StrategyFusion
)

func (s OptimizationStrategy) String() string {
	switch s {
	case StrategyPureBLAS:
		return "PureBLAS"
	case StrategyFusion:
		return "Fusion"
	default:
		return "Unknown"
	}
}

// AdaptiveConfig holds the thresholds used to pick a strategy.
type AdaptiveConfig struct {
	// Matrices with fewer elements than this use StrategyPureBLAS.
	SmallMatrixThreshold int
}

// DefaultAdaptiveConfig returns sensible defaults.
func DefaultAdaptiveConfig() AdaptiveConfig {
	return AdaptiveConfig{
		SmallMatrixThreshold: 512, // Below this: simple BLAS operations
	}
}

// SelectOptimizationStrategy chooses the strategy for a matrix of the given
// number of elements. The choice depends on the size only, so two runs over
// equally shaped parameters always execute the same floating-point operations.
func SelectOptimizationStrategy(size int, config AdaptiveConfig) OptimizationStrategy {
	if size < config.SmallMatrixThreshold {
		// Small matrices: overhead of fusion is not worth it
		return StrategyPureBLAS
	}
	// Larger matrices: memory bandwidth dominates, fuse passes
	return StrategyFusion
}

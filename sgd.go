// File: sgd.go
// Go 1.20+
//
// Stochastic gradient descent over pluggable objectives and update policies.
// - SeparableFunction: full and mini-batch objective/gradient, NumFunctions, Shuffle
// - UpdatePolicy: Initialize(rows, cols) + Update(iterate, stepSize, gradient)
// - Optimizer: batching, epochs, step-size schedule, checkpoints, termination
//
// Parameters are gonum *mat.Dense matrices updated in place. Batched gradients
// are sums over the batch window, not means; step sizes of the update policies
// are tuned with that in mind.
//
// Termination:
// - FunctionConvergence: no decrease by more than Tolerance for Patience checkpoints
// - IterationLimit: budget exhausted, best checkpoint iterate is returned
// - NumericalFailure: non-finite objective or iterate at a checkpoint
// - Stopped: Options.Callback returned true
//
// Concurrency: a run is single-threaded and owns its function, policy and
// parameters. An Optimizer holds only configuration and may be shared; see
// OptimizeAll for running independent problems in parallel.

package sgd

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

const (
	DefaultStepSize      = 0.01
	DefaultBatchSize     = 32
	DefaultMaxIterations = 100000
	DefaultTolerance     = 1e-5
)

// Options configures an Optimizer. Zero values select the defaults noted on
// each field.
type Options struct {
	// Base step size α (> 0). The step of update t is StepSize * Schedule.Eta().
	// Default 0.01.
	StepSize float64
	// Number of sub-functions per update, clamped to NumFunctions. Default 32.
	BatchSize int
	// Maximum number of updates. Default 100000; negative means no limit.
	MaxIterations int
	// Minimum decrease of the best objective that counts as progress between
	// checkpoints. Default 1e-5; negative disables tolerance-based termination.
	Tolerance float64
	// Number of consecutive checkpoints without progress required. Default 1.
	Patience int
	// Updates between checkpoints. Default: one epoch.
	EvaluationInterval int
	// Do not reshuffle the function at start and at epoch boundaries.
	DisableShuffle bool
	// Step-size multiplier. Cloned for every run. Default: FixedSchedule(1).
	Schedule Schedule
	// Called at every checkpoint; returning true stops the run.
	Callback func(Progress) bool
	// Default: logrus standard logger.
	Logger log.FieldLogger
	// Optional Prometheus metrics.
	Metrics *Metrics
}

// Progress describes a checkpoint.
type Progress struct {
	Iteration int
	Epoch     int
	Objective float64
	StepSize  float64
}

// Result summarises a finished run. The final parameters are in the iterate
// passed to Optimize.
type Result struct {
	Status      Status
	Objective   float64
	Iterations  int
	Epochs      int
	Evaluations int
	Runtime     time.Duration
}

// Optimizer drives an UpdatePolicy over a SeparableFunction.
//
// Example usage:
//
//	opt, _ := sgd.New(sgd.Options{StepSize: 0.01, BatchSize: 1, MaxIterations: 10000})
//	x := mat.NewDense(2, 1, []float64{1, 1})
//	res, err := opt.Optimize(sgd.Separable(problems.NewBeale()), sgd.DefaultQHUpdate(), x)
type Optimizer struct {
	opts Options
}

// ---------- Constructor & validation ----------

func New(opts Options) (*Optimizer, error) {
	if opts.StepSize == 0 {
		opts.StepSize = DefaultStepSize
	}
	if !(opts.StepSize > 0) || math.IsInf(opts.StepSize, 0) {
		return nil, invalidArgument("StepSize", opts.StepSize, "must be > 0 and finite")
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.BatchSize < 0 {
		return nil, invalidArgument("BatchSize", opts.BatchSize, "must be > 0")
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = DefaultTolerance
	}
	if math.IsNaN(opts.Tolerance) {
		return nil, invalidArgument("Tolerance", opts.Tolerance, "must not be NaN")
	}
	if opts.Patience == 0 {
		opts.Patience = 1
	}
	if opts.Patience < 0 {
		return nil, invalidArgument("Patience", opts.Patience, "must be > 0")
	}
	if opts.EvaluationInterval < 0 {
		return nil, invalidArgument("EvaluationInterval", opts.EvaluationInterval, "must be >= 0")
	}
	if opts.Schedule == nil {
		opts.Schedule = NewFixedSchedule(1.0)
	}
	if opts.Logger == nil {
		opts.Logger = log.StandardLogger()
	}
	return &Optimizer{opts: opts}, nil
}

func MustNew(opts Options) *Optimizer {
	o, err := New(opts)
	if err != nil {
		panic(err)
	}
	return o
}

// Options returns the effective options, defaults applied.
func (o *Optimizer) Options() Options { return o.opts }

// ---------- Main loop ----------

// Optimize minimises f starting from iterate, which is updated in place.
//
// The returned error is non-nil only for contract violations: invalid
// arguments or an error from policy.Update. Non-convergence and numerical
// failure are reported through Result.Status.
func (o *Optimizer) Optimize(f SeparableFunction, policy UpdatePolicy, iterate *mat.Dense) (Result, error) {
	return o.optimize(f, policy, o.opts.Schedule.Clone(), iterate)
}

func (o *Optimizer) optimize(f SeparableFunction, policy UpdatePolicy, schedule Schedule, iterate *mat.Dense) (Result, error) {
	start := time.Now()
	if f == nil {
		return Result{}, invalidArgument("function", nil, "must be non-nil")
	}
	if policy == nil {
		return Result{}, invalidArgument("policy", nil, "must be non-nil")
	}
	if iterate == nil || iterate.IsEmpty() {
		return Result{}, invalidArgument("iterate", "empty", "must have non-zero dimensions")
	}
	n := f.NumFunctions()
	if n < 1 {
		return Result{}, invalidArgument("NumFunctions", n, "must be >= 1")
	}

	batchSize := o.opts.BatchSize
	if batchSize > n {
		batchSize = n
	}
	interval := o.opts.EvaluationInterval
	if interval == 0 {
		interval = (n + batchSize - 1) / batchSize
	}
	rows, cols := iterate.Dims()
	shuffle := !o.opts.DisableShuffle
	metrics := o.opts.Metrics
	logger := o.opts.Logger.WithFields(log.Fields{
		"numFunctions": n,
		"batchSize":    batchSize,
		"shape":        fmt.Sprintf("%dx%d", rows, cols),
	})

	policy.Initialize(rows, cols)
	if shuffle {
		f.Shuffle()
	}

	var (
		res           Result
		gradient      = mat.NewDense(rows, cols, nil)
		best          = mat.NewDense(rows, cols, nil)
		bestObjective = math.Inf(1)
		converge      = newConverger(o.opts.Tolerance, o.opts.Patience)
		offset        int
		sinceEval     int
		stepSize      = o.opts.StepSize * schedule.Eta()
	)
	converge.Init(rows * cols)
	logger.Debug("starting optimization")

	checkpoint := func() Status {
		objective := f.Evaluate(iterate)
		res.Objective = objective
		res.Evaluations++
		sinceEval = 0
		metrics.recordCheckpoint(objective)
		if !isFinite(objective) || !denseAllFinite(iterate) {
			return NumericalFailure
		}
		if objective < bestObjective {
			best.Copy(iterate)
			bestObjective = objective
		}
		logger.WithFields(log.Fields{
			"iteration": res.Iterations,
			"epoch":     res.Epochs,
			"objective": objective,
			"stepSize":  stepSize,
		}).Debug("checkpoint")
		if o.opts.Callback != nil && o.opts.Callback(Progress{
			Iteration: res.Iterations,
			Epoch:     res.Epochs,
			Objective: objective,
			StepSize:  stepSize,
		}) {
			return Stopped
		}
		if converge.Converged(&optimize.Location{F: objective}) == optimize.FunctionConvergence {
			return FunctionConvergence
		}
		return NotTerminated
	}

	status := checkpoint()
	for status == NotTerminated {
		if o.opts.MaxIterations >= 0 && res.Iterations >= o.opts.MaxIterations {
			status = IterationLimit
			if sinceEval > 0 {
				if s := checkpoint(); s != NotTerminated {
					status = s
				}
			}
			break
		}

		size := batchSize
		if offset+size > n {
			size = n - offset
		}
		f.GradientBatch(iterate, offset, gradient, size)
		stepSize = o.opts.StepSize * schedule.Eta()
		if err := policy.Update(iterate, stepSize, gradient); err != nil {
			return res, errors.Wrapf(err, "update at iteration %d", res.Iterations)
		}
		schedule.Tick()
		metrics.recordUpdate(stepSize)
		res.Iterations++
		sinceEval++

		offset += size
		if offset == n {
			offset = 0
			res.Epochs++
			if shuffle {
				f.Shuffle()
			}
		}
		if sinceEval >= interval {
			status = checkpoint()
		}
	}

	if status == IterationLimit && bestObjective < res.Objective {
		iterate.Copy(best)
		res.Objective = bestObjective
	}
	res.Status = status
	res.Runtime = time.Since(start)
	metrics.recordRun(status)

	done := logger.WithFields(log.Fields{
		"status":     status,
		"iterations": res.Iterations,
		"objective":  res.Objective,
	})
	if status == NumericalFailure {
		done.Warnf("objective is %v at iteration %d; terminating with failure, try a smaller step size", res.Objective, res.Iterations)
	} else {
		done.Info("optimization finished")
	}
	return res, nil
}

func denseAllFinite(m *mat.Dense) bool {
	mv, err := NewMatrixView(m)
	if err != nil {
		return false
	}
	return mv.AllFinite()
}

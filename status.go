package sgd

// Status reports why a run stopped.
type Status int

const (
	NotTerminated Status = iota
	// FunctionConvergence: the best objective did not improve by more than
	// the tolerance for Patience consecutive checkpoints.
	FunctionConvergence
	// IterationLimit: the iteration budget ran out. This is not a failure.
	IterationLimit
	// NumericalFailure: the objective or the iterate became NaN or infinite.
	NumericalFailure
	// Stopped: the callback asked the run to stop.
	Stopped
)

var statusNames = map[Status]string{
	NotTerminated:       "NotTerminated",
	FunctionConvergence: "FunctionConvergence",
	IterationLimit:      "IterationLimit",
	NumericalFailure:    "NumericalFailure",
	Stopped:             "Stopped",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Err returns ErrNumericalFailure for NumericalFailure and nil for every
// other status.
func (s Status) Err() error {
	if s == NumericalFailure {
		return ErrNumericalFailure
	}
	return nil
}

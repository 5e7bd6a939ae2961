package sgd

import (
	"math"
)

// Schedule defines the step-size multiplier η_t and allows ticking per update.
// The driver uses Options.StepSize * Eta() as the step size of each update.
type Schedule interface {
	// Eta returns η_t for the CURRENT step (before Tick()).
	Eta() float64
	// Tick advances the internal step by 1.
	Tick()
	// Clone returns a schedule with the same configuration in its initial
	// state.
	Clone() Schedule
}

// FixedSchedule — constant η_t (defaults to 1 if <=0).
type FixedSchedule struct {
	eta float64
}

func NewFixedSchedule(eta float64) *FixedSchedule {
	if !(eta > 0) || math.IsInf(eta, 0) {
		eta = 1.0
	}
	return &FixedSchedule{eta: eta}
}

func (s *FixedSchedule) Eta() float64    { return s.eta }
func (s *FixedSchedule) Tick()           {}
func (s *FixedSchedule) Clone() Schedule { return &FixedSchedule{eta: s.eta} }

// CosineAnnealingWarmRestarts — η_t = 0.5 + 0.5·cos(π·Tcur/Ti), periods in
// steps, period grows by tMult on restart.
type CosineAnnealingWarmRestarts struct {
	initialPeriodSteps int
	tMult              float64
	curPeriodSteps     int
	tcur               int
}

func NewCosineAnnealingWarmRestarts(initialPeriodSteps int, tMult float64) (*CosineAnnealingWarmRestarts, error) {
	if initialPeriodSteps <= 0 {
		return nil, invalidArgument("initialPeriodSteps", initialPeriodSteps, "must be > 0")
	}
	if !(tMult >= 1.0) || math.IsInf(tMult, 0) {
		return nil, invalidArgument("tMult", tMult, "must be >= 1 and finite")
	}
	return &CosineAnnealingWarmRestarts{
		initialPeriodSteps: initialPeriodSteps,
		tMult:              tMult,
		curPeriodSteps:     initialPeriodSteps,
	}, nil
}

func (s *CosineAnnealingWarmRestarts) Eta() float64 {
	r := float64(s.tcur) / float64(s.curPeriodSteps)
	return 0.5 + 0.5*math.Cos(math.Pi*r)
}

func (s *CosineAnnealingWarmRestarts) Tick() {
	s.tcur++
	if s.tcur >= s.curPeriodSteps {
		// restart
		s.tcur = 0
		s.curPeriodSteps = int(math.Round(float64(s.curPeriodSteps) * s.tMult))
		if s.curPeriodSteps <= 0 {
			s.curPeriodSteps = 1
		}
	}
}

func (s *CosineAnnealingWarmRestarts) Clone() Schedule {
	return &CosineAnnealingWarmRestarts{
		initialPeriodSteps: s.initialPeriodSteps,
		tMult:              s.tMult,
		curPeriodSteps:     s.initialPeriodSteps,
	}
}

// ExponentialDecay — η_t = rate^(t/decaySteps), so η is multiplied by rate
// every decaySteps updates.
type ExponentialDecay struct {
	rate       float64
	decaySteps int
	t          int
}

func NewExponentialDecay(rate float64, decaySteps int) (*ExponentialDecay, error) {
	if !(rate > 0 && rate <= 1) {
		return nil, invalidArgument("rate", rate, "outside allowed range (0, 1]")
	}
	if decaySteps <= 0 {
		return nil, invalidArgument("decaySteps", decaySteps, "must be > 0")
	}
	return &ExponentialDecay{rate: rate, decaySteps: decaySteps}, nil
}

func (s *ExponentialDecay) Eta() float64 {
	return math.Pow(s.rate, float64(s.t)/float64(s.decaySteps))
}

func (s *ExponentialDecay) Tick() { s.t++ }

func (s *ExponentialDecay) Clone() Schedule {
	return &ExponentialDecay{rate: s.rate, decaySteps: s.decaySteps}
}

package sgd

import (
	"math"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the file/environment form of Options plus the choice of update
// policy and schedule. Load it with LoadConfig.
type Config struct {
	StepSize           float64        `mapstructure:"stepSize"`
	BatchSize          int            `mapstructure:"batchSize"`
	MaxIterations      int            `mapstructure:"maxIterations"`
	Tolerance          float64        `mapstructure:"tolerance"`
	Patience           int            `mapstructure:"patience"`
	EvaluationInterval int            `mapstructure:"evaluationInterval"`
	DisableShuffle     bool           `mapstructure:"disableShuffle"`
	Policy             PolicyConfig   `mapstructure:"policy"`
	Schedule           ScheduleConfig `mapstructure:"schedule"`
}

// PolicyConfig selects an update policy by Type: qh, wngrad, vanilla,
// momentum, nesterov or adam.
type PolicyConfig struct {
	Type        string  `mapstructure:"type"`
	V           float64 `mapstructure:"v"`
	Momentum    float64 `mapstructure:"momentum"`
	Beta1       float64 `mapstructure:"beta1"`
	Beta2       float64 `mapstructure:"beta2"`
	Eps         float64 `mapstructure:"eps"`
	WeightDecay float64 `mapstructure:"weightDecay"`
}

// ScheduleConfig selects a step-size schedule by Type: fixed, cosine or
// exponential.
type ScheduleConfig struct {
	Type       string  `mapstructure:"type"`
	Eta        float64 `mapstructure:"eta"`
	Period     int     `mapstructure:"period"`
	TMult      float64 `mapstructure:"tMult"`
	Rate       float64 `mapstructure:"rate"`
	DecaySteps int     `mapstructure:"decaySteps"`
}

// SetConfigDefaults registers the default values of every Config key on v.
func SetConfigDefaults(v *viper.Viper) {
	v.SetDefault("stepSize", DefaultStepSize)
	v.SetDefault("batchSize", DefaultBatchSize)
	v.SetDefault("maxIterations", DefaultMaxIterations)
	v.SetDefault("tolerance", DefaultTolerance)
	v.SetDefault("patience", 1)
	v.SetDefault("evaluationInterval", 0)
	v.SetDefault("disableShuffle", false)
	v.SetDefault("policy.type", "qh")
	v.SetDefault("policy.v", DefaultQHV)
	v.SetDefault("policy.momentum", DefaultQHMomentum)
	v.SetDefault("policy.beta1", 0.9)
	v.SetDefault("policy.beta2", 0.999)
	v.SetDefault("policy.eps", 1e-8)
	v.SetDefault("policy.weightDecay", 0.0)
	v.SetDefault("schedule.type", "fixed")
	v.SetDefault("schedule.eta", 1.0)
	v.SetDefault("schedule.period", 1000)
	v.SetDefault("schedule.tMult", 1.0)
	v.SetDefault("schedule.rate", 0.5)
	v.SetDefault("schedule.decaySteps", 1000)
}

// LoadConfig applies the defaults to v, unmarshals it and validates the
// result.
func LoadConfig(v *viper.Viper) (Config, error) {
	SetConfigDefaults(v)
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.Wrap(err, "unmarshalling sgd config")
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate reports every invalid setting at once. Zero values are valid and
// select the Options defaults.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.StepSize < 0 || math.IsNaN(c.StepSize) || math.IsInf(c.StepSize, 0) {
		result = multierror.Append(result, invalidArgument("stepSize", c.StepSize, "must be >= 0 and finite"))
	}
	if c.BatchSize < 0 {
		result = multierror.Append(result, invalidArgument("batchSize", c.BatchSize, "must be >= 0"))
	}
	if math.IsNaN(c.Tolerance) {
		result = multierror.Append(result, invalidArgument("tolerance", c.Tolerance, "must not be NaN"))
	}
	if c.Patience < 0 {
		result = multierror.Append(result, invalidArgument("patience", c.Patience, "must be >= 0"))
	}
	if c.EvaluationInterval < 0 {
		result = multierror.Append(result, invalidArgument("evaluationInterval", c.EvaluationInterval, "must be >= 0"))
	}
	if _, err := c.Policy.NewPolicy(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := c.Schedule.NewSchedule(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Options converts the configuration to driver options.
func (c Config) Options() (Options, error) {
	schedule, err := c.Schedule.NewSchedule()
	if err != nil {
		return Options{}, err
	}
	return Options{
		StepSize:           c.StepSize,
		BatchSize:          c.BatchSize,
		MaxIterations:      c.MaxIterations,
		Tolerance:          c.Tolerance,
		Patience:           c.Patience,
		EvaluationInterval: c.EvaluationInterval,
		DisableShuffle:     c.DisableShuffle,
		Schedule:           schedule,
	}, nil
}

// NewPolicy builds the configured update policy.
func (c PolicyConfig) NewPolicy() (UpdatePolicy, error) {
	switch strings.ToLower(c.Type) {
	case "qh", "":
		u, err := NewQHUpdate(c.V, c.Momentum)
		if err != nil {
			return nil, err
		}
		return u, nil
	case "wngrad":
		return NewWNGradUpdate(), nil
	case "vanilla":
		return NewVanillaUpdate(), nil
	case "momentum", "nesterov":
		newMomentum := NewMomentumUpdate
		if strings.EqualFold(c.Type, "nesterov") {
			newMomentum = NewNesterovMomentumUpdate
		}
		u, err := newMomentum(c.Momentum)
		if err != nil {
			return nil, err
		}
		return u, nil
	case "adam":
		u, err := NewAdamUpdate(AdamOptions{
			Beta1:       c.Beta1,
			Beta2:       c.Beta2,
			Eps:         c.Eps,
			WeightDecay: c.WeightDecay,
		})
		if err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, invalidArgument("policy.type", c.Type, "expected one of qh, wngrad, vanilla, momentum, nesterov, adam")
	}
}

// NewSchedule builds the configured step-size schedule.
func (c ScheduleConfig) NewSchedule() (Schedule, error) {
	switch strings.ToLower(c.Type) {
	case "fixed", "":
		return NewFixedSchedule(c.Eta), nil
	case "cosine":
		s, err := NewCosineAnnealingWarmRestarts(c.Period, c.TMult)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "exponential":
		s, err := NewExponentialDecay(c.Rate, c.DecaySteps)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, invalidArgument("schedule.type", c.Type, "expected one of fixed, cosine, exponential")
	}
}

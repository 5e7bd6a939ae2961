package sgd

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadYAML(t *testing.T, yaml string) Config {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(yaml)))
	config, err := LoadConfig(v)
	require.NoError(t, err)
	return config
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultStepSize, config.StepSize)
	assert.Equal(t, DefaultBatchSize, config.BatchSize)
	assert.Equal(t, DefaultMaxIterations, config.MaxIterations)
	assert.Equal(t, DefaultTolerance, config.Tolerance)
	assert.False(t, config.DisableShuffle)

	policy, err := config.Policy.NewPolicy()
	require.NoError(t, err)
	qh, ok := policy.(*QHUpdate)
	require.True(t, ok, "expected *QHUpdate, got %T", policy)
	assert.Equal(t, DefaultQHV, qh.V())
	assert.Equal(t, DefaultQHMomentum, qh.Momentum())

	opts, err := config.Options()
	require.NoError(t, err)
	assert.False(t, opts.DisableShuffle)
	assert.IsType(t, &FixedSchedule{}, opts.Schedule)
	assert.Equal(t, 1.0, opts.Schedule.Eta())
}

func TestConfig_ZeroValueOptionsMatchZeroOptions(t *testing.T) {
	opts, err := Config{}.Options()
	require.NoError(t, err)
	assert.False(t, opts.DisableShuffle)
	assert.Zero(t, opts.StepSize)
	assert.Zero(t, opts.BatchSize)
}

func TestLoadConfig_FromYAML(t *testing.T) {
	config := loadYAML(t, `
stepSize: 0.5
batchSize: 8
maxIterations: 2000
tolerance: -1
patience: 3
disableShuffle: true
policy:
  type: wngrad
schedule:
  type: cosine
  period: 100
  tMult: 2
`)
	assert.Equal(t, 0.5, config.StepSize)
	assert.Equal(t, 8, config.BatchSize)
	assert.Equal(t, 2000, config.MaxIterations)
	assert.Equal(t, -1.0, config.Tolerance)
	assert.Equal(t, 3, config.Patience)
	assert.True(t, config.DisableShuffle)

	policy, err := config.Policy.NewPolicy()
	require.NoError(t, err)
	assert.IsType(t, &WNGradUpdate{}, policy)

	opts, err := config.Options()
	require.NoError(t, err)
	assert.True(t, opts.DisableShuffle)
	cosine, ok := opts.Schedule.(*CosineAnnealingWarmRestarts)
	require.True(t, ok, "expected *CosineAnnealingWarmRestarts, got %T", opts.Schedule)
	assert.Equal(t, 100, cosine.initialPeriodSteps)
	assert.Equal(t, 2.0, cosine.tMult)

	o, err := New(opts)
	require.NoError(t, err)
	assert.Equal(t, 0.5, o.Options().StepSize)
}

func TestPolicyConfig_NewPolicy(t *testing.T) {
	tests := map[string]struct {
		config PolicyConfig
		check  func(t *testing.T, p UpdatePolicy)
	}{
		"vanilla": {
			config: PolicyConfig{Type: "vanilla"},
			check:  func(t *testing.T, p UpdatePolicy) { assert.IsType(t, &VanillaUpdate{}, p) },
		},
		"momentum": {
			config: PolicyConfig{Type: "momentum", Momentum: 0.5},
			check: func(t *testing.T, p UpdatePolicy) {
				m := p.(*MomentumUpdate)
				assert.Equal(t, 0.5, m.Momentum())
				assert.False(t, m.Nesterov())
			},
		},
		"nesterov is case insensitive": {
			config: PolicyConfig{Type: "Nesterov", Momentum: 0.9},
			check:  func(t *testing.T, p UpdatePolicy) { assert.True(t, p.(*MomentumUpdate).Nesterov()) },
		},
		"adam": {
			config: PolicyConfig{Type: "adam", Beta1: 0.8, Beta2: 0.99, Eps: 1e-6, WeightDecay: 0.01},
			check: func(t *testing.T, p UpdatePolicy) {
				a := p.(*AdamUpdate)
				assert.Equal(t, 0.8, a.beta1)
				assert.Equal(t, 0.01, a.weightDecay)
			},
		},
		"empty type is qh": {
			config: PolicyConfig{V: 0.5, Momentum: 0.5},
			check:  func(t *testing.T, p UpdatePolicy) { assert.Equal(t, 0.5, p.(*QHUpdate).V()) },
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := tc.config.NewPolicy()
			require.NoError(t, err)
			tc.check(t, p)
		})
	}
}

func TestConfig_Errors(t *testing.T) {
	var invalid *ErrInvalidArgument

	p, err := PolicyConfig{Type: "adagrad"}.NewPolicy()
	assert.Nil(t, p)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "policy.type", invalid.Name)

	// A failed constructor must not leak a typed nil through the interface.
	p, err = PolicyConfig{Type: "qh", V: 2}.NewPolicy()
	assert.Error(t, err)
	assert.True(t, p == nil)

	s, err := ScheduleConfig{Type: "step"}.NewSchedule()
	assert.Error(t, err)
	assert.True(t, s == nil)

	_, err = Config{Schedule: ScheduleConfig{Type: "exponential", Rate: 2, DecaySteps: 1}}.Options()
	assert.ErrorAs(t, err, &invalid)
}

func TestConfig_ValidateReportsEverySetting(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(`
stepSize: -1
batchSize: -2
policy:
  type: qh
  v: 3
schedule:
  type: cosine
  period: 0
`)))
	_, err := LoadConfig(v)
	require.Error(t, err)

	merr, ok := err.(*multierror.Error)
	require.True(t, ok, "expected *multierror.Error, got %T", err)
	assert.Len(t, merr.Errors, 4)

	var invalid *ErrInvalidArgument
	require.ErrorAs(t, merr.Errors[0], &invalid)
	assert.Equal(t, "stepSize", invalid.Name)
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/weaveworks/promrus"
	"gonum.org/v1/gonum/mat"

	"github.com/n0madic/go-sgd"
	"github.com/n0madic/go-sgd/problems"
)

type problem struct {
	name  string
	f     sgd.SeparableFunction
	start *mat.Dense
}

// Usage: example [config.yaml]
//
// Every key can also be set from the environment, e.g. SGD_POLICY_TYPE=wngrad
// or SGD_STEPSIZE=0.1.
func main() {
	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})
	log.SetOutput(os.Stdout)
	log.AddHook(promrus.MustNewPrometheusHook())

	v := viper.New()
	v.SetEnvPrefix("sgd")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if len(os.Args) > 1 {
		v.SetConfigFile(os.Args[1])
		if err := v.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
	}
	config, err := sgd.LoadConfig(v)
	if err != nil {
		log.Fatal(err)
	}
	opts, err := config.Options()
	if err != nil {
		log.Fatal(err)
	}
	if opts.Metrics, err = sgd.NewMetrics(prometheus.DefaultRegisterer); err != nil {
		log.Fatal(err)
	}
	opt, err := sgd.New(opts)
	if err != nil {
		log.Fatal(err)
	}

	// Test functions with known minima.
	named := []problem{
		{"beale", problems.NewBeale(), mat.NewDense(2, 1, []float64{1, 1})},
		{"three-hump camel", problems.ThreeHumpCamel{}, problems.ThreeHumpCamel{}.InitialPoint()},
		{"levy n.13", problems.LevyN13{}, mat.NewDense(2, 1, []float64{0.9, 1.1})},
	}
	var runs []sgd.Run
	for _, p := range named {
		policy, err := config.Policy.NewPolicy()
		if err != nil {
			log.Fatal(err)
		}
		runs = append(runs, sgd.Run{Function: p.f, Policy: policy, Iterate: p.start})
	}

	// Least squares fit of y = 2 + 3x, one run per shuffling seed.
	predictors := mat.NewDense(20, 2, nil)
	responses := make([]float64, 20)
	for i := range responses {
		x := float64(i) / 10
		predictors.Set(i, 0, 1)
		predictors.Set(i, 1, x)
		responses[i] = 2 + 3*x
	}
	regression, err := problems.NewLinearRegression(predictors, responses, 0)
	if err != nil {
		log.Fatal(err)
	}
	for seed := uint64(1); seed <= 4; seed++ {
		policy, err := config.Policy.NewPolicy()
		if err != nil {
			log.Fatal(err)
		}
		p := problem{fmt.Sprintf("regression seed %d", seed), regression.WithSeed(seed), regression.InitialPoint()}
		named = append(named, p)
		runs = append(runs, sgd.Run{Function: p.f, Policy: policy, Iterate: p.start})
	}

	results, err := opt.OptimizeAll(context.Background(), runs, 4)
	if err != nil {
		log.Fatal(err)
	}
	for i, res := range results {
		fmt.Printf("%-20s %-20s f=%-12.4g iterations=%-6d x=%v\n",
			named[i].name, res.Status, res.Objective, res.Iterations, mat.Formatted(runs[i].Iterate.T()))
	}

	printMetrics()
}

// printMetrics dumps the sgd counters and the log message counts.
func printMetrics() {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		log.Fatal(err)
	}
	for _, family := range families {
		name := family.GetName()
		if !strings.HasPrefix(name, "sgd_") && !strings.HasPrefix(name, "log_messages") {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			value := m.GetCounter().GetValue()
			if m.GetGauge() != nil {
				value = m.GetGauge().GetValue()
			}
			fmt.Printf("%s{%s} %g\n", name, strings.Join(labels, ","), value)
		}
	}
}

package sim

import (
	"math"
	"runtime"
	"sync"

	"github.com/gcrsim/gcrsim/internal/scenario"
)

// EnsembleMember is one run's summary within a Monte-Carlo ensemble.
type EnsembleMember struct {
	RunIndex      int
	FinalCO2PPM   float64
	FinalXCRSupply float64
	NetZeroReached bool
	YearsToNetZero int // -1 if never reached within the horizon
	Aborted        bool
	AbortReason    string
}

// EnsembleResult aggregates a batch of independently seeded runs of the
// same scenario.
type EnsembleResult struct {
	Scenario scenario.Scenario
	Members  []EnsembleMember

	MeanFinalCO2PPM   float64
	StdDevFinalCO2PPM float64

	MeanFinalXCRSupply   float64
	StdDevFinalXCRSupply float64

	NetZeroReachedFraction float64
	AbortedCount           int
}

// RunEnsemble runs the scenario `runs` times concurrently, each with an
// independently derived RNG seed, and aggregates summary statistics across
// the batch. Concurrency is bounded by GOMAXPROCS; each
// member's own Simulation is fully isolated, so members never share mutable
// state and the batch is deterministic given (scenario, runs) regardless of
// scheduling.
func RunEnsemble(base scenario.Scenario, runs int) EnsembleResult {
	if runs <= 0 {
		runs = 1
	}

	members := make([]EnsembleMember, runs)
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup

	for i := 0; i < runs; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			memberScenario := base
			memberScenario.Seed = base.Seed + int64(idx)*1009 // large odd stride keeps member seeds well separated

			members[idx] = runEnsembleMember(idx, memberScenario)
		}(i)
	}
	wg.Wait()

	return aggregateEnsemble(base, members)
}

func runEnsembleMember(idx int, s scenario.Scenario) EnsembleMember {
	sim, err := New(s)
	if err != nil {
		return EnsembleMember{RunIndex: idx, Aborted: true, AbortReason: err.Error(), YearsToNetZero: -1}
	}

	result := sim.Run()

	yearsToNetZero := -1
	if sim.Policy.NetZeroEverReached {
		yearsToNetZero = sim.netZeroReachedYear
	}

	member := EnsembleMember{
		RunIndex:       idx,
		NetZeroReached: sim.Policy.NetZeroEverReached,
		YearsToNetZero: yearsToNetZero,
		Aborted:        result.Aborted,
		AbortReason:    result.AbortReason,
	}
	if n := len(result.Snapshots); n > 0 {
		member.FinalCO2PPM = result.Snapshots[n-1].CO2PPM
		member.FinalXCRSupply = result.Snapshots[n-1].XCRSupply
	}
	return member
}

func aggregateEnsemble(base scenario.Scenario, members []EnsembleMember) EnsembleResult {
	out := EnsembleResult{Scenario: base, Members: members}

	var co2s, supplies []float64
	netZeroCount := 0
	for _, m := range members {
		if m.Aborted {
			out.AbortedCount++
			continue
		}
		co2s = append(co2s, m.FinalCO2PPM)
		supplies = append(supplies, m.FinalXCRSupply)
		if m.NetZeroReached {
			netZeroCount++
		}
	}

	out.MeanFinalCO2PPM, out.StdDevFinalCO2PPM = meanStdDev(co2s)
	out.MeanFinalXCRSupply, out.StdDevFinalXCRSupply = meanStdDev(supplies)
	if len(members) > 0 {
		out.NetZeroReachedFraction = float64(netZeroCount) / float64(len(members))
	}
	return out
}

func meanStdDev(xs []float64) (mean, stddev float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	mean = sum / float64(len(xs))

	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs))
	return mean, math.Sqrt(variance)
}

package main

import (
	"sync"

	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/game"
	"github.com/pthm-cable/petri/telemetry"
)

// Fitness weights.
const (
	survivorPenalty = 10.0 // Charged per fraction of the peak colony left alive
	lingerPenalty   = 0.5  // Charged per fraction of the run spent clearing
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config
	start      float64 // Sim time of the first dose

	mu   sync.Mutex
	last Outcome
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, start float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
		start:      start,
	}
}

// Outcome summarises one evaluation averaged over seeds.
type Outcome struct {
	Cost      float64
	Survivors float64 // Fraction of the peak population alive at the end
	Cleared   float64 // Fraction of seeds whose colony was wiped out
	Kills     float64
}

// Last returns the outcome of the most recent evaluation.
func (fe *FitnessEvaluator) Last() Outcome {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// runResult holds the results from a single simulation run.
type runResult struct {
	clearedTick int32 // Tick the colony died out, or maxTicks
	peak        int
	final       int
	kills       int
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x, fe.start)
	regimen := fe.params.Decode(x)

	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, regimen, s)
		}(i, seed)
	}
	wg.Wait()

	out := Outcome{Cost: regimen.Cost()}
	var total float64
	for _, r := range results {
		total += fe.computeFitness(regimen, r)
		if r.peak > 0 {
			out.Survivors += float64(r.final) / float64(r.peak)
		}
		if r.final == 0 {
			out.Cleared++
		}
		out.Kills += float64(r.kills)
	}
	n := float64(len(fe.seeds))
	out.Survivors /= n
	out.Cleared /= n
	out.Kills /= n
	avg := total / n

	fe.mu.Lock()
	fe.last = out
	fe.mu.Unlock()

	return avg
}

// runSimulation executes a single headless run. It stops early once the
// colony is gone and every dose has fired.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, regimen Regimen, seed int64) runResult {
	g := game.New(cfg, game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: 1,
		StepsPerUpdate: 1,
	})
	defer g.Unload()

	result := runResult{peak: g.ColonySize()}
	g.SetStatsCallback(func(s telemetry.WindowStats) {
		result.peak = max(result.peak, s.Population)
		result.kills += s.Kills
	})

	lastDose := regimen.End(fe.start)
	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
		result.peak = max(result.peak, g.ColonySize())
		if g.ColonySize() == 0 && g.SimTime() > lastDose {
			result.clearedTick = g.Tick()
			return result
		}
	}
	result.clearedTick = fe.maxTicks
	result.final = g.ColonySize()
	return result
}

// copyConfig returns a shallow copy of the base config. Callers may replace
// its slices but must not write through them.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness combines drug cost with penalties for survivors and slow
// clearance.
func (fe *FitnessEvaluator) computeFitness(regimen Regimen, r runResult) float64 {
	fitness := regimen.Cost()
	if r.peak > 0 {
		fitness += survivorPenalty * float64(r.final) / float64(r.peak)
	}
	fitness += lingerPenalty * float64(r.clearedTick) / float64(fe.maxTicks)
	return fitness
}

// Package main searches for the cheapest antibiotic regimen that clears a
// seeded colony, using CMA-ES over headless simulation runs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/petri/bacteria"
	"github.com/pthm-cable/petri/config"
)

// evalRecord is one row of the search log.
type evalRecord struct {
	Eval      int     `csv:"eval"`
	Fitness   float64 `csv:"fitness"`
	Strength  float64 `csv:"strength"`
	Radius    float64 `csv:"radius"`
	Doses     int     `csv:"doses"`
	Spacing   float64 `csv:"spacing"`
	Cost      float64 `csv:"cost"`
	Survivors float64 `csv:"survivors"`
	Cleared   float64 `csv:"cleared"`
	Kills     float64 `csv:"kills"`
}

// evalLog appends records to a CSV file, writing the header once.
type evalLog struct {
	w             io.Writer
	headerWritten bool
}

func (l *evalLog) write(r evalRecord) error {
	records := []evalRecord{r}
	if !l.headerWritten {
		l.headerWritten = true
		return gocsv.Marshal(records, l.w)
	}
	return gocsv.MarshalWithoutHeaders(records, l.w)
}

// formatDuration formats a duration as HHhMMmSSs or MMmSSs for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// checkFlags rejects settings that would leave the search without runs.
func checkFlags(outputDir string, seeds, maxTicks, maxEvals int) error {
	switch {
	case outputDir == "":
		return errors.New("--output is required")
	case seeds < 1:
		return fmt.Errorf("--seeds must be at least 1, got %d", seeds)
	case maxTicks < 1:
		return fmt.Errorf("--max-ticks must be at least 1, got %d", maxTicks)
	case maxEvals < 1:
		return fmt.Errorf("--max-evals must be at least 1, got %d", maxEvals)
	}
	return nil
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 1800, "Simulation length per run in ticks")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 120, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	start := flag.Float64("start", 1, "Sim time of the first dose in seconds")
	species := flag.String("species", "", "Seed a single batch of this species at the origin instead of the config seeds")
	count := flag.Int("count", 50, "Batch size used with --species")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if err := checkFlags(*outputDir, *seeds, *maxTicks, *maxEvals); err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Runs log every dose; keep only warnings.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *species != "" {
		sp, err := bacteria.ParseSpecies(*species)
		if err != nil {
			log.Fatalf("--species: %v", err)
		}
		baseCfg.Colony.Seed = []config.SeedConfig{{Species: sp.String(), Count: *count}}
		baseCfg.Derived.Seeds = []config.Seed{{Species: sp, Count: *count}}
	}
	if len(baseCfg.Derived.Seeds) == 0 {
		log.Fatal("config seeds no bacteria; pass --species or add colony.seed entries")
	}

	params := NewParamVector(baseCfg)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, int32(*maxTicks), evalSeeds, baseCfg, *start)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(dim)))
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
	}

	logPath := filepath.Join(*outputDir, "dosefind_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	evals := &evalLog{w: logFile}

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			regimen := params.Decode(raw)
			out := evaluator.Last()
			if err := evals.write(evalRecord{
				Eval:      evalCount,
				Fitness:   fitness,
				Strength:  regimen.Strength,
				Radius:    regimen.Radius,
				Doses:     regimen.Doses,
				Spacing:   regimen.Spacing,
				Cost:      out.Cost,
				Survivors: out.Survivors,
				Cleared:   out.Cleared,
				Kills:     out.Kills,
			}); err != nil {
				log.Printf("failed to write log row: %v", err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(*maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			fmt.Printf("Eval %d/%d: cost=%.3f survivors=%.0f%% cleared=%.0f%% (best=%.3f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, out.Cost, 100*out.Survivors, 100*out.Cleared, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES dose search with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("search ended: %v", err)
	}
	if bestParams == nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	best := params.Decode(bestParams)
	fmt.Printf("\nSearch complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)
	fmt.Printf("\nBest regimen: %d dose(s) of strength %.3f, radius %.1f, every %.2fs (cost %.4f)\n",
		best.Doses, best.Strength, best.Radius, best.Spacing, best.Cost())

	bestCfg := *baseCfg
	params.ApplyToConfig(&bestCfg, bestParams, *start)
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}

package commands

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/engramlabs/engram/internal/memory"
	"github.com/engramlabs/engram/internal/metrics"
	"github.com/engramlabs/engram/internal/profiler"
	"github.com/engramlabs/engram/internal/worker"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark concurrent search throughput",
	Long: `Seed the memory index with generated phrases and drive concurrent
searches through a worker pool, then print the collected metrics.

Examples:
  # Defaults from config (5000 nodes, 20000 searches)
  engram bench

  # Heavier run with Prometheus-format output
  engram bench --nodes 50000 --searches 100000 --format prometheus

  # Capture profiles
  engram bench --cpu-profile cpu.out --mem-profile mem.out`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

var (
	benchNodes      int
	benchSearches   int
	benchWorkers    int
	benchFormat     string
	benchCPUProfile string
	benchMemProfile string
)

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVar(&benchNodes, "nodes", 0, "entries to seed (default from config)")
	benchCmd.Flags().IntVar(&benchSearches, "searches", 0, "search operations to run (default from config)")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "concurrent workers (0 = GOMAXPROCS)")
	benchCmd.Flags().StringVar(&benchFormat, "format", "json", "metrics output format: json, prometheus")
	benchCmd.Flags().StringVar(&benchCPUProfile, "cpu-profile", "", "write CPU profile to file")
	benchCmd.Flags().StringVar(&benchMemProfile, "mem-profile", "", "write heap profile to file")
}

// benchWords feed the phrase generator. Varied lengths and characters
// spread fingerprints across many buckets.
var benchWords = []string{
	"memory", "resonance", "signal", "trace", "pattern", "recall",
	"fragment", "context", "attention", "engram", "stimulus", "response",
	"gradient", "pathway", "cluster", "synapse", "cortex", "encoding",
}

func benchPhrase(rng *rand.Rand) string {
	n := 2 + rng.Intn(4)
	phrase := benchWords[rng.Intn(len(benchWords))]
	for i := 1; i < n; i++ {
		phrase += " " + benchWords[rng.Intn(len(benchWords))]
	}
	return phrase
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	nodes := cfg.Bench.Nodes
	if benchNodes > 0 {
		nodes = benchNodes
	}
	searches := cfg.Bench.Searches
	if benchSearches > 0 {
		searches = benchSearches
	}
	workers := cfg.Bench.Workers
	if benchWorkers > 0 {
		workers = benchWorkers
	}

	if benchFormat != "json" && benchFormat != "prometheus" {
		return fmt.Errorf("unknown format %q (want json or prometheus)", benchFormat)
	}
	// Config validation catches this combination in the file/env path,
	// but the --searches flag can still pair a positive count with an
	// empty seed set.
	if searches > 0 && nodes <= 0 {
		return fmt.Errorf("nothing to search: %d searches requested over %d seeded nodes", searches, nodes)
	}

	prof, err := profiler.Start(profiler.Config{
		CPUProfile: benchCPUProfile,
		MemProfile: benchMemProfile,
	})
	if err != nil {
		return err
	}

	store, err := memory.New(memory.Config{
		MaxCapacity:         nodes + 1,
		DecayThreshold:      cfg.Memory.DecayThreshold,
		RetentionWindow:     cfg.Memory.RetentionWindow,
		ReinforcementWeight: cfg.Memory.ReinforcementWeight,
	})
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(42))

	seedStart := time.Now()
	queries := make([]memory.Vector, 0, nodes)
	for i := 0; i < nodes; i++ {
		phrase := benchPhrase(rng)
		if _, err := store.Add(phrase, memory.AddOptions{Label: "bench"}); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
		queries = append(queries, memory.Encode(phrase))
	}
	seedDur := time.Since(seedStart)

	pool := worker.NewPool(worker.Config{
		Workers:   workers,
		QueueSize: workers * 4,
	})
	pool.Start()

	// Drain results while submitting so the pool never stalls on a
	// full results channel.
	var failed int64
	var drain sync.WaitGroup
	drain.Add(1)
	go func() {
		defer drain.Done()
		for res := range pool.Results() {
			if res.Error != nil {
				failed++
			}
		}
	}()

	searchStart := time.Now()
	for i := 0; i < searches; i++ {
		query := queries[i%len(queries)]
		task := worker.TaskFunc{
			Name: fmt.Sprintf("search-%d", i),
			Fn: func(ctx context.Context) error {
				_, err := store.Search(query, memory.DefaultTopK)
				return err
			},
		}
		if err := pool.Submit(task); err != nil {
			return err
		}
	}
	pool.StopWait()
	drain.Wait()
	searchDur := time.Since(searchStart)

	if err := prof.Stop(); err != nil {
		return err
	}

	if !isQuiet() {
		fmt.Printf("seeded   %d nodes in %v (%.0f/s)\n",
			nodes, seedDur.Round(time.Millisecond), float64(nodes)/seedDur.Seconds())
		fmt.Printf("searched %d queries in %v (%.0f/s, %d workers, %d failed)\n",
			searches, searchDur.Round(time.Millisecond),
			float64(searches)/searchDur.Seconds(), pool.Stats().Workers, failed)
		fmt.Println()
	}

	switch benchFormat {
	case "prometheus":
		fmt.Print(metrics.Global().ExportPrometheus())
	default:
		out, err := metrics.Global().Export()
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	}

	return nil
}

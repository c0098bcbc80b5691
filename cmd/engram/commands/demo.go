package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/engramlabs/engram/internal/memory"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Seed the memory index and run example queries",
	Long: `Seed the memory index with sample phrases, run a few queries against
it, reinforce the best match of each query, and print a health report.

Useful for a quick feel of how resonance ranking and reinforcement
behave.

Examples:
  # Run with defaults
  engram demo

  # Smaller store, forcing eviction during seeding
  engram demo --capacity 4`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

var demoCapacity int

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().IntVar(&demoCapacity, "capacity", 0, "override memory.max_capacity")
}

var demoPhrases = []string{
	"I love working on AI projects",
	"The weather is beautiful today",
	"This algorithm is fascinating",
	"I need to finish my homework",
	"AI and machine learning are the future",
	"Today was a productive day",
}

var demoQueries = []string{
	"AI and technology",
	"beautiful weather",
	"working on projects",
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	storeCfg := memory.Config{
		MaxCapacity:         cfg.Memory.MaxCapacity,
		DecayThreshold:      cfg.Memory.DecayThreshold,
		RetentionWindow:     cfg.Memory.RetentionWindow,
		ReinforcementWeight: cfg.Memory.ReinforcementWeight,
	}
	if demoCapacity > 0 {
		storeCfg.MaxCapacity = demoCapacity
	}

	store, err := memory.New(storeCfg)
	if err != nil {
		return err
	}

	fmt.Println("Seeding memories...")
	for _, phrase := range demoPhrases {
		id, err := store.Add(phrase, memory.AddOptions{Label: "demo"})
		if err != nil {
			return fmt.Errorf("adding %q: %w", phrase, err)
		}
		fmt.Printf("  added %-45q id=%d\n", phrase, id)
	}

	for _, query := range demoQueries {
		hits, err := store.SearchText(query, 3)
		if err != nil {
			return fmt.Errorf("searching %q: %w", query, err)
		}

		fmt.Printf("\nQuery: %q\n", query)
		if len(hits) == 0 {
			fmt.Println("  no bucket-mates for this fingerprint")
			continue
		}
		for _, h := range hits {
			fmt.Printf("  %8.4f  %s\n", h.Score, h.Text)
		}

		// Reinforce the best match, like an agent confirming relevance.
		if ok, err := store.ReinforceByID(hits[0].ID, cfg.Memory.StrengthenAmount); err != nil {
			return err
		} else if ok && !isQuiet() {
			fmt.Printf("  reinforced id=%d\n", hits[0].ID)
		}
	}

	fmt.Println("\nHealth report:")
	health, err := json.MarshalIndent(store.Health(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(health))

	fmt.Println("\nCounters:")
	stats, err := json.MarshalIndent(store.Stats(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(stats))

	return nil
}

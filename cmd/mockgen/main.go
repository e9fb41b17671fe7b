package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"crm-insights/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", engine.ScenarioGrowth, "Scenario to generate: "+strings.Join(engine.Scenarios(), ", "))
	out := flag.String("out", "./data/snapshot.json", "Output snapshot file")
	months := flag.Int("months", 12, "Months of revenue history")
	customers := flag.Int("customers", 40, "Number of customers to generate")
	leads := flag.Int("leads", 10, "Number of leads to generate")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:  *scenario,
		Months:    *months,
		Customers: *customers,
		Leads:     *leads,
		Seed:      *seed,
		Now:       time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (Months: %d, Customers: %d, Seed: %d) to %s...\n", cfg.Scenario, cfg.Months, cfg.Customers, cfg.Seed, *out)

	f, err := engine.Generate(cfg)
	if err != nil {
		fmt.Printf("Failed to generate mock data: %v\n", err)
		os.Exit(1)
	}
	if err := engine.Save(*out, f); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}

package main

import (
	"fmt"
	"os"

	"crm-insights/cmd/crm-insights/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

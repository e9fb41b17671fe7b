package commands

import (
	"fmt"

	"crm-insights/internal/snapshot"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the snapshot document",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := snapshot.SchemaJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "crm-insights %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	},
}

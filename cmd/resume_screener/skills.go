package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/observability"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the skill catalog, including skills added in the config",
	Args:  cobra.NoArgs,
	RunE:  runSkills,
}

var skillsJSON bool

func init() {
	skillsCmd.Flags().BoolVar(&skillsJSON, "as-json", false, "Print the catalog as a JSON array")
	rootCmd.AddCommand(skillsCmd)
}

func runSkills(cmd *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	names := a.catalog().Names()
	if skillsJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(names)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSkills(names)
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/storelens/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect detection, mapping and finance rules",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rules as YAML",
	Long: `Show prints the built-in rules merged with the rules_file overlay, if any.
The output is a valid rules file and can be edited and passed back with --rules.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flagRules
		if path == "" && cfg != nil {
			path = cfg.RulesFile
		}
		r, err := rules.LoadFile(path)
		if err != nil {
			return err
		}
		b, err := r.YAML()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesShowCmd)
}

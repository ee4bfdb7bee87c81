package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/storelens/internal/export"
	"github.com/KaramelBytes/storelens/internal/logging"
)

var (
	anaInput      inputFlags
	anaFormat     string
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze an order export and print the full result",
	Long: `Analyze loads an order export, detects the store type, maps and cleans the columns and
prints the analysis. Use --format json|yaml|toml for the structured result, or md|txt for the
rendered report. xlsx output needs --output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		sess, err := anaInput.analyzed(cmd, args[0])
		if err != nil {
			return err
		}
		format := export.Extension(anaFormat)
		if format == export.FormatXLSX && anaOutputPath == "" {
			return fmt.Errorf("--format xlsx requires --output")
		}
		data, err := export.EncodeAnalysis(sess.Result(), format, sess.ReportOptions())
		if err != nil {
			return err
		}
		logging.WithFields(cmd.Context(), "session_id", sess.ID).Info("analyze finished",
			"file", args[0],
			"format", format,
			"duration_ms", time.Since(start).Milliseconds(),
		)

		if anaOutputPath != "" {
			if err := export.SafeWriteFile(anaOutputPath, data); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaInput.bind(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", export.FormatMarkdown, "output format: md | txt | json | yaml | toml | xlsx")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/storelens/internal/export"
	"github.com/KaramelBytes/storelens/internal/report"
)

var (
	repInput      inputFlags
	repFormat     string
	repOutputPath string
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Render the localized business report for an order export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := repInput.analyzed(cmd, args[0])
		if err != nil {
			return err
		}
		out, err := sess.Report(cmd.Context(), "", export.Extension(repFormat))
		if err != nil {
			return err
		}
		if repOutputPath != "" {
			if err := export.SafeWriteFile(repOutputPath, []byte(out)); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", repOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	repInput.bind(reportCmd)
	reportCmd.Flags().StringVarP(&repFormat, "format", "f", report.FormatMarkdown, "report format: md | txt")
	reportCmd.Flags().StringVarP(&repOutputPath, "output", "o", "", "optional path to write the report")
}

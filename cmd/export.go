package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/storelens/internal/export"
)

var (
	expInput  inputFlags
	expFormat string
	expTarget string
	expDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the analysis or the loaded table to a file",
	Long: `Export writes into the export directory (config export_dir, or --dir) with a timestamped name.
The analysis target accepts json, yaml, toml, xlsx, md and txt; the table target accepts csv, json and xlsx.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		dir := expDir
		if dir == "" {
			dir = c.ExportDir
		}

		var path string
		switch strings.ToLower(expTarget) {
		case "analysis":
			sess, err := expInput.analyzed(cmd, args[0])
			if err != nil {
				return err
			}
			path, err = export.New(dir, sess.ReportOptions()).ExportAnalysis(sess.Result(), expFormat)
			if err != nil {
				return err
			}
		case "table":
			sess, err := expInput.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path, err = export.New(dir, sess.ReportOptions()).ExportTable(sess.Table(), expFormat)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown --target: %s (use analysis or table)", expTarget)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	expInput.bind(exportCmd)
	exportCmd.Flags().StringVarP(&expFormat, "format", "f", export.FormatJSON, "export format")
	exportCmd.Flags().StringVar(&expTarget, "target", "analysis", "what to export: analysis | table")
	exportCmd.Flags().StringVar(&expDir, "dir", "", "output directory (default config export_dir)")
}

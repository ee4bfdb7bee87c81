package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/storelens/internal/export"
	"github.com/KaramelBytes/storelens/internal/logging"
)

var (
	abInput     inputFlags
	abFormat    string
	abOutputDir string
	abKeepGoing bool
	abQuiet     bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple order exports with progress and optional output directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		format := export.Extension(abFormat)
		if format == export.FormatXLSX && abOutputDir == "" {
			return fmt.Errorf("--format xlsx requires --output-dir")
		}
		if abOutputDir != "" {
			if err := os.MkdirAll(abOutputDir, 0o755); err != nil {
				return err
			}
		}
		opt, err := abInput.options()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		total := len(files)
		var failed []string
		start := time.Now()
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			sess, err := abInput.openWith(cmd.Context(), opt, path)
			if err == nil {
				_, err = sess.Analyze(cmd.Context())
			}
			var data []byte
			if err == nil {
				data, err = export.EncodeAnalysis(sess.Result(), format, sess.ReportOptions())
			}
			if err != nil {
				if !abKeepGoing {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", filepath.Base(path), err)
				failed = append(failed, path)
				continue
			}

			if abOutputDir == "" {
				if !abQuiet {
					fmt.Fprintln(out, string(data))
				}
				continue
			}
			base := filepath.Base(path)
			stem, suffix := strings.TrimSuffix(base, filepath.Ext(base)), ".report."+format
			outFile := uniquePath(abOutputDir, stem, suffix)
			if outFile != filepath.Join(abOutputDir, stem+suffix) && !abQuiet {
				fmt.Fprintf(out, "⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(outFile))
			}
			if err := export.SafeWriteFile(outFile, data); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", outFile)
			}
		}

		logging.WithFields(cmd.Context(), "command", "analyze-batch").Info("batch finished",
			"files", total,
			"failed", len(failed),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d file(s) failed", len(failed), total)
		}
		if !abQuiet {
			fmt.Fprintf(out, "✓ Analyzed %d file(s)\n", total)
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, drops
// duplicates and sorts the result.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// uniquePath returns dir/base+suffix, or dir/base__N+suffix for the first
// N >= 2 that does not exist yet.
func uniquePath(dir, base, suffix string) string {
	path := filepath.Join(dir, base+suffix)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, suffix))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abInput.bind(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", export.FormatMarkdown, "output format: md | txt | json | yaml | toml | xlsx")
	analyzeBatchCmd.Flags().StringVarP(&abOutputDir, "output-dir", "o", "", "directory for per-file reports (stdout if omitted)")
	analyzeBatchCmd.Flags().BoolVar(&abKeepGoing, "keep-going", false, "continue with the next file after a failure")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}

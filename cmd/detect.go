package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/storelens/internal/export"
	"github.com/KaramelBytes/storelens/internal/logging"
	"github.com/KaramelBytes/storelens/internal/storetype"
)

var (
	detInput inputFlags
	detJSON  bool
)

var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Detect the store type of an order export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := detInput.open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		det := sess.Detection()
		out := cmd.OutOrStdout()
		if detJSON {
			b, err := export.PrettyJSON(det)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}

		lang := sess.Language()
		fmt.Fprintf(out, "Store type: %s (%s)\n", sess.Category().DisplayName(lang), sess.Category())
		if sess.Category() != det.Category {
			fmt.Fprintf(out, "  detected: %s, overridden by --store-type\n", det.Category)
		}
		cats := storetype.All()
		sort.SliceStable(cats, func(i, j int) bool { return det.Confidence[cats[i]] > det.Confidence[cats[j]] })
		fmt.Fprintln(out, "Confidence:")
		shown := 0
		for _, c := range cats {
			if det.Confidence[c] <= 0 {
				continue
			}
			fmt.Fprintf(out, "  %-14s %5.1f%%\n", c, det.Confidence[c])
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "  no category evidence; using general")
		}
		logging.WithFields(cmd.Context(), "command", "detect").Debug("detection scores", "scores", det.Scores)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detInput.bind(detectCmd)
	detectCmd.Flags().BoolVar(&detJSON, "json", false, "print the detection result as JSON")
}

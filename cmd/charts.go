package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/storelens/internal/charts"
	"github.com/KaramelBytes/storelens/internal/export"
)

var chInput inputFlags

var chartsCmd = &cobra.Command{
	Use:   "charts <file> [kind...]",
	Short: "Print chart data series as JSON",
	Long: fmt.Sprintf(`Charts prints renderer-neutral chart data (labels and series) for the analysis.
Without kinds every chart is printed. Kinds: %s.`, strings.Join(charts.Kinds(), ", ")),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := args[1:]
		if len(kinds) == 0 {
			kinds = charts.Kinds()
		}
		sess, err := chInput.analyzed(cmd, args[0])
		if err != nil {
			return err
		}
		out := make([]charts.Chart, 0, len(kinds))
		for _, k := range kinds {
			c, err := sess.Chart(cmd.Context(), k, "")
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		b, err := export.PrettyJSON(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chInput.bind(chartsCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/storelens/internal/export"
	"github.com/KaramelBytes/storelens/internal/schema"
)

var (
	mapInput inputFlags
	mapJSON  bool
)

var mapCmd = &cobra.Command{
	Use:   "map <file>",
	Short: "Show and validate the column mapping for an order export",
	Long: `Map auto-detects which column holds each canonical field (order id, date, amount, ...).
Use --map field=column to override entries and check the result before analyzing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := mapInput.open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		v, err := sess.Validate()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if mapJSON {
			b, err := export.PrettyJSON(struct {
				Mapping    schema.Mapping `json:"mapping"`
				Validation any            `json:"validation"`
			}{sess.Mapping(), v})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		} else {
			m := sess.Mapping()
			fmt.Fprintf(out, "Mapping for %s (%d rows, %d columns):\n", args[0], sess.Table().NumRows(), sess.Table().NumCols())
			for _, f := range schema.Fields() {
				col, ok := m.Column(f)
				if !ok {
					continue
				}
				fmt.Fprintf(out, "  %-18s ← %s\n", f, col)
			}
			if m.SynthesizeTotal {
				fmt.Fprintf(out, "  %-18s ← unit_price × quantity\n", schema.TotalAmount)
			}
			if unmapped := unmappedColumns(sess.Table().Columns, m); len(unmapped) > 0 {
				fmt.Fprintf(out, "Unmapped columns: %v\n", unmapped)
			}
		}
		printValidation(cmd, v)
		if !v.Valid {
			return fmt.Errorf("mapping is not valid for analysis (%d error(s))", len(v.Errors))
		}
		if !mapJSON {
			fmt.Fprintln(out, "✓ Mapping is valid")
		}
		return nil
	},
}

func unmappedColumns(cols []string, m schema.Mapping) []string {
	var out []string
	for _, c := range cols {
		if _, ok := m.FieldFor(c); !ok {
			out = append(out, c)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(mapCmd)
	mapInput.bind(mapCmd)
	mapCmd.Flags().BoolVar(&mapJSON, "json", false, "print mapping and validation as JSON")
}

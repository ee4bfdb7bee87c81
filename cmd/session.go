package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/storelens/internal/mapper"
	"github.com/KaramelBytes/storelens/internal/session"
	"github.com/KaramelBytes/storelens/internal/storetype"
)

// inputFlags are the ingestion and mapping flags shared by the commands
// that load a file.
type inputFlags struct {
	delimiter  string
	sheetName  string
	sheetIndex int
	maxRows    int
	storeType  string
	mapping    []string
}

func (f *inputFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (sniffed if omitted)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 0, "maximum rows to read (0 = config max_rows)")
	cmd.Flags().StringVar(&f.storeType, "store-type", "", "skip detection and use this store type")
	cmd.Flags().StringArrayVar(&f.mapping, "map", nil, "override a column mapping as field=column (repeatable; empty column unmaps)")
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

// options resolves session options from the config and the flags.
func (f *inputFlags) options() (session.Options, error) {
	c, err := requireConfig()
	if err != nil {
		return session.Options{}, err
	}
	opt, err := session.OptionsFromConfig(c)
	if err != nil {
		return session.Options{}, err
	}
	if opt.Load.Delimiter, err = parseDelimiter(f.delimiter); err != nil {
		return session.Options{}, err
	}
	opt.Load.SheetName = strings.TrimSpace(f.sheetName)
	if f.sheetIndex > 0 {
		opt.Load.SheetIndex = f.sheetIndex
	}
	if f.maxRows > 0 {
		opt.Load.MaxRows = f.maxRows
	}
	return opt, nil
}

// open loads path into a new session and applies --store-type and --map.
func (f *inputFlags) open(ctx context.Context, path string) (*session.Session, error) {
	opt, err := f.options()
	if err != nil {
		return nil, err
	}
	return f.openWith(ctx, opt, path)
}

func (f *inputFlags) openWith(ctx context.Context, opt session.Options, path string) (*session.Session, error) {
	overrides, err := mapper.ParseOverrides(f.mapping)
	if err != nil {
		return nil, err
	}
	var category storetype.Category
	if f.storeType != "" {
		if category, err = storetype.Parse(f.storeType); err != nil {
			return nil, err
		}
	}
	sess, err := session.NewWithOptions(opt)
	if err != nil {
		return nil, err
	}
	if err := sess.Load(ctx, path); err != nil {
		return nil, err
	}
	if category != "" {
		if err := sess.SetCategory(category); err != nil {
			return nil, err
		}
	}
	if len(overrides) > 0 {
		if err := sess.Override(ctx, overrides); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// analyzed opens path and runs the analysis, printing validation problems
// before failing on an invalid mapping.
func (f *inputFlags) analyzed(cmd *cobra.Command, path string) (*session.Session, error) {
	sess, err := f.open(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	if _, err := sess.Analyze(cmd.Context()); err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			printValidation(cmd, verr.Result)
		}
		return nil, err
	}
	return sess, nil
}

func printValidation(cmd *cobra.Command, v mapper.ValidationResult) {
	w := cmd.ErrOrStderr()
	for _, e := range v.Errors {
		fmt.Fprintf(w, "  ✗ %s\n", e)
	}
	for _, warn := range v.Warnings {
		fmt.Fprintf(w, "  ⚠ %s\n", warn)
	}
}

package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/r9s-ai/yarn-indent/internal/preprocess"
	"github.com/spf13/cobra"
)

// ErrUnbalanced is returned by check --strict when blocks are left open.
var ErrUnbalanced = errors.New("unbalanced indentation")

type checkOptions struct {
	strict   bool
	tabWidth int
}

func newCheckCmd(rt *runtime) *cobra.Command {
	checkOpts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Report the indentation blocks of a Yarn script",
		Args:  maxOnePath("check"),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pathArg(args)
			src, err := readSource(path, rt.opts.Stdin)
			if err != nil {
				return err
			}

			tabWidth := rt.cfg.TabWidth
			if cmd.Flags().Changed("tab-width") {
				tabWidth = checkOpts.tabWidth
			}
			st := preprocess.Run(string(src), preprocess.Options{TabWidth: tabWidth}).Stats
			rt.logger.Debug("checked", slog.String("source", path), slog.Bool("balanced", st.Open == 0))

			_, err = fmt.Fprintf(
				rt.opts.Stdout,
				"lines=%d indents=%d dedents=%d open=%d max_stack=%d\n",
				st.Lines, st.Indents, st.Dedents, st.Open, st.MaxStack,
			)
			if err != nil {
				return err
			}
			if checkOpts.strict && st.Open > 0 {
				return fmt.Errorf("%w: %d block(s) left open in %s", ErrUnbalanced, st.Open, path)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&checkOpts.strict, "strict", false, "fail when blocks are left open at end of input")
	fs.IntVar(&checkOpts.tabWidth, "tab-width", 4, "number of spaces a tab expands to")
	return cmd
}

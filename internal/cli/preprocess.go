package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/r9s-ai/yarn-indent/internal/preprocess"
	"github.com/spf13/cobra"
)

type preprocessFlags struct {
	debug       bool
	output      string
	write       bool
	tabWidth    int
	closeBlocks bool
}

func newPreprocessCmd(rt *runtime) *cobra.Command {
	popts := &preprocessFlags{}
	cmd := &cobra.Command{
		Use:   "preprocess [file|-]",
		Short: "Insert indent and dedent markers into a Yarn script",
		Long: `Insert indent and dedent markers into a Yarn script.

Lines are normalized first: CRLF and CR become LF and every tab becomes
--tab-width spaces. A block opens when the line after an option line ("->")
is indented deeper than it; the indent marker is appended to the option line.
When indentation drops back, one dedent marker per closed block is appended
to the last line of the block.

Examples:
  yarn-indent preprocess dialogue.yarn -o processed.yarn
  yarn-indent preprocess --debug < dialogue.yarn`,
		Args: maxOnePath("preprocess"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreprocess(cmd, rt, popts, args)
		},
	}
	bindPreprocessFlags(cmd, popts)
	return cmd
}

func bindPreprocessFlags(cmd *cobra.Command, popts *preprocessFlags) {
	fs := cmd.Flags()
	fs.BoolVarP(&popts.debug, "debug", "d", false, "use printable { and } markers")
	fs.StringVarP(&popts.output, "output", "o", "", "write result to this file instead of stdout")
	fs.BoolVarP(&popts.write, "write", "w", false, "write result back to the input file")
	fs.IntVar(&popts.tabWidth, "tab-width", 4, "number of spaces a tab expands to")
	fs.BoolVar(&popts.closeBlocks, "close-blocks", false, "close blocks still open at end of input")
	cmd.MarkFlagsMutuallyExclusive("write", "output")
}

func runPreprocess(cmd *cobra.Command, rt *runtime, popts *preprocessFlags, args []string) error {
	path := pathArg(args)
	src, err := readSource(path, rt.opts.Stdin)
	if err != nil {
		return err
	}

	opts, output := resolvePreprocessOptions(cmd, rt, popts)
	res := preprocess.Run(string(src), opts)

	logger := rt.logger.With(slog.String("source", path))
	logger.Debug("preprocessed",
		slog.Int("lines", res.Stats.Lines),
		slog.Int("indents", res.Stats.Indents),
		slog.Int("dedents", res.Stats.Dedents),
		slog.Int("max_stack", res.Stats.MaxStack),
	)
	if res.Stats.Open > 0 {
		logger.Warn("blocks left open at end of input", slog.Int("open", res.Stats.Open))
	}

	switch {
	case popts.write:
		return writeOutputInPlace(path, src, res.Text)
	case output != "" && output != "-":
		logger.Info("writing output", slog.String("path", output))
		return writeOutput(output, res.Text)
	default:
		_, err = io.WriteString(rt.opts.Stdout, res.Text)
		return err
	}
}

// resolvePreprocessOptions layers explicitly set flags over the loaded config.
func resolvePreprocessOptions(cmd *cobra.Command, rt *runtime, popts *preprocessFlags) (preprocess.Options, string) {
	opts := preprocess.Options{
		IndentMarker: rt.cfg.IndentMarker(),
		DedentMarker: rt.cfg.DedentMarker(),
		Debug:        rt.cfg.Debug,
		TabWidth:     rt.cfg.TabWidth,
		CloseBlocks:  rt.cfg.CloseBlocks,
	}
	output := rt.cfg.Output

	fs := cmd.Flags()
	if fs.Changed("debug") {
		opts.Debug = popts.debug
	}
	if fs.Changed("tab-width") {
		opts.TabWidth = popts.tabWidth
	}
	if fs.Changed("close-blocks") {
		opts.CloseBlocks = popts.closeBlocks
	}
	if fs.Changed("output") {
		output = strings.TrimSpace(popts.output)
	}
	return opts, output
}

func maxOnePath(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return fmt.Errorf("%s accepts at most one file path", name)
		}
		return nil
	}
}

func pathArg(args []string) string {
	if len(args) == 1 {
		if path := strings.TrimSpace(args[0]); path != "" {
			return path
		}
	}
	return "-"
}

func readSource(path string, in io.Reader) ([]byte, error) {
	if path == "-" {
		src, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return src, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", path, err)
	}
	return src, nil
}

func writeOutput(path string, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write file %q: %w", path, err)
	}
	return nil
}

func writeOutputInPlace(path string, src []byte, text string) error {
	if path == "-" {
		return errors.New("--write requires a file path")
	}
	if text == string(src) {
		return nil
	}
	mode := os.FileMode(0o644)
	if st, statErr := os.Stat(path); statErr == nil {
		mode = st.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return fmt.Errorf("write file %q: %w", path, err)
	}
	return nil
}

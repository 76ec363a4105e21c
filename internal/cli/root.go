package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/r9s-ai/yarn-indent/internal/config"
	"github.com/r9s-ai/yarn-indent/internal/logging"
	"github.com/spf13/cobra"
)

type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

type Options struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	BuildInfo BuildInfo
}

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	logFile    string
}

// runtime is the per-invocation state shared by the subcommands.
type runtime struct {
	opts   Options
	flags  globalFlags
	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
}

func Run(args []string, opts Options) error {
	rt := newRuntime(normalizeOptions(opts))
	defer rt.close()
	root := newRootCmd(rt)
	root.SetArgs(args)
	return root.Execute()
}

func normalizeOptions(opts Options) Options {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return opts
}

func newRuntime(opts Options) *runtime {
	return &runtime{
		opts:   opts,
		cfg:    config.Defaults(),
		logger: logging.Discard(),
	}
}

// setup loads the config file and builds the logger. Logging flags given on
// the command line win over the config file and the environment.
func (rt *runtime) setup() error {
	cfg, err := config.Load(rt.flags.configPath)
	if err != nil {
		return err
	}
	if rt.flags.logLevel != "" {
		cfg.Logging.Level = rt.flags.logLevel
	}
	if rt.flags.logFormat != "" {
		cfg.Logging.Format = rt.flags.logFormat
	}
	if rt.flags.logFile != "" {
		cfg.Logging.File = rt.flags.logFile
	}
	rt.cfg = cfg

	rt.close()
	rt.logger, rt.closer = logging.New(rt.opts.Stderr, logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	return nil
}

func (rt *runtime) close() {
	if rt.closer != nil {
		_ = rt.closer.Close()
		rt.closer = nil
	}
}

func newRootCmd(rt *runtime) *cobra.Command {
	popts := &preprocessFlags{}
	cmd := &cobra.Command{
		Use:   "yarn-indent [file|-]",
		Short: "Rewrite Yarn script indentation into explicit block markers",
		Long: `yarn-indent turns the significant indentation of Yarn dialogue scripts
into indent and dedent marker characters that a grammar can match like braces.

Run without a subcommand it behaves like "yarn-indent preprocess".`,
		Args:          maxOnePath("yarn-indent"),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreprocess(cmd, rt, popts, args)
		},
	}
	cmd.SetIn(rt.opts.Stdin)
	cmd.SetOut(rt.opts.Stdout)
	cmd.SetErr(rt.opts.Stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&rt.flags.configPath, "config", "", "path to a YAML or TOML config file")
	pf.StringVar(&rt.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&rt.flags.logFormat, "log-format", "", "log format: console or json")
	pf.StringVar(&rt.flags.logFile, "log-file", "", "also write JSON logs to this rotated file")
	bindPreprocessFlags(cmd, popts)

	cmd.AddCommand(
		newPreprocessCmd(rt),
		newCheckCmd(rt),
		newVersionCmd(rt.opts),
	)
	return cmd
}

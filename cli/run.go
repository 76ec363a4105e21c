package cli

import internalcli "github.com/r9s-ai/yarn-indent/internal/cli"

type BuildInfo = internalcli.BuildInfo
type Options = internalcli.Options

var ErrUnbalanced = internalcli.ErrUnbalanced

func Run(args []string, opts Options) error {
	return internalcli.Run(args, opts)
}

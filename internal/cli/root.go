package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/logger"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	debug      bool
	configFile string
	workspace  string

	closeLog func() error
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "biblioteca",
		Short:        "Fetch examples, request scripts and the book library API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			root, err := resolveWorkspaceRoot(opts.workspace)
			if err != nil {
				return err
			}

			// Logging is best-effort; a read-only workspace must not block commands.
			cleanup, _ := logger.Setup(logger.Config{Root: root, Debug: opts.debug})
			opts.closeLog = cleanup
			if opts.debug {
				if err := logger.IsReady(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "debug log unavailable: %v\n", err)
				} else {
					fmt.Fprintf(cmd.ErrOrStderr(), "debug log: %s\n", logger.Path())
				}
			}
			logger.L().Debug("cli.start", "workspace", root, "args", os.Args[1:])
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			logger.L().Debug("cli.done",
				"command", cmd.CommandPath(),
				"elapsed_ms", time.Since(logger.InitTime()).Milliseconds(),
			)
			if opts.closeLog != nil {
				return opts.closeLog()
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable verbose logging to .biblioteca/logs/biblioteca.log")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: biblioteca.yaml in the workspace)")
	cmd.PersistentFlags().StringVarP(&opts.workspace, "workspace", "w", "", "workspace root (optional; autodetected if omitted)")

	cmd.AddCommand(
		getCmd(opts),
		postFormCmd(opts),
		cloneCmd(opts),
		runCmd(opts),
		validateCmd(opts),
		scriptsCmd(opts),
		serveCmd(opts),
		livrosCmd(opts),
		tuiCmd(opts),
		initCmd(),
		versionCmd(),
	)
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/logger"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ui/tui"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/usecase"
)

func tuiCmd(opts *rootOptions) *cobra.Command {
	var vars []string

	c := &cobra.Command{
		Use:   "tui",
		Short: "Browse and run request scripts interactively",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(opts)
			if err != nil {
				return err
			}
			flagVars, err := parseVars(vars)
			if err != nil {
				return err
			}

			return tui.Run(tui.Deps{
				Root:    ws.root,
				Scripts: ws.scripts,
				Runner:  usecase.NewRunScript(ws.scripts, ws.runner, ws.store, usecase.WithLogger(logger.L())),
				Vars:    domain.Merge(ws.baseVars(), flagVars),
				Logger:  logger.L(),
				Debug:   opts.debug,
			})
		},
	}

	c.Flags().StringArrayVar(&vars, "var", nil, "variable key=value (repeatable)")
	return c
}

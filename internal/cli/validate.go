package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/usecase"
)

func validateCmd(opts *rootOptions) *cobra.Command {
	var script string
	var vars []string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate a request script (no HTTP)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(opts)
			if err != nil {
				return err
			}

			scriptPath, err := resolveScriptPath(ws, script)
			if err != nil {
				return err
			}

			flagVars, err := parseVars(vars)
			if err != nil {
				return err
			}

			s, err := usecase.NewValidateScript(ws.scripts).Execute(cmd.Context(), scriptPath, ws.baseVars(), flagVars)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d requests)\n", styles.OK.Render("OK"), s.Name, len(s.Requests))
			return nil
		},
	}

	c.Flags().StringVarP(&script, "script", "s", "", "Script name or path (required)")
	c.Flags().StringArrayVar(&vars, "var", nil, "variable key=value (repeatable)")

	_ = c.MarkFlagRequired("script")
	return c
}

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/fsworkspace"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/usecase"
)

func initCmd() *cobra.Command {
	var path, baseURL, dsn string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a workspace with a config file and example scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}

			ini := fsworkspace.NewInitializer(
				fsworkspace.WithBaseURL(baseURL),
				fsworkspace.WithDSN(dsn),
			)
			if err := usecase.NewInitWorkspace(ini).Execute(root, force); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s workspace ready at %s\n", styles.OK.Render("✓"), root)
			fmt.Fprintln(out, styles.Faint.Render("next: biblioteca serve  |  biblioteca run -s exemplos"))
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", ".", "directory to initialize")
	c.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	c.Flags().StringVar(&baseURL, "base-url", "", "client.base_url written to biblioteca.yaml")
	c.Flags().StringVar(&dsn, "dsn", "", "database.dsn written to biblioteca.yaml")
	return c
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/bookclient"
)

type livrosOptions struct {
	root    *rootOptions
	baseURL string
	format  string
}

func livrosCmd(opts *rootOptions) *cobra.Command {
	lo := &livrosOptions{root: opts}

	c := &cobra.Command{
		Use:   "livros",
		Short: "Manage books through a running API",
	}

	c.PersistentFlags().StringVar(&lo.baseURL, "base-url", "", "API base URL (overrides client.base_url)")
	c.PersistentFlags().StringVar(&lo.format, "format", formatPretty, "Output format: pretty|json")

	c.AddCommand(
		livrosListCmd(lo),
		livrosGetCmd(lo),
		livrosAddCmd(lo),
		livrosUpdateCmd(lo),
		livrosDeleteCmd(lo),
		livrosHealthCmd(lo),
	)
	return c
}

func (lo *livrosOptions) client() (*bookclient.Client, error) {
	if err := checkFormat(lo.format); err != nil {
		return nil, err
	}
	root, err := resolveWorkspaceRoot(lo.root.workspace)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(lo.root, root)
	if err != nil {
		return nil, err
	}

	base := cfg.Client.BaseURL
	if lo.baseURL != "" {
		base = lo.baseURL
	}
	if _, err := resolveURL(base, "/", "/"); err != nil {
		return nil, err
	}

	return bookclient.New(base,
		bookclient.WithTimeout(cfg.Client.Timeout),
		bookclient.WithUserAgent(cfg.Client.UserAgent),
	), nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.OpError{
			Op:   "cli.livros",
			Kind: domain.KindValidation,
			Err:  fmt.Errorf("invalid book id %q", raw),
		}
	}
	return id, nil
}

func livrosListCmd(lo *livrosOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := lo.client()
			if err != nil {
				return err
			}
			books, err := api.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if lo.format == formatJSON {
				return writeJSON(out, books)
			}
			if len(books) == 0 {
				fmt.Fprintln(out, "(nenhum livro cadastrado)")
				return nil
			}
			fmt.Fprintln(out, booksTable(books))
			return nil
		},
	}
}

func livrosGetCmd(lo *livrosOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api, err := lo.client()
			if err != nil {
				return err
			}
			b, err := api.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return lo.printBook(cmd, b)
		},
	}
}

func livrosAddCmd(lo *livrosOptions) *cobra.Command {
	var in domain.BookInput
	var stock int
	var asForm bool

	c := &cobra.Command{
		Use:   "add",
		Short: "Register a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("estoque") {
				in.Estoque = &stock
			}
			api, err := lo.client()
			if err != nil {
				return err
			}

			create := api.Create
			if asForm {
				create = api.CreateForm
			}
			b, err := create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return lo.printBook(cmd, b)
		},
	}

	c.Flags().StringVar(&in.Titulo, "titulo", "", "title")
	c.Flags().StringVar(&in.Autor, "autor", "", "author")
	c.Flags().StringVar(&in.ISBN, "isbn", "", "ISBN (unique)")
	c.Flags().IntVar(&stock, "estoque", domain.DefaultStock, "copies in stock")
	c.Flags().BoolVar(&asForm, "form", false, "send as application/x-www-form-urlencoded instead of JSON")
	return c
}

func livrosUpdateCmd(lo *livrosOptions) *cobra.Command {
	var titulo, autor, isbn string
	var stock int

	c := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch domain.BookPatch
			flags := cmd.Flags()
			if flags.Changed("titulo") {
				patch.Titulo = &titulo
			}
			if flags.Changed("autor") {
				patch.Autor = &autor
			}
			if flags.Changed("isbn") {
				patch.ISBN = &isbn
			}
			if flags.Changed("estoque") {
				patch.Estoque = &stock
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update (use --titulo, --autor, --isbn or --estoque)")
			}

			api, err := lo.client()
			if err != nil {
				return err
			}
			b, err := api.Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return lo.printBook(cmd, b)
		},
	}

	c.Flags().StringVar(&titulo, "titulo", "", "title")
	c.Flags().StringVar(&autor, "autor", "", "author")
	c.Flags().StringVar(&isbn, "isbn", "", "ISBN")
	c.Flags().IntVar(&stock, "estoque", 0, "copies in stock")
	return c
}

func livrosDeleteCmd(lo *livrosOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api, err := lo.client()
			if err != nil {
				return err
			}
			msg, err := api.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if lo.format == formatJSON {
				return writeJSON(out, map[string]string{"mensagem": msg})
			}
			fmt.Fprintln(out, styles.OK.Render(msg))
			return nil
		},
	}
}

func (lo *livrosOptions) printBook(cmd *cobra.Command, b domain.Book) error {
	out := cmd.OutOrStdout()
	if lo.format == formatJSON {
		return writeJSON(out, b)
	}
	fmt.Fprintln(out, bookCard(b))
	return nil
}

func livrosHealthCmd(lo *livrosOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API and its database answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := lo.client()
			if err != nil {
				return err
			}
			if err := api.Health(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if lo.format == formatJSON {
				return writeJSON(out, map[string]string{"status": "ok"})
			}
			fmt.Fprintln(out, styles.OK.Render("ok"))
			return nil
		},
	}
}

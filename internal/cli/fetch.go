package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/logger"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/usecase"
)

const defaultFetchPath = "/api/livros"

func getCmd(opts *rootOptions) *cobra.Command {
	var headers []string
	var format string

	c := &cobra.Command{
		Use:   "get [url]",
		Short: "GET a URL and print its JSON body (fails on non-2xx)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ws, err := loadWorkspace(opts)
			if err != nil {
				return err
			}
			target, err := resolveURL(ws.cfg.Client.BaseURL, firstArg(args), defaultFetchPath)
			if err != nil {
				return err
			}
			h, err := parseHeaders(headers)
			if err != nil {
				return err
			}

			data, err := usecase.NewFetchJSON(ws.fetcher, usecase.WithLogger(logger.L())).
				Execute(cmd.Context(), target, h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				return writeJSON(out, data)
			}
			fmt.Fprintf(out, "%s %s\n", styles.Title.Render("GET"), target)
			return writeJSON(out, data)
		},
	}

	c.Flags().StringArrayVarP(&headers, "header", "H", nil, "request header key=value (repeatable)")
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	return c
}

func postFormCmd(opts *rootOptions) *cobra.Command {
	var fields []string
	var format string

	c := &cobra.Command{
		Use:   "post-form [url]",
		Short: "POST an application/x-www-form-urlencoded body and report the status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ws, err := loadWorkspace(opts)
			if err != nil {
				return err
			}
			target, err := resolveURL(ws.cfg.Client.BaseURL, firstArg(args), defaultFetchPath)
			if err != nil {
				return err
			}
			pairs, err := parsePairs("field", fields)
			if err != nil {
				return err
			}

			resp, err := usecase.NewPostForm(ws.fetcher, usecase.WithLogger(logger.L())).
				Execute(cmd.Context(), target, pairs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				return writeJSON(out, responsePayload(resp))
			}
			printResponse(out, "POST "+target, resp)
			return nil
		},
	}

	c.Flags().StringArrayVarP(&fields, "field", "f", nil, "form field key=value, sent in the given order (default username=example password=password)")
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	return c
}

func cloneCmd(opts *rootOptions) *cobra.Command {
	var rawJSON string
	var format string

	c := &cobra.Command{
		Use:   "clone [url]",
		Short: "POST a JSON body, clone the request and send both in order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ws, err := loadWorkspace(opts)
			if err != nil {
				return err
			}
			target, err := resolveURL(ws.cfg.Client.BaseURL, firstArg(args), defaultFetchPath)
			if err != nil {
				return err
			}

			body, err := parseCloneBody(rawJSON)
			if err != nil {
				return err
			}

			pair, err := usecase.NewCloneRequest(ws.fetcher, usecase.WithLogger(logger.L())).
				Execute(cmd.Context(), target, body)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				return writeJSON(out, map[string]any{
					"original": responsePayload(pair.Original),
					"clone":    responsePayload(pair.Clone),
				})
			}
			printResponse(out, "original", pair.Original)
			printResponse(out, "clone", pair.Clone)
			return nil
		},
	}

	c.Flags().StringVar(&rawJSON, "json", "", `JSON object to send (default {"username":"example"})`)
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	return c
}

// parseCloneBody decodes --json. An empty flag means the default body; any
// value that is not a JSON object, null included, is rejected.
func parseCloneBody(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var body map[string]any
	err := json.Unmarshal([]byte(raw), &body)
	if err == nil && body == nil {
		err = errors.New("got null")
	}
	if err != nil {
		return nil, &domain.OpError{
			Op:   "cli.clone",
			Kind: domain.KindValidation,
			Err:  fmt.Errorf("--json must be a JSON object: %w", err),
		}
	}
	return body, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

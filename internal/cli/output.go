package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

type theme struct {
	Title lipgloss.Style
	Faint lipgloss.Style
	OK    lipgloss.Style
	Fail  lipgloss.Style
	Card  lipgloss.Style
}

func defaultTheme() theme {
	return theme{
		Title: lipgloss.NewStyle().Bold(true),
		Faint: lipgloss.NewStyle().Faint(true),
		OK:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Fail:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}

var styles = defaultTheme()

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statusBadge(code int) string {
	label := fmt.Sprintf("%d", code)
	if code >= 200 && code < 300 {
		return styles.OK.Render(label)
	}
	return styles.Fail.Render(label)
}

func printResponse(w io.Writer, title string, resp domain.Response) {
	fmt.Fprintf(w, "%s %s %s\n", styles.Title.Render(title), statusBadge(resp.Status), styles.Faint.Render(resp.Duration.String()))
	if len(resp.Body) == 0 {
		return
	}

	if resp.Truncated {
		fmt.Fprintln(w, resp.Text())
		fmt.Fprintln(w, styles.Faint.Render(fmt.Sprintf("(truncated at %d bytes)", len(resp.Body))))
		return
	}

	var v any
	if err := json.Unmarshal(resp.Body, &v); err == nil {
		b, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(w, string(b))
		return
	}
	fmt.Fprintln(w, resp.Text())
}

func responsePayload(resp domain.Response) map[string]any {
	out := map[string]any{
		"status":      resp.Status,
		"ok":          resp.OK(),
		"duration_ms": resp.Duration.Milliseconds(),
		"truncated":   resp.Truncated,
	}
	var v any
	if err := resp.JSON(&v); err == nil {
		out["body"] = v
	} else {
		out["body"] = resp.Text()
	}
	return out
}

func booksTable(books []domain.Book) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Faint).
		Headers("ID", "TÍTULO", "AUTOR", "ISBN", "ESTOQUE")
	for _, b := range books {
		t.Row(strconv.FormatInt(b.ID, 10), b.Titulo, b.Autor, b.ISBN, strconv.Itoa(b.Estoque))
	}
	return t.String()
}

func bookCard(b domain.Book) string {
	body := fmt.Sprintf("%s\n%s\nISBN %s · estoque %d",
		styles.Title.Render(b.Titulo),
		b.Autor,
		b.ISBN,
		b.Estoque,
	)
	return styles.Card.Render(fmt.Sprintf("#%d  %s", b.ID, body))
}

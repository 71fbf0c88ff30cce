package extract

import (
	"strings"
	"testing"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

const created = `{"id": 12, "titulo": "Iracema", "isbn": "9788508133570", "disponivel": true, "autor": {"nome": "José de Alencar"}, "edicoes": [1865], "nota": null}`

func TestApply_EmptyRules(t *testing.T) {
	vars, results := Apply([]byte(created), nil)
	if len(vars) != 0 || len(results) != 0 {
		t.Fatalf("expected nothing, got vars=%v results=%v", vars, results)
	}
	if vars == nil || results == nil {
		t.Fatalf("expected non-nil empty values")
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		expr    string
		want    string
		wantOK  bool
		wantMsg string
	}{
		{name: "number id", body: created, expr: "$.id", want: "12", wantOK: true},
		{name: "string", body: created, expr: "$.isbn", want: "9788508133570", wantOK: true},
		{name: "bool", body: created, expr: "$.disponivel", want: "true", wantOK: true},
		{name: "object as json", body: created, expr: "$.autor", want: `{"nome":"José de Alencar"}`, wantOK: true},
		{name: "single element array unwrapped", body: created, expr: "$.edicoes", want: "1865", wantOK: true},
		{name: "first element of list response", body: "[" + created + "]", expr: "$[0].id", want: "12", wantOK: true},
		{name: "multi element array as json", body: `{"ids":[1,2]}`, expr: "$.ids", want: "[1,2]", wantOK: true},
		{name: "missing key", body: created, expr: "$.editora", wantMsg: "jsonpath error"},
		{name: "null", body: created, expr: "$.nota", wantMsg: "no value found"},
		{name: "empty expression", body: created, expr: "  ", wantMsg: "empty jsonpath expression"},
		{name: "non json body", body: "Livro deletado", expr: "$.id", wantMsg: "not valid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars, results := Apply([]byte(tt.body), domain.ExtractSpec{"v": tt.expr})
			if len(results) != 1 {
				t.Fatalf("expected 1 result, got %d", len(results))
			}
			r := results[0]
			if r.Name != "v" || r.Success != tt.wantOK {
				t.Fatalf("unexpected result: %#v", r)
			}
			if tt.wantOK {
				if vars["v"] != tt.want {
					t.Fatalf("expected v=%q, got %q", tt.want, vars["v"])
				}
				return
			}
			if _, ok := vars["v"]; ok {
				t.Fatalf("failed rule must not set a variable")
			}
			if !strings.Contains(r.Message, tt.wantMsg) {
				t.Fatalf("expected message containing %q, got %q", tt.wantMsg, r.Message)
			}
		})
	}
}

func TestApply_MixedResultsStableOrder(t *testing.T) {
	rules := domain.ExtractSpec{
		"livro_id": "$.id",
		"autor":    "$.autor.nome",
		"editora":  "$.editora",
	}

	vars, results := Apply([]byte(created), rules)

	wantOrder := []string{"autor", "editora", "livro_id"}
	for i, n := range wantOrder {
		if results[i].Name != n {
			t.Fatalf("result %d: expected %s, got %s", i, n, results[i].Name)
		}
	}
	if !results[0].Success || results[1].Success || !results[2].Success {
		t.Fatalf("unexpected successes: %#v", results)
	}
	if vars["autor"] != "José de Alencar" || vars["livro_id"] != "12" {
		t.Fatalf("unexpected vars: %#v", vars)
	}
}

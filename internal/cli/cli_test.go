package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/config"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/sqlstore"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/server"
)

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// --- helpers ---

func TestLooksLikePath(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"exemplos", false},
		{"exemplos.yaml", false},
		{"./exemplos.yaml", true},
		{"scripts/exemplos.yaml", true},
		{"/abs/path/exemplos.yaml", true},
	}
	for _, c := range cases {
		if got := looksLikePath(c.input); got != c.want {
			t.Errorf("looksLikePath(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestFileExists(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "exists.txt")
	if err := os.WriteFile(p, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !fileExists(p) {
		t.Errorf("expected fileExists=true for %s", p)
	}
	if fileExists(filepath.Join(tmp, "not_there.txt")) {
		t.Error("expected fileExists=false for non-existent file")
	}
}

func TestResolveURL(t *testing.T) {
	cases := []struct {
		name    string
		base    string
		arg     string
		want    string
		wantErr bool
	}{
		{"absolute wins", "http://localhost:5000", "https://example.org/products.json", "https://example.org/products.json", false},
		{"empty uses fallback", "http://localhost:5000/", "", "http://localhost:5000/api/livros", false},
		{"relative joins base", "http://localhost:5000", "/api/livros/3", "http://localhost:5000/api/livros/3", false},
		{"path without slash joins base", "http://localhost:5000/", "api/livros/1", "http://localhost:5000/api/livros/1", false},
		{"query kept", "http://localhost:5000", "api/livros?q=x", "http://localhost:5000/api/livros?q=x", false},
		{"relative without base", "", "/api/livros", "", true},
		{"bare path without base", "", "livros", "", true},
		{"missing host", "", "http://", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveURL(tc.base, tc.arg, "/api/livros")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParsePairs(t *testing.T) {
	got, err := parsePairs("field", []string{"username=example", "password=a=b", "empty="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0].Key != "username" || got[1].Value != "a=b" || got[2].Value != "" {
		t.Fatalf("unexpected pairs %+v", got)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parsePairs("field", []string{bad}); !domain.IsKind(err, domain.KindValidation) {
			t.Errorf("parsePairs(%q): expected validation error, got %v", bad, err)
		}
	}
}

func TestSQLiteDSN(t *testing.T) {
	root := "/srv/ws"
	cases := []struct {
		db   config.DatabaseConfig
		want string
	}{
		{config.DatabaseConfig{Driver: "sqlite", DSN: "biblioteca.db"}, "/srv/ws/biblioteca.db"},
		{config.DatabaseConfig{Driver: "sqlite", DSN: "/var/lib/b.db"}, "/var/lib/b.db"},
		{config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, ":memory:"},
		{config.DatabaseConfig{Driver: "sqlite", DSN: "file:x.db?cache=shared"}, "file:x.db?cache=shared"},
		{config.DatabaseConfig{Driver: "mysql", DSN: "u:p@tcp(db:3306)/livros"}, "u:p@tcp(db:3306)/livros"},
	}
	for _, tc := range cases {
		if got := sqliteDSN(root, tc.db); got != tc.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tc.db.DSN, got, tc.want)
		}
	}
}

// --- printRun ---

func TestPrintRun_JSON_ValidOutput(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	run := domain.RunResult{
		ScriptName: "exemplos",
		StartedAt:  now,
		EndedAt:    now.Add(100 * time.Millisecond),
		Results: []domain.RequestResult{
			{Name: "r", StatusCode: 500, Error: &domain.RunError{Kind: domain.RunErrorHTTP, Message: "boom"}},
		},
	}
	var buf bytes.Buffer
	if err := printRun(&buf, run, "abc123", "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload struct {
		RunID string `json:"run_id"`
		Run   struct {
			Script   string `json:"script"`
			Failures int    `json:"failures"`
		} `json:"run"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if payload.RunID != "abc123" || payload.Run.Script != "exemplos" || payload.Run.Failures != 1 {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestPrintRun_Pretty_ContainsScriptName(t *testing.T) {
	run := domain.RunResult{
		ScriptName: "exemplos",
		StartedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndedAt:    time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC),
	}
	var buf bytes.Buffer
	if err := printRun(&buf, run, "run-42", "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "exemplos") {
		t.Errorf("expected script name in pretty output, got:\n%s", out)
	}
	if !strings.Contains(out, "run-42") {
		t.Errorf("expected run ID in pretty output, got:\n%s", out)
	}
}

func TestPrintRun_EmptyFormat_IsPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := printRun(&buf, domain.RunResult{}, "", ""); err != nil {
		t.Fatalf("empty format should behave like pretty, got error: %v", err)
	}
}

func TestPrintRun_UnknownFormat_ReturnsError(t *testing.T) {
	var buf bytes.Buffer
	err := printRun(&buf, domain.RunResult{}, "", "xml")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "xml") {
		t.Errorf("expected error to mention format, got: %v", err)
	}
}

func TestPrintPrettyRun_WithResults(t *testing.T) {
	run := domain.RunResult{
		ScriptName: "api",
		Results: []domain.RequestResult{
			{
				Name:       "listar-livros",
				Method:     domain.MethodGet,
				URL:        "http://x/api/livros",
				LatencyMS:  42,
				StatusCode: 200,
				Assertions: []domain.AssertionResult{
					{Name: "status", Passed: true, Message: "status 200"},
					{Name: "jsonpath.exists", Passed: false, Message: "not found"},
				},
				Extracts: []domain.ExtractResult{
					{Name: "livro_id", Success: true, Message: "extracted"},
				},
				Extracted: domain.Vars{"livro_id": "7"},
			},
		},
	}
	var buf bytes.Buffer
	printPrettyRun(&buf, run, "")
	out := buf.String()

	for _, want := range []string{"listar-livros", "1 pass / 1 fail", "1 ok / 0 fail", "livro_id = 7"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestPrintPrettyRun_RequestWithError(t *testing.T) {
	run := domain.RunResult{
		Results: []domain.RequestResult{
			{
				Name:   "fail-req",
				Method: domain.MethodGet,
				Error:  &domain.RunError{Kind: domain.RunErrorConn, Message: "connection refused"},
			},
		},
	}
	var buf bytes.Buffer
	printPrettyRun(&buf, run, "")
	out := buf.String()

	if !strings.Contains(out, "connection refused") {
		t.Errorf("expected error message in output, got:\n%s", out)
	}
	if !strings.Contains(out, "FAIL") {
		t.Errorf("expected FAIL status for errored request, got:\n%s", out)
	}
}

// --- command structure ---

func TestRootCmd_DebugPrintsLogPath(t *testing.T) {
	ws := t.TempDir()

	out, err := execute(t, "version", "--debug", "-w", ws)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	want := "debug log: " + filepath.Join(ws, ".biblioteca", "logs", "biblioteca.log")
	if !strings.Contains(out, want) {
		t.Fatalf("expected %q in output, got:\n%s", want, out)
	}

	b, err := os.ReadFile(filepath.Join(ws, ".biblioteca", "logs", "biblioteca.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"cli.done"`) || !strings.Contains(string(b), `"elapsed_ms"`) {
		t.Fatalf("expected cli.done entry, got:\n%s", b)
	}

	out, err = execute(t, "version", "-w", ws)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.Contains(out, "debug log:") {
		t.Fatalf("log path must only be printed with --debug, got:\n%s", out)
	}
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"get", "post-form", "clone", "run", "validate", "scripts", "serve", "livros", "tui", "init", "version"} {
		if !names[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
	for _, flag := range []string{"debug", "config", "workspace"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent --%s flag", flag)
		}
	}
}

func TestRunCmd_Flags(t *testing.T) {
	cmd := runCmd(&rootOptions{})
	if cmd.Use != "run" {
		t.Errorf("expected Use=run, got %q", cmd.Use)
	}
	for _, flag := range []string{"script", "var", "no-save", "format"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on run command", flag)
		}
	}
}

func TestLivrosCmd_Subcommands(t *testing.T) {
	cmd := livrosCmd(&rootOptions{})
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"list", "get", "add", "update", "delete", "health"} {
		if !names[expected] {
			t.Errorf("expected livros %s", expected)
		}
	}
}

func TestInitCmd_Flags(t *testing.T) {
	cmd := initCmd()
	for _, flag := range []string{"path", "force", "base-url", "dsn"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on init command", flag)
		}
	}
}

// --- resolveWorkspaceRoot ---

func TestResolveWorkspaceRoot_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	got, err := resolveWorkspaceRoot(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tmp {
		t.Errorf("expected %q, got %q", tmp, got)
	}
}

func TestResolveWorkspaceRoot_RelativePath(t *testing.T) {
	got, err := resolveWorkspaceRoot(".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

// --- end to end ---

func initWorkspace(t *testing.T, baseURL string) string {
	t.Helper()
	tmp := t.TempDir()
	if _, err := execute(t, "init", "--path", tmp, "--base-url", baseURL); err != nil {
		t.Fatalf("init: %v", err)
	}
	return tmp
}

func TestInitThenListAndValidate(t *testing.T) {
	ws := initWorkspace(t, "http://localhost:5000")

	out, err := execute(t, "scripts", "list", "-w", ws)
	if err != nil {
		t.Fatalf("scripts list: %v", err)
	}
	if !strings.Contains(out, "exemplos") || !strings.Contains(out, "login-form") {
		t.Fatalf("expected both example scripts, got:\n%s", out)
	}

	out, err = execute(t, "validate", "-s", "exemplos", "-w", ws)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "OK") {
		t.Fatalf("expected OK, got %s", out)
	}

	if _, err := execute(t, "validate", "-s", "missing", "-w", ws); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"pen"}]`))
	}))
	defer srv.Close()
	ws := t.TempDir()

	out, err := execute(t, "get", srv.URL+"/products.json", "-w", ws, "--format", "json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var items []map[string]any
	if err := json.Unmarshal([]byte(out), &items); err != nil || len(items) != 1 {
		t.Fatalf("unexpected output %q (%v)", out, err)
	}

	_, err = execute(t, "get", srv.URL+"/missing", "-w", ws)
	if err == nil || err.Error() != "Response status: 404" {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestPostFormAndCloneCommands(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()
	ws := t.TempDir()

	out, err := execute(t, "post-form", srv.URL, "-w", ws, "--format", "json")
	if err != nil {
		t.Fatalf("post-form: %v", err)
	}
	if !strings.Contains(out, `"status": 202`) {
		t.Fatalf("expected status in output, got %s", out)
	}

	if _, err := execute(t, "clone", srv.URL, "-w", ws, "--json", `{"username":"example"}`); err != nil {
		t.Fatalf("clone: %v", err)
	}

	want := []string{
		"username=example&password=password",
		`{"username":"example"}`,
		`{"username":"example"}`,
	}
	mu.Lock()
	got := strings.Join(bodies, "|")
	mu.Unlock()
	if got != strings.Join(want, "|") {
		t.Fatalf("unexpected bodies %q", got)
	}

	if _, err := execute(t, "clone", srv.URL, "-w", ws, "--json", `[1]`); !domain.IsKind(err, domain.KindValidation) {
		t.Fatalf("expected validation error for non-object json, got %v", err)
	}
	if _, err := execute(t, "clone", srv.URL, "-w", ws, "--json", `null`); !domain.IsKind(err, domain.KindValidation) {
		t.Fatalf("expected validation error for null json, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != len(want) {
		t.Fatalf("rejected --json values must not be sent, got %q", bodies)
	}
}

func TestParseCloneBody(t *testing.T) {
	body, err := parseCloneBody("")
	if err != nil || body != nil {
		t.Fatalf("empty flag: got %v, %v", body, err)
	}

	body, err = parseCloneBody(`{"username":"outro"}`)
	if err != nil || body["username"] != "outro" {
		t.Fatalf("object: got %v, %v", body, err)
	}

	for _, raw := range []string{"null", " null ", "[1]", `"x"`, "42", "{"} {
		if _, err := parseCloneBody(raw); !domain.IsKind(err, domain.KindValidation) {
			t.Fatalf("%q: expected validation error, got %v", raw, err)
		}
	}
}

func TestLivrosAndRunAgainstServer(t *testing.T) {
	db, err := sqlstore.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := sqlstore.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	srv := httptest.NewServer(server.New(sqlstore.NewBookRepository(db)).Routes())
	defer srv.Close()

	ws := initWorkspace(t, srv.URL)

	out, err := execute(t, "livros", "health", "-w", ws, "--format", "json")
	if err != nil {
		t.Fatalf("livros health: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"status": "ok"`) {
		t.Fatalf("unexpected health output %s", out)
	}

	out, err = execute(t, "livros", "add", "-w", ws, "--format", "json",
		"--titulo", "Dom Casmurro", "--autor", "Machado de Assis", "--isbn", "9788535910667")
	if err != nil {
		t.Fatalf("livros add: %v\n%s", err, out)
	}
	var created domain.Book
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 || created.Estoque != domain.DefaultStock {
		t.Fatalf("unexpected book %+v", created)
	}

	out, err = execute(t, "livros", "list", "-w", ws)
	if err != nil {
		t.Fatalf("livros list: %v", err)
	}
	if !strings.Contains(out, "Dom Casmurro") {
		t.Fatalf("expected book in table, got:\n%s", out)
	}

	if _, err := execute(t, "livros", "update", "1", "-w", ws); err == nil {
		t.Fatal("expected error for empty update")
	}

	out, err = execute(t, "run", "-s", "exemplos", "-w", ws, "--format", "json")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"failures": 0`) {
		t.Fatalf("expected clean run, got:\n%s", out)
	}

	entries, err := os.ReadDir(filepath.Join(ws, "runs"))
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected saved run artifact, got %v (%v)", entries, err)
	}

	out, err = execute(t, "livros", "delete", "1", "-w", ws)
	if err != nil {
		t.Fatalf("livros delete: %v", err)
	}
	if !strings.Contains(out, "Livro com ID 1 deletado com sucesso") {
		t.Fatalf("unexpected delete output %s", out)
	}

	_, err = execute(t, "livros", "get", "1", "-w", ws)
	if domain.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
}

package fsworkspace

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

//go:embed templates
var templatesFS embed.FS

const configFile = "biblioteca.yaml"

type Initializer struct {
	baseURL string
	dsn     string
}

type Option func(*Initializer)

func WithBaseURL(u string) Option {
	return func(i *Initializer) {
		if strings.TrimSpace(u) != "" {
			i.baseURL = u
		}
	}
}

func WithDSN(dsn string) Option {
	return func(i *Initializer) {
		if strings.TrimSpace(dsn) != "" {
			i.dsn = dsn
		}
	}
}

func NewInitializer(opts ...Option) *Initializer {
	i := &Initializer{baseURL: "http://localhost:5000", dsn: "biblioteca.db"}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init lays out scripts/, runs/ and .biblioteca/logs under root and writes
// biblioteca.yaml plus the example scripts. Existing files are kept unless
// force is set.
func (i *Initializer) Init(root string, force bool) error {
	root = filepath.Clean(root)

	dirs := []string{
		filepath.Join(root, "scripts"),
		filepath.Join(root, "runs"),
		filepath.Join(root, ".biblioteca", "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return &domain.OpError{Op: "fsworkspace.mkdir", Kind: domain.KindExecution, Path: d, Err: err}
		}
	}

	if err := ensureGitignore(root); err != nil {
		return &domain.OpError{Op: "fsworkspace.gitignore", Kind: domain.KindExecution, Path: root, Err: err}
	}

	cfg, err := i.renderConfig()
	if err != nil {
		return &domain.OpError{Op: "fsworkspace.config", Kind: domain.KindExecution, Err: err}
	}
	if err := writeFile(filepath.Join(root, configFile), cfg, force); err != nil {
		return err
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}
		return writeFile(filepath.Join(root, strings.TrimPrefix(p, "templates/")), b, force)
	})
}

type workspaceConfig struct {
	Client struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"client"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Paths struct {
		ScriptsDir string `yaml:"scripts_dir"`
		RunsDir    string `yaml:"runs_dir"`
	} `yaml:"paths"`
	Masking struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"masking"`
	Vars map[string]string `yaml:"vars"`
}

func (i *Initializer) renderConfig() ([]byte, error) {
	var c workspaceConfig
	c.Client.BaseURL = i.baseURL
	c.Client.Timeout = "10s"
	c.Server.Addr = ":5000"
	c.Database.Driver = "sqlite"
	c.Database.DSN = i.dsn
	c.Paths.ScriptsDir = "scripts"
	c.Paths.RunsDir = "runs"
	c.Masking.Enabled = true
	c.Vars = map[string]string{"base_url": i.baseURL}
	return yaml.Marshal(c)
}

func writeFile(dst string, b []byte, force bool) error {
	if !force {
		if _, err := os.Stat(dst); err == nil {
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return &domain.OpError{Op: "fsworkspace.mkdir", Kind: domain.KindExecution, Path: dst, Err: err}
	}
	if err := os.WriteFile(dst, b, 0o644); err != nil {
		return &domain.OpError{Op: "fsworkspace.write", Kind: domain.KindExecution, Path: dst, Err: err}
	}
	return nil
}

func ensureGitignore(root string) error {
	const header = "# biblioteca"
	entries := []string{
		"runs/",
		".biblioteca/",
		"*.db",
	}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			present[trimmed] = true
		}
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}

package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

const (
	defaultRunsDir = "runs"
	maskValue      = "********"
)

// JSONStore writes one JSON artifact per run under <root>/<runsDir>.
type JSONStore struct {
	rootDir        string
	runsDirName    string
	maskingEnabled bool
	writeIndex     bool
	now            func() time.Time
}

type Option func(*JSONStore)

func WithRunsDir(dir string) Option {
	return func(s *JSONStore) {
		if strings.TrimSpace(dir) != "" {
			s.runsDirName = dir
		}
	}
}

func WithMasking(enabled bool) Option {
	return func(s *JSONStore) { s.maskingEnabled = enabled }
}

// WithIndex appends one line per run to runs/index.jsonl.
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, opts ...Option) *JSONStore {
	s := &JSONStore{
		rootDir:        root,
		runsDirName:    defaultRunsDir,
		maskingEnabled: true,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ArtifactStore = (*JSONStore)(nil)

func (s *JSONStore) SaveRun(run domain.RunResult) (string, error) {
	dir := filepath.Join(s.rootDir, s.runsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{Op: "runstore.mkdir", Kind: domain.KindExecution, Path: dir, Err: err}
	}

	if run.StartedAt.IsZero() {
		run.StartedAt = s.now()
	}
	ts := run.StartedAt.UTC()

	name := run.ScriptName
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(run.ScriptPath), filepath.Ext(run.ScriptPath))
	}
	slug := slugify(name)
	if slug == "" {
		slug = "run"
	}

	id := run.ID
	if strings.TrimSpace(id) == "" {
		id = uniqueID(dir, fmt.Sprintf("%s_%s", ts.Format("20060102T150405Z"), slug))
	}
	path := filepath.Join(dir, id+".json")

	a := newArtifact(id, run)
	if s.maskingEnabled {
		maskArtifact(&a)
	}

	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", &domain.OpError{Op: "runstore.marshal", Kind: domain.KindExecution, Path: path, Err: err}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{Op: "runstore.write", Kind: domain.KindExecution, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{Op: "runstore.rename", Kind: domain.KindExecution, Path: path, Err: err}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, a)
	}

	return id, nil
}

// uniqueID appends _2, _3, ... until no artifact with that id exists.
func uniqueID(dir, base string) string {
	id := base
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(dir, id+".json")); os.IsNotExist(err) {
			return id
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

func (s *JSONStore) appendIndex(dir string, a artifact) error {
	line, err := json.Marshal(struct {
		ID        string    `json:"id"`
		File      string    `json:"file"`
		Script    string    `json:"script"`
		Failures  int       `json:"failures"`
		StartedAt time.Time `json:"started_at"`
	}{
		ID:        a.ID,
		File:      a.ID + ".json",
		Script:    a.Script,
		Failures:  a.Failures,
		StartedAt: a.StartedAt,
	})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, "index.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// maskArtifact masks in place; the artifact already owns copies of every map.
func maskArtifact(a *artifact) {
	for i := range a.Results {
		rec := &a.Results[i]
		for k := range rec.Extracted {
			if isSensitiveKey(k) {
				rec.Extracted[k] = maskValue
			}
		}
		for k, vals := range rec.Headers {
			if !isSensitiveHeaderKey(k) {
				continue
			}
			for j := range vals {
				vals[j] = maskValue
			}
		}
	}
}

func isSensitiveKey(k string) bool {
	kk := strings.ToLower(k)
	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password") ||
		strings.Contains(kk, "senha")
}

func isSensitiveHeaderKey(k string) bool {
	kk := strings.ToLower(strings.TrimSpace(k))
	switch kk {
	case "authorization", "proxy-authorization", "cookie", "set-cookie", "x-api-key", "x-auth-token":
		return true
	}
	return isSensitiveKey(kk) ||
		strings.Contains(kk, "api-key") ||
		strings.Contains(kk, "apikey")
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

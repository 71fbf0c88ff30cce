package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/config"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/httpclient"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/httprunner"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/logger"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/runstore"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/workspacefinder"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/yamlscript"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

type workspaceCtx struct {
	root string
	cfg  *config.Config

	scripts ports.ScriptLoader
	runner  ports.RequestRunner
	store   ports.ArtifactStore
	fetcher *httpclient.Executor
}

func loadWorkspace(opts *rootOptions) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(opts.workspace)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(opts, root)
	if err != nil {
		return nil, err
	}

	client := httpclient.New(clientConfig(cfg))

	runner := httprunner.New(
		client,
		httprunner.WithMaxBodyBytes(cfg.Client.MaxBodyBytes),
		httprunner.WithLogger(logger.L()),
	)

	store := runstore.NewJSONStore(
		root,
		runstore.WithRunsDir(cfg.Paths.RunsDir),
		runstore.WithMasking(cfg.Masking.Enabled),
		runstore.WithIndex(true),
	)

	return &workspaceCtx{
		root:    root,
		cfg:     cfg,
		scripts: yamlscript.NewLoader(yamlscript.WithScriptsDir(cfg.Paths.ScriptsDir)),
		runner:  runner,
		store:   store,
		fetcher: httpclient.NewExecutor(
			httpclient.WithClient(client),
			httpclient.WithTimeout(cfg.Client.Timeout),
			httpclient.WithMaxBodyBytes(cfg.Client.MaxBodyBytes),
		),
	}, nil
}

func loadConfig(opts *rootOptions, root string) (*config.Config, error) {
	loader, err := config.NewLoader(opts.configFile, root)
	if err != nil {
		return nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	logger.L().Debug("config.loaded", "file", loader.Used(), "root", root)
	return cfg, nil
}

func clientConfig(cfg *config.Config) httpclient.Config {
	cc := httpclient.DefaultConfig()
	cc.Timeout = cfg.Client.Timeout
	if ua := strings.TrimSpace(cfg.Client.UserAgent); ua != "" {
		cc.UserAgent = ua
	}
	return cc
}

// baseVars is the lowest config layer for scripts: base_url from the client
// section, overridden by the vars section.
func (ws *workspaceCtx) baseVars() domain.Vars {
	out := domain.Vars{}
	if ws.cfg.Client.BaseURL != "" {
		out["base_url"] = ws.cfg.Client.BaseURL
	}
	return domain.Merge(out, ws.cfg.Vars)
}

// resolveWorkspaceRoot returns the absolute workspace path. Without an
// explicit flag it walks upward for biblioteca.yaml, falling back to the
// working directory.
func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	wd, _ = filepath.Abs(wd)

	return workspacefinder.NewFinder().FindRootOr(wd, wd), nil
}

func resolveScriptPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("script is required (use --script or -s)")
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	scriptsDir := filepath.Join(ws.root, ws.cfg.Paths.ScriptsDir)

	if yamlscript.HasYAMLExt(in) {
		p := filepath.Join(scriptsDir, in)
		if fileExists(p) {
			return p, nil
		}
	}

	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(scriptsDir, in+ext)
		if fileExists(p) {
			return p, nil
		}
	}

	// Last resort: match by the script's name field.
	refs, err := ws.scripts.ListScripts(ws.root)
	if err == nil {
		for _, r := range refs {
			if strings.EqualFold(r.Name, in) {
				return r.Path, nil
			}
		}
	}

	return "", &domain.OpError{
		Op:   "cli.resolve_script",
		Kind: domain.KindNotFound,
		Path: scriptsDir,
		Err:  fmt.Errorf("script %q not found (tip: run `biblioteca scripts list`)", in),
	}
}

// resolveURL turns a command argument into an absolute URL. An empty
// argument means fallbackPath; anything without a scheme is a path joined
// to the base URL.
func resolveURL(baseURL, arg, fallbackPath string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		in = fallbackPath
	}
	if !strings.Contains(in, "://") {
		if strings.TrimSpace(baseURL) == "" {
			return "", &domain.OpError{
				Op:   "cli.resolve_url",
				Kind: domain.KindValidation,
				Err:  fmt.Errorf("relative url %q needs client.base_url", in),
			}
		}
		in = strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(in, "/")
	}

	u, err := url.Parse(in)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", &domain.OpError{
			Op:   "cli.resolve_url",
			Kind: domain.KindValidation,
			Err:  fmt.Errorf("invalid url %q", in),
		}
	}
	return u.String(), nil
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

func chainedScript() domain.Script {
	return domain.Script{
		Name: "Demo",
		Requests: []domain.RequestSpec{
			{
				Name:    "create",
				Method:  domain.MethodPost,
				URL:     "{{base_url}}/api/livros",
				Extract: domain.ExtractSpec{"livro_id": "$.id"},
			},
			{
				Name:   "get",
				Method: domain.MethodGet,
				URL:    "{{base_url}}/api/livros/{{livro_id}}",
			},
		},
	}
}

func TestValidateScript_PassesWithExtractedVarChain(t *testing.T) {
	uc := NewValidateScript(fakeScriptLoader{script: chainedScript()})
	script, err := uc.Execute(context.Background(), "demo.yaml", domain.Vars{"base_url": "http://example"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if script.Name != "Demo" {
		t.Fatalf("expected loaded script, got %q", script.Name)
	}
}

func TestValidateScript_FailsOnMissingVar(t *testing.T) {
	uc := NewValidateScript(fakeScriptLoader{script: chainedScript()})
	_, err := uc.Execute(context.Background(), "demo.yaml")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindMissingVar) {
		t.Fatalf("expected KindMissingVar, got %v", err)
	}
}

func TestValidateScript_ErrorLoadingScript(t *testing.T) {
	loadErr := errors.New("script not found")
	_, err := NewValidateScript(fakeScriptLoader{err: loadErr}).Execute(context.Background(), "x.yaml")
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected wrapped loadErr, got %v", err)
	}
}

func TestValidateScript_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewValidateScript(fakeScriptLoader{script: chainedScript()}).Execute(ctx, "demo.yaml")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestValidateScript_BuiltinsUseInjectedResolver(t *testing.T) {
	script := domain.Script{
		Requests: []domain.RequestSpec{
			{Name: "r", Method: domain.MethodGet, URL: "http://x/{{$timestamp}}/{{$uuid}}"},
		},
	}
	vr := domain.NewVarResolver(
		domain.WithNow(func() time.Time { return time.Unix(0, 0) }),
		domain.WithUUID(func() (string, error) { return "", errors.New("no entropy") }),
	)

	_, err := NewValidateScript(fakeScriptLoader{script: script}, WithVarResolver(vr)).Execute(context.Background(), "x.yaml")
	if err == nil {
		t.Fatal("expected uuid generation error to surface")
	}
}

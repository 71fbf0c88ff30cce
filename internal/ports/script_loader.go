package ports

import "github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"

// ScriptLoader loads fetch scripts from a source (e.g., filesystem).
type ScriptLoader interface {
	LoadScript(path string) (domain.Script, error)
	ListScripts(root string) ([]domain.ScriptRef, error)
}

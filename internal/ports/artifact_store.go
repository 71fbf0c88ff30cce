package ports

import "github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"

// ArtifactStore persists script runs for reproducibility.
type ArtifactStore interface {
	SaveRun(run domain.RunResult) (id string, err error)
}

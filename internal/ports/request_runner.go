package ports

import (
	"context"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

// RequestRunner executes a single request with a resolved variable set.
type RequestRunner interface {
	Run(ctx context.Context, req domain.RequestSpec, vars domain.Vars) (domain.RequestResult, error)
}

package ports

import (
	"context"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

// Fetcher sends a single request and returns the full response.
// Non-2xx statuses are not errors; callers use Response.Err.
type Fetcher interface {
	Fetch(ctx context.Context, spec domain.RequestSpec) (domain.Response, error)

	// FetchCloned builds spec once, clones it and sends the original then
	// the clone. It stops at the first transport failure.
	FetchCloned(ctx context.Context, spec domain.RequestSpec) (orig, clone domain.Response, err error)
}

package usecase

import (
	"context"
	"log/slog"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

// DefaultCloneBody is the JSON payload used when none is given.
var DefaultCloneBody = map[string]any{"username": "example"}

// CloneRequest builds a POST with a JSON body, clones it and sends
// the original followed by the copy.
type CloneRequest struct {
	fetcher ports.Fetcher
	log     *slog.Logger
}

func NewCloneRequest(f ports.Fetcher, opts ...Option) *CloneRequest {
	s := newSettings(opts)
	return &CloneRequest{fetcher: f, log: s.log}
}

// ClonePair holds both responses in send order.
type ClonePair struct {
	Original domain.Response
	Clone    domain.Response
}

func (uc *CloneRequest) Execute(ctx context.Context, url string, body map[string]any) (ClonePair, error) {
	if body == nil {
		body = DefaultCloneBody
	}

	orig, clone, err := uc.fetcher.FetchCloned(ctx, domain.RequestSpec{
		Name:   "clone",
		Method: domain.MethodPost,
		URL:    url,
		Body: domain.BodySpec{
			Type: domain.BodyJSON,
			JSON: body,
		},
	})
	pair := ClonePair{Original: orig, Clone: clone}
	if err != nil {
		uc.log.Error("fetch.clone.failed",
			"url", url,
			"kind", domain.ClassifyRunError(err),
			"err", err.Error(),
		)
		return pair, err
	}

	uc.log.Info("fetch.clone.original", "url", url, "status", orig.Status)
	uc.log.Info("fetch.clone.copy", "url", url, "status", clone.Status)
	return pair, nil
}

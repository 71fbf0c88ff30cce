package usecase

import (
	"context"
	"log/slog"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

// FetchJSON issues a GET request and decodes the JSON body.
type FetchJSON struct {
	fetcher ports.Fetcher
	log     *slog.Logger
}

func NewFetchJSON(f ports.Fetcher, opts ...Option) *FetchJSON {
	s := newSettings(opts)
	return &FetchJSON{fetcher: f, log: s.log}
}

// Execute fetches url. A non-2xx status is returned as a *domain.StatusError
// and the body is left undecoded. Every failure is logged once, here.
func (uc *FetchJSON) Execute(ctx context.Context, url string, headers domain.Headers) (any, error) {
	spec := domain.RequestSpec{
		Name:    "get",
		Method:  domain.MethodGet,
		URL:     url,
		Headers: headers,
	}

	data, status, err := uc.fetch(ctx, spec)
	if err != nil {
		uc.log.Error("fetch.get.failed",
			"url", url,
			"status", status,
			"kind", domain.ClassifyRunError(err),
			"err", err.Error(),
		)
		return nil, err
	}

	uc.log.Info("fetch.get.done", "url", url, "status", status, "result", data)
	return data, nil
}

func (uc *FetchJSON) fetch(ctx context.Context, spec domain.RequestSpec) (any, int, error) {
	resp, err := uc.fetcher.Fetch(ctx, spec)
	if err != nil {
		return nil, resp.Status, err
	}
	if err := resp.Err(); err != nil {
		return nil, resp.Status, err
	}

	var data any
	if err := resp.JSON(&data); err != nil {
		return nil, resp.Status, err
	}
	return data, resp.Status, nil
}

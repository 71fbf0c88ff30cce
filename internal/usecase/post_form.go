package usecase

import (
	"context"
	"log/slog"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

// DefaultFormFields is the credential pair posted when no fields are given.
var DefaultFormFields = []FormField{
	{Key: "username", Value: "example"},
	{Key: "password", Value: "password"},
}

// FormField is a single key/value pair of a URL-encoded body.
type FormField struct {
	Key   string
	Value string
}

// PostForm sends a URL-encoded form with POST and reports the status.
type PostForm struct {
	fetcher ports.Fetcher
	log     *slog.Logger
}

func NewPostForm(f ports.Fetcher, opts ...Option) *PostForm {
	s := newSettings(opts)
	return &PostForm{fetcher: f, log: s.log}
}

// Execute posts fields in the given order. Only transport failures are
// errors; the status of the response is for the caller to judge.
func (uc *PostForm) Execute(ctx context.Context, url string, fields []FormField) (domain.Response, error) {
	if len(fields) == 0 {
		fields = DefaultFormFields
	}

	form := make(map[string]string, len(fields))
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, seen := form[f.Key]; !seen {
			order = append(order, f.Key)
		}
		form[f.Key] = f.Value
	}

	resp, err := uc.fetcher.Fetch(ctx, domain.RequestSpec{
		Name:   "post-form",
		Method: domain.MethodPost,
		URL:    url,
		Body: domain.BodySpec{
			Type:      domain.BodyForm,
			Form:      form,
			FormOrder: order,
		},
	})
	if err != nil {
		uc.log.Error("fetch.post_form.failed",
			"url", url,
			"kind", domain.ClassifyRunError(err),
			"err", err.Error(),
		)
		return resp, err
	}

	uc.log.Info("fetch.post_form.done", "url", url, "status", resp.Status)
	return resp, nil
}

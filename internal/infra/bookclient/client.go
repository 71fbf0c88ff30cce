// Package bookclient is a typed client for the /api/livros REST API.
package bookclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

const booksPath = "/api/livros"

type Client struct {
	rc *resty.Client
}

type settings struct {
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
}

type Option func(*settings)

func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(s *settings) { s.userAgent = ua }
}

// WithHTTPClient lets tests and the CLI share a configured *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	s := settings{timeout: 10 * time.Second, userAgent: "biblioteca"}
	for _, opt := range opts {
		opt(&s)
	}

	rc := resty.New()
	if s.httpClient != nil {
		rc = resty.NewWithClient(s.httpClient)
	}
	rc.SetBaseURL(baseURL).
		SetTimeout(s.timeout).
		SetHeader("Accept", "application/json")
	if s.userAgent != "" {
		rc.SetHeader("User-Agent", s.userAgent)
	}

	return &Client{rc: rc}
}

type apiError struct {
	Erro     string `json:"erro"`
	Mensagem string `json:"mensagem"`
}

type deleteResponse struct {
	Mensagem string `json:"mensagem"`
}

func (c *Client) List(ctx context.Context) ([]domain.Book, error) {
	var out []domain.Book
	res, err := c.rc.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiError{}).
		Get(booksPath)
	if err := check(res, err); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Book{}
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id int64) (domain.Book, error) {
	var out domain.Book
	res, err := c.rc.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetResult(&out).
		SetError(&apiError{}).
		Get(booksPath + "/{id}")
	if err := check(res, err); err != nil {
		return domain.Book{}, err
	}
	return out, nil
}

// Create registers a book with a JSON body.
func (c *Client) Create(ctx context.Context, in domain.BookInput) (domain.Book, error) {
	var out domain.Book
	res, err := c.rc.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&out).
		SetError(&apiError{}).
		Post(booksPath)
	if err := check(res, err); err != nil {
		return domain.Book{}, err
	}
	return out, nil
}

// CreateForm registers a book with an application/x-www-form-urlencoded body.
func (c *Client) CreateForm(ctx context.Context, in domain.BookInput) (domain.Book, error) {
	form := map[string]string{
		"titulo": in.Titulo,
		"autor":  in.Autor,
		"isbn":   in.ISBN,
	}
	if in.Estoque != nil {
		form["estoque"] = strconv.Itoa(*in.Estoque)
	}

	var out domain.Book
	res, err := c.rc.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&out).
		SetError(&apiError{}).
		Post(booksPath)
	if err := check(res, err); err != nil {
		return domain.Book{}, err
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, id int64, patch domain.BookPatch) (domain.Book, error) {
	var out domain.Book
	res, err := c.rc.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetBody(patch).
		SetResult(&out).
		SetError(&apiError{}).
		Put(booksPath + "/{id}")
	if err := check(res, err); err != nil {
		return domain.Book{}, err
	}
	return out, nil
}

// Delete removes a book and returns the server's confirmation message.
func (c *Client) Delete(ctx context.Context, id int64) (string, error) {
	var out deleteResponse
	res, err := c.rc.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetResult(&out).
		SetError(&apiError{}).
		Delete(booksPath + "/{id}")
	if err := check(res, err); err != nil {
		return "", err
	}
	return out.Mensagem, nil
}

func (c *Client) Health(ctx context.Context) error {
	res, err := c.rc.R().SetContext(ctx).Get("/health")
	return check(res, err)
}

// check turns transport failures and non-2xx responses into errors. Status
// failures wrap a *domain.StatusError so callers can read the code.
func check(res *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("bookclient: %w", err)
	}
	if res.IsSuccess() {
		return nil
	}

	se := &domain.StatusError{Code: res.StatusCode(), Status: res.Status(), Body: res.Body()}
	if ae, ok := res.Error().(*apiError); ok {
		msg := ae.Erro
		if msg == "" {
			msg = ae.Mensagem
		}
		if msg != "" {
			return fmt.Errorf("%w: %s", se, msg)
		}
	}
	return se
}

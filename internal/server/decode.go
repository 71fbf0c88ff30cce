package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

const maxBodyBytes = 1 << 20

// decodeInput accepts a JSON object or a URL-encoded form.
func decodeInput(r *http.Request) (domain.BookInput, error) {
	var in domain.BookInput

	if isForm(r) {
		form, err := parseForm(r)
		if err != nil {
			return in, err
		}
		in.Titulo = form.Get("titulo")
		in.Autor = form.Get("autor")
		in.ISBN = form.Get("isbn")
		if form.Has("estoque") {
			n, err := parseStock(form.Get("estoque"))
			if err != nil {
				return in, err
			}
			in.Estoque = &n
		}
		return in, nil
	}

	if err := decodeJSON(r, &in); err != nil {
		return in, err
	}
	return in, nil
}

// decodePatch reads the fields present in the body; absent fields stay nil.
func decodePatch(r *http.Request) (domain.BookPatch, error) {
	var p domain.BookPatch

	if isForm(r) {
		form, err := parseForm(r)
		if err != nil {
			return p, err
		}
		for key, dst := range map[string]**string{"titulo": &p.Titulo, "autor": &p.Autor, "isbn": &p.ISBN} {
			if form.Has(key) {
				v := form.Get(key)
				*dst = &v
			}
		}
		if form.Has("estoque") {
			n, err := parseStock(form.Get("estoque"))
			if err != nil {
				return p, err
			}
			p.Estoque = &n
		}
		return p, nil
	}

	if err := decodeJSON(r, &p); err != nil {
		return p, err
	}
	return p, nil
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

func parseForm(r *http.Request) (url.Values, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, badBody(err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, badBody(err)
	}
	return r.PostForm, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return badBody(err)
	}
	return nil
}

func parseStock(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &domain.OpError{
			Op:   "server.decode",
			Kind: domain.KindValidation,
			Err:  fmt.Errorf("Dados inválidos: estoque (int)"),
		}
	}
	return n, nil
}

func badBody(err error) error {
	return &domain.OpError{
		Op:   "server.decode",
		Kind: domain.KindValidation,
		Err:  fmt.Errorf("%s: %v", msgBadBody, err),
	}
}

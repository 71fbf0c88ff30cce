package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

const (
	msgIncomplete       = "Dados incompletos. Título, autor e ISBN são obrigatórios."
	msgNotFound         = "Livro não encontrado"
	msgMethodNotAllowed = "Método não permitido"
	msgConflict         = "Já existe um livro com este ISBN"
	msgBadBody          = "Corpo da requisição inválido"
	msgInternal         = "Erro interno do servidor"
)

type errorResponse struct {
	Erro string `json:"erro"`
}

type messageResponse struct {
	Mensagem string `json:"mensagem"`
}

type healthResponse struct {
	Status string `json:"status"`
	Erro   string `json:"erro,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.repo.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Erro: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	books, err := s.repo.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	b, err := s.repo.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(in.Titulo) == "" || strings.TrimSpace(in.Autor) == "" || strings.TrimSpace(in.ISBN) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Erro: msgIncomplete})
		return
	}
	if err := s.validate.Struct(in); err != nil {
		s.writeError(w, r, validationError("server.create", err))
		return
	}

	b, err := s.repo.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("server.book.created", slog.Int64("id", b.ID), slog.String("isbn", b.ISBN))
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	patch, err := decodePatch(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(patch); err != nil {
		s.writeError(w, r, validationError("server.update", err))
		return
	}

	b, err := s.repo.Update(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	if err := s.repo.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("server.book.deleted", slog.Int64("id", id))
	writeJSON(w, http.StatusOK, messageResponse{Mensagem: fmt.Sprintf("Livro com ID %d deletado com sucesso", id)})
}

func bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Erro: msgNotFound})
		return 0, false
	}
	return id, true
}

// writeError maps error kinds onto status codes; anything unclassified is a 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {
		case domain.KindNotFound:
			writeJSON(w, http.StatusNotFound, errorResponse{Erro: msgNotFound})
			return
		case domain.KindConflict:
			writeJSON(w, http.StatusConflict, errorResponse{Erro: msgConflict})
			return
		case domain.KindValidation:
			msg := msgBadBody
			if oe.Err != nil {
				msg = oe.Err.Error()
			}
			writeJSON(w, http.StatusBadRequest, errorResponse{Erro: msg})
			return
		}
	}

	s.log.Error("server.request.failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("err", err),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Erro: msgInternal})
}

func validationError(op string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &domain.OpError{Op: op, Kind: domain.KindValidation, Err: err}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindValidation,
		Err:  fmt.Errorf("Dados inválidos: %s", strings.Join(fields, ", ")),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

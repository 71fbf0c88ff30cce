package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

const bookColumns = "id, titulo, autor, isbn, estoque"

// BookRepository implements ports.BookRepository on the livros table.
type BookRepository struct {
	db *sqlx.DB
}

func NewBookRepository(db *sqlx.DB) *BookRepository {
	return &BookRepository{db: db}
}

var _ ports.BookRepository = (*BookRepository)(nil)

func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	books := []domain.Book{}
	if err := r.db.SelectContext(ctx, &books, "SELECT "+bookColumns+" FROM livros ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list livros: %w", err)
	}
	return books, nil
}

func (r *BookRepository) Get(ctx context.Context, id int64) (domain.Book, error) {
	return getBook(ctx, r.db, id)
}

func (r *BookRepository) Create(ctx context.Context, in domain.BookInput) (domain.Book, error) {
	b := in.Book()

	res, err := r.db.NamedExecContext(ctx,
		"INSERT INTO livros (titulo, autor, isbn, estoque) VALUES (:titulo, :autor, :isbn, :estoque)",
		b)
	if err != nil {
		return domain.Book{}, writeError("sqlstore.create", b.ISBN, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Book{}, fmt.Errorf("read inserted id: %w", err)
	}
	b.ID = id
	return b, nil
}

// Update applies patch inside a transaction so the read and the write see
// the same row.
func (r *BookRepository) Update(ctx context.Context, id int64, patch domain.BookPatch) (domain.Book, error) {
	var out domain.Book

	err := RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		cur, err := getBook(ctx, tx, id)
		if err != nil {
			return err
		}
		if patch.Empty() {
			out = cur
			return nil
		}

		next := patch.Apply(cur)
		if _, err := tx.NamedExecContext(ctx,
			"UPDATE livros SET titulo = :titulo, autor = :autor, isbn = :isbn, estoque = :estoque WHERE id = :id",
			next); err != nil {
			return writeError("sqlstore.update", next.ISBN, err)
		}
		out = next
		return nil
	})
	if err != nil {
		return domain.Book{}, err
	}
	return out, nil
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM livros WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete livro %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete livro %d: %w", id, err)
	}
	if n == 0 {
		return notFound("sqlstore.delete", id)
	}
	return nil
}

func (r *BookRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func getBook(ctx context.Context, q sqlx.QueryerContext, id int64) (domain.Book, error) {
	var b domain.Book
	err := sqlx.GetContext(ctx, q, &b, "SELECT "+bookColumns+" FROM livros WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Book{}, notFound("sqlstore.get", id)
	}
	if err != nil {
		return domain.Book{}, fmt.Errorf("get livro %d: %w", id, err)
	}
	return b, nil
}

func notFound(op string, id int64) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindNotFound,
		Err:  fmt.Errorf("livro %d: %w", id, domain.ErrNotFound),
	}
}

func writeError(op, isbn string, err error) error {
	if isUniqueViolation(err) {
		return &domain.OpError{
			Op:   op,
			Kind: domain.KindConflict,
			Err:  fmt.Errorf("isbn %s: %w", isbn, domain.ErrConflict),
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

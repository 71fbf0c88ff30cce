package ports

import (
	"context"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

// BookRepository stores the library catalogue.
type BookRepository interface {
	List(ctx context.Context) ([]domain.Book, error)
	Get(ctx context.Context, id int64) (domain.Book, error)
	Create(ctx context.Context, in domain.BookInput) (domain.Book, error)
	Update(ctx context.Context, id int64, patch domain.BookPatch) (domain.Book, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

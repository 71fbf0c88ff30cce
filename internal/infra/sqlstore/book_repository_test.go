package sqlstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

func newRepo(t *testing.T) *BookRepository {
	t.Helper()
	db := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))
	return NewBookRepository(db)
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestBookRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	created, err := repo.Create(ctx, domain.BookInput{Titulo: "Dom Casmurro", Autor: "Machado de Assis", ISBN: "9788535910663"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.DefaultStock, created.Estoque)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestBookRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = repo.Create(ctx, domain.BookInput{Titulo: "A", Autor: "X", ISBN: "1", Estoque: intPtr(0)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.BookInput{Titulo: "B", Autor: "Y", ISBN: "2", Estoque: intPtr(5)})
	require.NoError(t, err)

	books, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "A", books[0].Titulo)
	assert.Equal(t, 0, books[0].Estoque)
	assert.Equal(t, 5, books[1].Estoque)
}

func TestBookRepository_CreateDuplicateISBN(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.Create(ctx, domain.BookInput{Titulo: "A", Autor: "X", ISBN: "9788508133570"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, domain.BookInput{Titulo: "B", Autor: "Y", ISBN: "9788508133570"})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConflict), "got %v", err)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBookRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	b, err := repo.Create(ctx, domain.BookInput{Titulo: "Iracema", Autor: "José de Alencar", ISBN: "111"})
	require.NoError(t, err)
	other, err := repo.Create(ctx, domain.BookInput{Titulo: "O Guarani", Autor: "José de Alencar", ISBN: "222"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		id       int64
		patch    domain.BookPatch
		want     func(t *testing.T, got domain.Book)
		wantKind domain.ErrorKind
	}{
		{
			name:  "only provided fields change",
			id:    b.ID,
			patch: domain.BookPatch{Estoque: intPtr(3)},
			want: func(t *testing.T, got domain.Book) {
				assert.Equal(t, 3, got.Estoque)
				assert.Equal(t, "Iracema", got.Titulo)
				assert.Equal(t, "111", got.ISBN)
			},
		},
		{
			name:  "empty patch returns current row",
			id:    b.ID,
			patch: domain.BookPatch{},
			want: func(t *testing.T, got domain.Book) {
				assert.Equal(t, 3, got.Estoque)
			},
		},
		{
			name:     "missing id",
			id:       999,
			patch:    domain.BookPatch{Titulo: strPtr("x")},
			wantKind: domain.KindNotFound,
		},
		{
			name:     "isbn taken by another book",
			id:       other.ID,
			patch:    domain.BookPatch{ISBN: strPtr("111")},
			wantKind: domain.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Update(ctx, tt.id, tt.patch)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, domain.IsKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.want(t, got)

			stored, err := repo.Get(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, got, stored)
		})
	}
}

func TestBookRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	b, err := repo.Create(ctx, domain.BookInput{Titulo: "A", Autor: "X", ISBN: "1"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, b.ID))

	_, err = repo.Get(ctx, b.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Delete(ctx, b.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestBookRepository_Ping(t *testing.T) {
	repo := newRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestBookRepository_MySQLErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookRepository(sqlx.NewDb(db, "mysql"))

	mock.ExpectExec("INSERT INTO livros").
		WithArgs("A", "X", "1", 1).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1' for key 'isbn'"})
	_, err = repo.Create(context.Background(), domain.BookInput{Titulo: "A", Autor: "X", ISBN: "1"})
	assert.True(t, domain.IsKind(err, domain.KindConflict), "got %v", err)

	mock.ExpectQuery("SELECT id, titulo, autor, isbn, estoque FROM livros ORDER BY id").
		WillReturnError(fmt.Errorf("connection refused"))
	_, err = repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list livros")

	mock.ExpectExec("DELETE FROM livros").WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.Delete(context.Background(), 7)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

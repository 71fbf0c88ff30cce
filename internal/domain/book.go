package domain

import "fmt"

// DefaultStock is the stock assigned when a new book omits estoque.
const DefaultStock = 1

// Book is a title held by the library.
type Book struct {
	ID      int64  `json:"id" db:"id"`
	Titulo  string `json:"titulo" db:"titulo"`
	Autor   string `json:"autor" db:"autor"`
	ISBN    string `json:"isbn" db:"isbn"`
	Estoque int    `json:"estoque" db:"estoque"`
}

func (b Book) String() string {
	return fmt.Sprintf("<Livro %s>", b.Titulo)
}

// BookInput carries the fields accepted when registering a book.
type BookInput struct {
	Titulo  string `json:"titulo" validate:"required,notblank,max=100"`
	Autor   string `json:"autor" validate:"required,notblank,max=100"`
	ISBN    string `json:"isbn" validate:"required,notblank,max=13"`
	Estoque *int   `json:"estoque,omitempty" validate:"omitempty,min=0"`
}

// Book materializes the input, applying the default stock.
func (in BookInput) Book() Book {
	stock := DefaultStock
	if in.Estoque != nil {
		stock = *in.Estoque
	}
	return Book{
		Titulo:  in.Titulo,
		Autor:   in.Autor,
		ISBN:    in.ISBN,
		Estoque: stock,
	}
}

// BookPatch is a partial update; nil fields keep their current value.
type BookPatch struct {
	Titulo  *string `json:"titulo,omitempty" validate:"omitempty,notblank,max=100"`
	Autor   *string `json:"autor,omitempty" validate:"omitempty,notblank,max=100"`
	ISBN    *string `json:"isbn,omitempty" validate:"omitempty,notblank,max=13"`
	Estoque *int    `json:"estoque,omitempty" validate:"omitempty,min=0"`
}

// Apply returns b with the provided fields replaced.
func (p BookPatch) Apply(b Book) Book {
	if p.Titulo != nil {
		b.Titulo = *p.Titulo
	}
	if p.Autor != nil {
		b.Autor = *p.Autor
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Estoque != nil {
		b.Estoque = *p.Estoque
	}
	return b
}

// Empty reports whether the patch changes nothing.
func (p BookPatch) Empty() bool {
	return p.Titulo == nil && p.Autor == nil && p.ISBN == nil && p.Estoque == nil
}

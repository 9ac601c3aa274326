package cart

import (
	carterrors "github.com/boighor/bookshop/internal/cart/errors"
	"github.com/boighor/bookshop/internal/domain/models"
)

type Line struct {
	BID      string
	Title    string
	Price    models.Money
	Quantity int
}

// Store aggregates the selected books for one checkout attempt.
// Insertion order is preserved for display.
type Store struct {
	lines []Line
}

func New() *Store {
	return &Store{}
}

// Add merges into an existing line when the book is already present.
func (s *Store) Add(book models.Book, qty int) error {
	if qty < 1 {
		return carterrors.ErrInvalidQuantity
	}
	for i := range s.lines {
		if s.lines[i].BID == book.BID {
			s.lines[i].Quantity += qty
			return nil
		}
	}
	s.lines = append(s.lines, Line{
		BID:      book.BID,
		Title:    book.Title,
		Price:    book.Price,
		Quantity: qty,
	})
	return nil
}

// SetQuantity with qty 0 removes the line.
func (s *Store) SetQuantity(bid string, qty int) error {
	if qty < 0 {
		return carterrors.ErrInvalidQuantity
	}
	if qty == 0 {
		s.Remove(bid)
		return nil
	}
	for i := range s.lines {
		if s.lines[i].BID == bid {
			s.lines[i].Quantity = qty
			return nil
		}
	}
	return carterrors.ErrLineNotFound
}

// Remove is idempotent: removing an absent line is a no-op.
func (s *Store) Remove(bid string) {
	for i := range s.lines {
		if s.lines[i].BID == bid {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

func (s *Store) Total() models.Money {
	var total models.Money
	for _, l := range s.lines {
		total += l.Price * models.Money(l.Quantity)
	}
	return total
}

func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) Len() int { return len(s.lines) }

func (s *Store) Empty() bool { return len(s.lines) == 0 }

// Snapshot freezes the cart into draft items.
func (s *Store) Snapshot() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(s.lines))
	for _, l := range s.lines {
		items = append(items, models.OrderItem{
			BID:      l.BID,
			Title:    l.Title,
			Price:    l.Price,
			Quantity: l.Quantity,
		})
	}
	return items
}

// Clear empties the cart. Called only after a confirmed order so a
// failed verification keeps the selection for retry.
func (s *Store) Clear() {
	s.lines = nil
}

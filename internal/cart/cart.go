// Package cart implements the transactional shopping cart of the
// self-checkout game. One scan = one line; quantity is represented by
// repeated lines, matching the scan-per-item retail metaphor.
package cart

import (
	"time"

	"github.com/astridmart/kiosk/currency"
	"github.com/astridmart/kiosk/internal/catalog"
)

type Line struct {
	At       time.Time
	Code     string
	Name     string
	Category string
	Price    currency.Amount
}

type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{lines: make([]Line, 0, 16)}
}

func (self *Cart) Add(p catalog.Product, at time.Time) Line {
	line := Line{
		At:       at,
		Code:     p.Code,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
	}
	self.lines = append(self.lines, line)
	return line
}

// RemoveLast drops the most recently added line.
// Empty cart is a no-op, not an error.
func (self *Cart) RemoveLast() (Line, bool) {
	if len(self.lines) == 0 {
		return Line{}, false
	}
	last := self.lines[len(self.lines)-1]
	self.lines = self.lines[:len(self.lines)-1]
	return last, true
}

func (self *Cart) Clear() {
	self.lines = self.lines[:0]
}

// Total is always recomputed from lines; there is no separately
// mutable running total to drift out of sync.
func (self *Cart) Total() currency.Amount {
	sum := currency.Amount(0)
	for i := range self.lines {
		sum += self.lines[i].Price
	}
	return sum
}

func (self *Cart) Len() int    { return len(self.lines) }
func (self *Cart) Empty() bool { return len(self.lines) == 0 }

// Lines returns an independent copy, order of addition preserved.
func (self *Cart) Lines() []Line {
	ls := make([]Line, len(self.lines))
	copy(ls, self.lines)
	return ls
}

package domain

import (
	"errors"
	"strings"
)

var (
	ErrLineNotFound    = errors.New("item not found in cart")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// Line is one (product, size, quantity) entry. Size is empty for size-less
// products; it stores the canonical label for sized ones.
type Line struct {
	ProductID int64
	Size      string
	Quantity  int
}

// Cart is the ordered sequence of lines owned by exactly one user. At most
// one line may exist per (product, normalized size) pair.
type Cart struct {
	UserID int64
	Lines  []Line
}

// NewCart returns an empty cart for the user.
func NewCart(userID int64) *Cart {
	return &Cart{UserID: userID}
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// FindLine returns the index of the line matching (product, size), comparing
// sizes case-insensitively, or -1.
func (c *Cart) FindLine(productID int64, size string) int {
	for i, line := range c.Lines {
		if line.ProductID == productID && strings.EqualFold(line.Size, size) {
			return i
		}
	}
	return -1
}

// AddQuantity merges quantity into the matching line or appends a new one.
func (c *Cart) AddQuantity(productID int64, size string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i := c.FindLine(productID, size); i >= 0 {
		c.Lines[i].Quantity += quantity
		return nil
	}
	c.Lines = append(c.Lines, Line{ProductID: productID, Size: size, Quantity: quantity})
	return nil
}

// Reslot moves the line at index to (size, quantity). When another line
// already sits at (product, size), the quantities merge into that line and
// the original is dropped, so the cart never holds two lines for one
// (product, normalized size) pair.
func (c *Cart) Reslot(index int, size string, quantity int) error {
	if index < 0 || index >= len(c.Lines) {
		return ErrLineNotFound
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	productID := c.Lines[index].ProductID
	if dup := c.FindLine(productID, size); dup >= 0 && dup != index {
		c.Lines[dup].Quantity += quantity
		c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
		return nil
	}
	c.Lines[index].Size = size
	c.Lines[index].Quantity = quantity
	return nil
}

// RemoveLines deletes every line matching (product, size) and reports how
// many were dropped. Callers must treat zero as ErrLineNotFound rather than
// assuming success.
func (c *Cart) RemoveLines(productID int64, size string) int {
	kept := c.Lines[:0]
	removed := 0
	for _, line := range c.Lines {
		if line.ProductID == productID && strings.EqualFold(line.Size, size) {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	c.Lines = kept
	return removed
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Clone returns a deep copy, used to stage batch mutations before persisting.
func (c *Cart) Clone() *Cart {
	clone := &Cart{UserID: c.UserID}
	if len(c.Lines) > 0 {
		clone.Lines = append([]Line{}, c.Lines...)
	}
	return clone
}

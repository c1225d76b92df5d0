package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName         = errors.New("product name is required")
	ErrNegativePrice     = errors.New("product price must not be negative")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrSizeRequired      = errors.New("size is required for this product")
	ErrUnknownSize       = errors.New("size is not available for this product")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNegativeStock     = errors.New("stock must not be negative")
)

// Stock is the tagged stock representation. A product either tracks one
// scalar count (size-less) or one bucket per declared size; BySize is nil
// exactly when the product is size-less.
type Stock struct {
	Scalar int
	BySize map[string]int
}

// Product is the catalog aggregate. Cart and order lines reference it but
// never own it.
type Product struct {
	ID        int64
	Name      string
	Brand     string
	Price     decimal.Decimal
	ImageURLs []string
	SizeRange []string
	Stock     Stock
}

// NewProduct validates invariants and builds a catalog aggregate. A non-empty
// size range switches the aggregate to per-size stock buckets.
func NewProduct(id int64, name string, price decimal.Decimal, sizeRange []string) (*Product, error) {
	p := &Product{ID: id, SizeRange: append([]string{}, sizeRange...)}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.Reprice(price); err != nil {
		return nil, err
	}
	if p.RequiresSize() {
		p.Stock.BySize = make(map[string]int, len(p.SizeRange))
		for _, size := range p.SizeRange {
			p.Stock.BySize[size] = 0
		}
	}
	return p, nil
}

// Rename mutates the product name ensuring the invariant.
func (p *Product) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// Reprice replaces the unit price.
func (p *Product) Reprice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	p.Price = price
	return nil
}

// RequiresSize reports whether the product declares size variants.
func (p *Product) RequiresSize() bool {
	return len(p.SizeRange) > 0
}

// ResolveSize canonicalizes a requested size label against the stock buckets.
// Matching is case-insensitive. Size-less products always resolve to "".
func (p *Product) ResolveSize(size string) (string, error) {
	if !p.RequiresSize() {
		return "", nil
	}
	if strings.TrimSpace(size) == "" {
		return "", ErrSizeRequired
	}
	for canonical := range p.Stock.BySize {
		if strings.EqualFold(canonical, size) {
			return canonical, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSize, size)
}

// AvailableStock returns the quantity currently available for the given
// (product, size) key.
func (p *Product) AvailableStock(size string) (int, error) {
	if !p.RequiresSize() {
		return p.Stock.Scalar, nil
	}
	canonical, err := p.ResolveSize(size)
	if err != nil {
		return 0, err
	}
	return p.Stock.BySize[canonical], nil
}

// SetStock replaces the stock level for the given (product, size) key.
func (p *Product) SetStock(size string, quantity int) error {
	if quantity < 0 {
		return ErrNegativeStock
	}
	if !p.RequiresSize() {
		p.Stock.Scalar = quantity
		return nil
	}
	if strings.TrimSpace(size) == "" {
		return ErrSizeRequired
	}
	canonical, err := p.ResolveSize(size)
	if err != nil {
		// Allow introducing a bucket for a declared size that has no stock yet.
		if !errors.Is(err, ErrUnknownSize) || !p.declaresSize(size) {
			return err
		}
		canonical = size
	}
	if p.Stock.BySize == nil {
		p.Stock.BySize = map[string]int{}
	}
	p.Stock.BySize[canonical] = quantity
	return nil
}

// Reserve decrements the relevant stock bucket by quantity. It either applies
// the full decrement or leaves the aggregate untouched.
func (p *Product) Reserve(size string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !p.RequiresSize() {
		if p.Stock.Scalar < quantity {
			return InsufficientStockError(p.Stock.Scalar, "")
		}
		p.Stock.Scalar -= quantity
		return nil
	}
	canonical, err := p.ResolveSize(size)
	if err != nil {
		return err
	}
	available := p.Stock.BySize[canonical]
	if available < quantity {
		return InsufficientStockError(available, canonical)
	}
	p.Stock.BySize[canonical] = available - quantity
	return nil
}

// TotalStock derives the aggregate stock level: the scalar count for
// size-less products, the sum over all buckets otherwise. The sum is never
// stored independently of the buckets.
func (p *Product) TotalStock() int {
	if !p.RequiresSize() {
		return p.Stock.Scalar
	}
	total := 0
	for _, qty := range p.Stock.BySize {
		total += qty
	}
	return total
}

func (p *Product) declaresSize(size string) bool {
	for _, declared := range p.SizeRange {
		if strings.EqualFold(declared, size) {
			return true
		}
	}
	return false
}

// InsufficientStockError reports the exact available amount, scoped to the
// size bucket when one applies.
func InsufficientStockError(available int, size string) error {
	if size != "" {
		return fmt.Errorf("%w: only %d in stock for size %s", ErrInsufficientStock, available, size)
	}
	return fmt.Errorf("%w: only %d in stock for this product", ErrInsufficientStock, available)
}

// Reservation is one line of an all-or-nothing stock commit.
type Reservation struct {
	ProductID int64
	Size      string
	Quantity  int
}

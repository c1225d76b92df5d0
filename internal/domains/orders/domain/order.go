package domain

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentMethod enumerates the supported terminal payment methods.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

var (
	ErrInvalidUserID             = errors.New("order must belong to a user")
	ErrNoLines                   = errors.New("order must contain at least one line")
	ErrInvalidQuantity           = errors.New("quantity must be greater than zero")
	ErrInvalidStatus             = errors.New("order status is invalid")
	ErrInvalidTransition         = errors.New("order status may only move forward")
	ErrInvalidPaymentMethod      = errors.New("payment method must be cash or card")
	ErrIncompleteShippingAddress = errors.New("complete shipping details are required")
)

// ShippingAddress carries the delivery destination. Every field is required
// at checkout.
type ShippingAddress struct {
	Address    string
	City       string
	Country    string
	PostalCode string
	Phone      string
}

// Validate rejects addresses with any missing field.
func (a ShippingAddress) Validate() error {
	for _, field := range []string{a.Address, a.City, a.Country, a.PostalCode, a.Phone} {
		if strings.TrimSpace(field) == "" {
			return ErrIncompleteShippingAddress
		}
	}
	return nil
}

// Line is one immutable receipt entry: the unit price and subtotal are
// captured at commit time and never recomputed.
type Line struct {
	ProductID   int64
	ProductName string
	Size        string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Order is the receipt of a committed checkout. Line contents are immutable
// after creation; only the delivery status moves, and only forward.
type Order struct {
	ID       int64
	Number   string
	UserID   int64
	Lines    []Line
	Total    decimal.Decimal
	Method   PaymentMethod
	Shipping ShippingAddress
	Status   Status
	PlacedAt time.Time
}

// NewOrder validates and assembles an order from captured lines. Subtotals
// and the total are computed here, once, from the supplied unit prices.
func NewOrder(userID int64, lines []Line, method PaymentMethod, shipping ShippingAddress, placedAt time.Time) (*Order, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if !isValidPaymentMethod(method) {
		return nil, ErrInvalidPaymentMethod
	}
	if err := shipping.Validate(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	order := &Order{
		Number:   NewOrderNumber(),
		UserID:   userID,
		Lines:    make([]Line, 0, len(lines)),
		Total:    decimal.Zero,
		Method:   method,
		Shipping: shipping,
		Status:   StatusProcessing,
		PlacedAt: placedAt,
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		order.Lines = append(order.Lines, line)
		order.Total = order.Total.Add(line.Subtotal)
	}
	return order, nil
}

// UpdateStatus moves the lifecycle forward: processing -> shipped ->
// delivered, or processing -> cancelled. Anything else is rejected.
func (o *Order) UpdateStatus(next Status) error {
	if !isValidStatus(next) {
		return ErrInvalidStatus
	}
	if !transitionAllowed(o.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	return nil
}

func transitionAllowed(from, to Status) bool {
	switch from {
	case StatusProcessing:
		return to == StatusShipped || to == StatusCancelled
	case StatusShipped:
		return to == StatusDelivered
	default:
		return false
	}
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func isValidPaymentMethod(method PaymentMethod) bool {
	return method == PaymentCash || method == PaymentCard
}

// NewOrderNumber generates a short human-readable order number.
func NewOrderNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return fmt.Sprintf("ORD-%d", time.Now().UnixNano()%900000+100000)
	}
	return fmt.Sprintf("ORD-%d", n.Int64()+100000)
}

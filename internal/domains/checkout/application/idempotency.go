package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	checkouttypes "github.com/shopora/shop-api/internal/domains/checkout/application/types"
)

type normalizedPlaceOrderInput struct {
	UserID   int64              `json:"userId"`
	Method   string             `json:"method"`
	Shipping normalizedShipping `json:"shipping"`
}

type normalizedShipping struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

// FingerprintPlaceOrder builds a deterministic hash of the checkout command (excluding the idempotency key).
func FingerprintPlaceOrder(input checkouttypes.PlaceOrderInput) (string, error) {
	normalized := normalizedPlaceOrderInput{
		UserID: input.UserID,
		Method: strings.ToLower(strings.TrimSpace(input.Method)),
		Shipping: normalizedShipping{
			Address:    strings.TrimSpace(input.Shipping.Address),
			City:       strings.TrimSpace(input.Shipping.City),
			Country:    strings.TrimSpace(input.Shipping.Country),
			PostalCode: strings.TrimSpace(input.Shipping.PostalCode),
			Phone:      strings.TrimSpace(input.Shipping.Phone),
		},
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	paymentclient "github.com/shopora/shop-api/internal/clients/http/payment"
	"github.com/shopora/shop-api/internal/domains/checkout/ports"
)

var (
	_ ports.PaymentAuthorizer = (*GatewayAuthorizer)(nil)
	_ ports.PaymentAuthorizer = (*StaticAuthorizer)(nil)
)

// GatewayAuthorizer implements the payment port against the gateway HTTP API.
type GatewayAuthorizer struct {
	client *paymentclient.Client
}

// NewGatewayAuthorizer wires a payment HTTP client into an authorizer adapter.
func NewGatewayAuthorizer(client *paymentclient.Client) *GatewayAuthorizer {
	return &GatewayAuthorizer{client: client}
}

// Authorize forwards the charge to the gateway.
func (a *GatewayAuthorizer) Authorize(ctx context.Context, req ports.AuthorizationRequest) (*ports.Authorization, error) {
	if a == nil || a.client == nil {
		return nil, errors.New("payment gateway authorizer not configured")
	}
	verdict, err := a.client.Authorize(ctx, paymentclient.AuthorizeRequest{
		UserID:   req.UserID,
		Amount:   req.Amount.StringFixed(2),
		Currency: req.Currency,
		Metadata: req.Metadata,
	})
	if err != nil {
		return nil, err
	}
	return &ports.Authorization{Reference: verdict.Reference, Approved: verdict.Approved}, nil
}

// StaticAuthorizer approves every charge with a locally generated reference.
// Used in development mode and tests when no gateway is configured.
type StaticAuthorizer struct {
	decline bool
}

// NewStaticAuthorizer builds an always-approving authorizer.
func NewStaticAuthorizer() *StaticAuthorizer {
	return &StaticAuthorizer{}
}

// NewDecliningAuthorizer builds an authorizer that rejects every charge.
func NewDecliningAuthorizer() *StaticAuthorizer {
	return &StaticAuthorizer{decline: true}
}

// Authorize issues a synthetic verdict.
func (a *StaticAuthorizer) Authorize(_ context.Context, _ ports.AuthorizationRequest) (*ports.Authorization, error) {
	if a != nil && a.decline {
		return &ports.Authorization{Approved: false}, nil
	}
	return &ports.Authorization{Reference: uuid.NewString(), Approved: true}, nil
}

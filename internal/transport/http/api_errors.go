package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cartapp "github.com/shopora/shop-api/internal/domains/cart/application"
	cartdomain "github.com/shopora/shop-api/internal/domains/cart/domain"
	catalogapp "github.com/shopora/shop-api/internal/domains/catalog/application"
	catalogdomain "github.com/shopora/shop-api/internal/domains/catalog/domain"
	catalogports "github.com/shopora/shop-api/internal/domains/catalog/ports"
	checkoutapp "github.com/shopora/shop-api/internal/domains/checkout/application"
	checkoutports "github.com/shopora/shop-api/internal/domains/checkout/ports"
	ordersapp "github.com/shopora/shop-api/internal/domains/orders/application"
	ordersports "github.com/shopora/shop-api/internal/domains/orders/ports"
	usersapp "github.com/shopora/shop-api/internal/domains/users/application"
	usersports "github.com/shopora/shop-api/internal/domains/users/ports"
	apierrors "github.com/shopora/shop-api/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondError preserves plain call sites while returning RFC 7807 responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusForbidden:
		problem = apierrors.ErrForbidden.WithDetail(err.Error())
	case http.StatusConflict:
		problem = apierrors.ErrConflict.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}

func mapNotFound(sentinels ...error) apierrors.ErrorMapper {
	return func(err error) (apierrors.ProblemDetail, bool) {
		for _, sentinel := range sentinels {
			if errors.Is(err, sentinel) {
				return apierrors.ErrNotFound.WithDetail(err.Error()), true
			}
		}
		return apierrors.ProblemDetail{}, false
	}
}

func mapValidation(sentinels ...error) apierrors.ErrorMapper {
	return func(err error) (apierrors.ProblemDetail, bool) {
		for _, sentinel := range sentinels {
			if errors.Is(err, sentinel) {
				return apierrors.ErrValidation.WithDetail(err.Error()), true
			}
		}
		return apierrors.ProblemDetail{}, false
	}
}

func mapConflict(sentinels ...error) apierrors.ErrorMapper {
	return func(err error) (apierrors.ProblemDetail, bool) {
		for _, sentinel := range sentinels {
			if errors.Is(err, sentinel) {
				return apierrors.ErrConflict.WithDetail(err.Error()), true
			}
		}
		return apierrors.ProblemDetail{}, false
	}
}

var catalogResponder = apierrors.NewChainedResponder("",
	mapNotFound(catalogports.ErrNotFound),
	mapValidation(catalogapp.ErrInvalidInput),
)

var cartResponder = apierrors.NewChainedResponder("",
	mapNotFound(catalogports.ErrNotFound, cartdomain.ErrLineNotFound),
	mapValidation(cartapp.ErrInvalidInput, catalogdomain.ErrInsufficientStock),
)

var checkoutResponder = apierrors.NewChainedResponder("",
	func(err error) (apierrors.ProblemDetail, bool) {
		if errors.Is(err, checkoutapp.ErrAuthorizationFailed) {
			return apierrors.ErrPaymentRequired.WithDetail(err.Error()), true
		}
		return apierrors.ProblemDetail{}, false
	},
	mapValidation(checkoutapp.ErrInvalidInput, checkoutapp.ErrEmptyCart, catalogdomain.ErrInsufficientStock),
	mapConflict(checkoutports.ErrIdempotencyConflict),
	mapNotFound(catalogports.ErrNotFound, ordersports.ErrNotFound),
)

var orderResponder = apierrors.NewChainedResponder("",
	mapNotFound(ordersports.ErrNotFound),
	mapValidation(ordersapp.ErrInvalidInput),
)

var userResponder = apierrors.NewChainedResponder("",
	mapNotFound(usersports.ErrNotFound),
	mapValidation(usersapp.ErrInvalidInput),
	func(err error) (apierrors.ProblemDetail, bool) {
		if errors.Is(err, usersapp.ErrAuthentication) {
			return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
		}
		return apierrors.ProblemDetail{}, false
	},
)

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sokaytech/storefront/internal/checkout"
	"github.com/sokaytech/storefront/internal/logging"
	"github.com/sokaytech/storefront/internal/paystack"
)

type CheckoutHandler struct {
	Service *checkout.Service
}

// Submit runs a checkout attempt. No failure here crashes the page:
// every branch maps to a distinct user-facing message and leaves the
// cart retryable.
func (h *CheckoutHandler) Submit(c echo.Context) error {
	var form checkout.Form
	if err := c.Bind(&form); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	ctx := c.Request().Context()
	result, err := h.Service.Submit(ctx, cartToken(c), form)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			return errorResponse(c, http.StatusBadRequest, "Your cart is empty")
		case errors.Is(err, checkout.ErrValidation):
			return errorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, paystack.ErrNotConfigured):
			return errorResponse(c, http.StatusServiceUnavailable,
				"Payment configuration error. Please try again later or use Cash on Delivery.")
		default:
			logging.FromContext(ctx).Error("checkout submit failed", "error", err)
			return errorResponse(c, http.StatusInternalServerError,
				"Failed to create order. Please try again.")
		}
	}

	return c.JSON(http.StatusOK, result)
}

// Verify is the paystack return leg: the shopper lands back here with
// the transaction reference and the suspended attempt resumes.
func (h *CheckoutHandler) Verify(c echo.Context) error {
	reference := c.QueryParam("reference")
	if reference == "" {
		return errorResponse(c, http.StatusBadRequest, "missing reference")
	}

	ctx := c.Request().Context()
	result, err := h.Service.Complete(ctx, reference)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrSessionNotFound):
			return errorResponse(c, http.StatusNotFound, "unknown checkout reference")
		case errors.Is(err, checkout.ErrSessionConsumed):
			return errorResponse(c, http.StatusConflict, "checkout already resolved")
		default:
			logging.FromContext(ctx).Error("checkout verify failed", "reference", reference, "error", err)
			return errorResponse(c, http.StatusInternalServerError,
				"Payment successful, but order processing failed. Please contact support with reference: "+reference)
		}
	}

	return c.JSON(http.StatusOK, result)
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sokaytech/storefront/internal/cart"
	"github.com/sokaytech/storefront/internal/catalog"
	"github.com/sokaytech/storefront/internal/checkout"
	"github.com/sokaytech/storefront/internal/orders"
	"github.com/sokaytech/storefront/internal/paystack"
)

type stubPayments struct {
	auth    *paystack.Authorization
	initErr error
	outcome *paystack.Outcome
}

func (s *stubPayments) InitializeTransaction(_ context.Context, req paystack.InitializeRequest) (*paystack.Authorization, error) {
	if s.initErr != nil {
		return nil, s.initErr
	}
	if s.auth != nil {
		return s.auth, nil
	}
	return &paystack.Authorization{
		AuthorizationURL: "https://checkout.paystack.com/x",
		Reference:        req.Reference,
	}, nil
}

func (s *stubPayments) VerifyTransaction(context.Context, string) (*paystack.Outcome, error) {
	return s.outcome, nil
}

func newCheckoutHandler(t *testing.T, payments paystack.Client) (*CheckoutHandler, cart.Storage) {
	t.Helper()
	storage := cart.NewMemoryStorage()
	svc := checkout.NewService(
		orders.NewOfflineStore(), payments, storage,
		checkout.NewMemorySessions(), nil, nil,
		slog.New(slog.DiscardHandler))
	return &CheckoutHandler{Service: svc}, storage
}

func fillCart(t *testing.T, storage cart.Storage, token string) {
	t.Helper()
	store, err := cart.Open(context.Background(), token, storage)
	require.NoError(t, err)
	products := catalog.NewOfflineStore()
	p, err := products.GetByID(context.Background(), "1")
	require.NoError(t, err)
	require.NoError(t, store.AddItem(context.Background(), *p, 2))
}

func validForm(method string) map[string]any {
	return map[string]any{
		"name":           "Ada Obi",
		"email":          "ada@example.com",
		"phone":          "08012345678",
		"address":        "12 Allen Avenue, Ikeja, Lagos",
		"payment_method": method,
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	t.Parallel()
	h, _ := newCheckoutHandler(t, &stubPayments{})

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/checkout",
		validForm("cod"), cartCookieFor("co-empty"))
	require.NoError(t, h.Submit(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Your cart is empty", decodeBody(t, rec)["message"])
}

func TestSubmitInvalidForm(t *testing.T) {
	t.Parallel()
	h, storage := newCheckoutHandler(t, &stubPayments{})
	fillCart(t, storage, "co-invalid")

	form := validForm("cod")
	form["email"] = "not-an-email"
	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/checkout",
		form, cartCookieFor("co-invalid"))
	require.NoError(t, h.Submit(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitCOD(t *testing.T) {
	t.Parallel()
	h, storage := newCheckoutHandler(t, &stubPayments{})
	fillCart(t, storage, "co-cod")

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/checkout",
		validForm("cod"), cartCookieFor("co-cod"))
	require.NoError(t, h.Submit(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, string(checkout.KindOrderPlaced), body["kind"])
	require.Contains(t, body["reference"], "COD-sokay-")
}

func TestSubmitPaystackNotConfigured(t *testing.T) {
	t.Parallel()
	h, storage := newCheckoutHandler(t, &stubPayments{initErr: paystack.ErrNotConfigured})
	fillCart(t, storage, "co-nocfg")

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/checkout",
		validForm("paystack"), cartCookieFor("co-nocfg"))
	require.NoError(t, h.Submit(c))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t,
		"Payment configuration error. Please try again later or use Cash on Delivery.",
		decodeBody(t, rec)["message"])
}

func TestSubmitPaystackPending(t *testing.T) {
	t.Parallel()
	h, storage := newCheckoutHandler(t, &stubPayments{})
	fillCart(t, storage, "co-pay")

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/checkout",
		validForm("paystack"), cartCookieFor("co-pay"))
	require.NoError(t, h.Submit(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, string(checkout.KindPaymentPending), body["kind"])
	require.NotEmpty(t, body["authorization_url"])
}

func TestVerifyUnknownReference(t *testing.T) {
	t.Parallel()
	h, _ := newCheckoutHandler(t, &stubPayments{})

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/checkout/verify?reference=sokay-0", nil)
	require.NoError(t, h.Verify(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerifyMissingReference(t *testing.T) {
	t.Parallel()
	h, _ := newCheckoutHandler(t, &stubPayments{})

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/checkout/verify", nil)
	require.NoError(t, h.Verify(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyCompletesPayment(t *testing.T) {
	t.Parallel()
	payments := &stubPayments{}
	h, storage := newCheckoutHandler(t, payments)
	fillCart(t, storage, "co-verify")

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/checkout",
		validForm("paystack"), cartCookieFor("co-verify"))
	require.NoError(t, h.Submit(c))
	reference := decodeBody(t, rec)["reference"].(string)

	payments.outcome = &paystack.Outcome{
		Status:    paystack.StatusSuccess,
		Reference: reference,
	}
	rec, c = doJSONRequest(t, http.MethodGet, "/api/v1/checkout/verify?reference="+reference, nil)
	require.NoError(t, h.Verify(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, string(checkout.KindOrderPlaced), decodeBody(t, rec)["kind"])

	// second resolve of the same reference is rejected
	rec, c = doJSONRequest(t, http.MethodGet, "/api/v1/checkout/verify?reference="+reference, nil)
	require.NoError(t, h.Verify(c))
	require.Equal(t, http.StatusConflict, rec.Code)
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sokaytech/storefront/internal/cart"
	"github.com/sokaytech/storefront/internal/catalog"
)

func newCartHandler() *CartHandler {
	return &CartHandler{
		Catalog: catalog.NewOfflineStore(),
		Storage: cart.NewMemoryStorage(),
	}
}

func TestGetCartIssuesToken(t *testing.T) {
	t.Parallel()
	h := newCartHandler()

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, h.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	res := http.Response{Header: rec.Header()}
	var found bool
	for _, ck := range res.Cookies() {
		if ck.Name == cartCookie && ck.Value != "" {
			found = true
		}
	}
	require.True(t, found, "expected a cart_token cookie on first touch")

	body := decodeBody(t, rec)
	require.EqualValues(t, 0, body["total_items"])
}

func TestAddToCart(t *testing.T) {
	t.Parallel()
	h := newCartHandler()
	ck := cartCookieFor("tok-add")

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "1", "quantity": 2}, ck)
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.EqualValues(t, 2, body["total_items"])
	require.EqualValues(t, 2*19999, body["total_price"])
}

func TestAddToCartUnknownProduct(t *testing.T) {
	t.Parallel()
	h := newCartHandler()

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "nope"}, cartCookieFor("tok-unknown"))
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddToCartDefaultsQuantity(t *testing.T) {
	t.Parallel()
	h := newCartHandler()

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "2", "quantity": -3}, cartCookieFor("tok-default"))
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.EqualValues(t, 1, body["total_items"])
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	t.Parallel()
	h := newCartHandler()
	ck := cartCookieFor("tok-update")

	_, c := doJSONRequest(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "1", "quantity": 2}, ck)
	require.NoError(t, h.AddToCart(c))

	rec, c := doJSONRequest(t, http.MethodPatch, "/api/v1/cart/items/1",
		map[string]any{"quantity": 5}, ck)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.UpdateQuantity(c))
	require.EqualValues(t, 5, decodeBody(t, rec)["total_items"])

	rec, c = doJSONRequest(t, http.MethodDelete, "/api/v1/cart/items/1", nil, ck)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.RemoveFromCart(c))
	require.EqualValues(t, 0, decodeBody(t, rec)["total_items"])
}

func TestClearCart(t *testing.T) {
	t.Parallel()
	h := newCartHandler()
	ck := cartCookieFor("tok-clear")

	_, c := doJSONRequest(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "1", "quantity": 3}, ck)
	require.NoError(t, h.AddToCart(c))

	rec, c := doJSONRequest(t, http.MethodDelete, "/api/v1/cart", nil, ck)
	require.NoError(t, h.ClearCart(c))
	require.EqualValues(t, 0, decodeBody(t, rec)["total_items"])

	rec, c = doJSONRequest(t, http.MethodGet, "/api/v1/cart", nil, ck)
	require.NoError(t, h.GetCart(c))
	require.EqualValues(t, 0, decodeBody(t, rec)["total_items"])
}

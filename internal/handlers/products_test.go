package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sokaytech/storefront/internal/catalog"
)

func TestGetProducts(t *testing.T) {
	t.Parallel()
	h := &ProductHandler{Catalog: catalog.NewOfflineStore()}

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/products", nil)
	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	meta := body["meta"].(map[string]any)
	require.EqualValues(t, 2, meta["total"])
	require.EqualValues(t, 1, meta["total_pages"])
	require.Equal(t, false, meta["has_next"])
	require.Len(t, body["data"], 2)
}

func TestGetProductsByCategory(t *testing.T) {
	t.Parallel()
	h := &ProductHandler{Catalog: catalog.NewOfflineStore()}

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/products?category=microphones", nil)
	require.NoError(t, h.GetProducts(c))

	body := decodeBody(t, rec)
	require.Len(t, body["data"], 1)
}

func TestGetProductBySlug(t *testing.T) {
	t.Parallel()
	h := &ProductHandler{Catalog: catalog.NewOfflineStore()}

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/products/sokay-a1-microphone", nil)
	c.SetParamNames("slug")
	c.SetParamValues("sokay-a1-microphone")
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Sokay A1 Microphone", decodeBody(t, rec)["name"])
}

func TestGetProductUnknownSlug(t *testing.T) {
	t.Parallel()
	h := &ProductHandler{Catalog: catalog.NewOfflineStore()}

	rec, c := doJSONRequest(t, http.MethodGet, "/api/v1/products/nope", nil)
	c.SetParamNames("slug")
	c.SetParamValues("nope")
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

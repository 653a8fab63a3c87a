package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sokaytech/storefront/internal/cart"
	"github.com/sokaytech/storefront/internal/catalog"
)

const cartCookie = "cart_token"

type CartHandler struct {
	Catalog catalog.Store
	Storage cart.Storage
}

// cartToken reads the shopper's cart cookie, issuing a fresh token on
// first touch so the cart survives navigation and reloads.
func cartToken(c echo.Context) string {
	if ck, err := c.Cookie(cartCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	token := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     cartCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func (h *CartHandler) open(c echo.Context) (*cart.Store, error) {
	return cart.Open(c.Request().Context(), cartToken(c), h.Storage)
}

func cartResponse(s *cart.Store) map[string]any {
	return map[string]any{
		"items":       s.Items(),
		"total_items": s.TotalItems(),
		"total_price": s.TotalPrice(),
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	store, err := h.open(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cartResponse(store))
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" {
		return errorResponse(c, http.StatusBadRequest, "missing product_id")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	product, err := h.Catalog.GetByID(c.Request().Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return errorResponse(c, http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	store, err := h.open(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := store.AddItem(c.Request().Context(), *product, req.Quantity); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cartResponse(store))
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	store, err := h.open(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := store.UpdateQuantity(c.Request().Context(), c.Param("id"), req.Quantity); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cartResponse(store))
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	store, err := h.open(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := store.RemoveItem(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cartResponse(store))
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	store, err := h.open(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := store.Clear(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cartResponse(store))
}

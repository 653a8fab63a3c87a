package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sokaytech/storefront/internal/orders"
	"github.com/sokaytech/storefront/internal/util"
)

type AdminOrderHandler struct {
	Orders orders.Store
}

func (h *AdminOrderHandler) ListOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	list, total, err := h.Orders.ListOrders(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": list,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *AdminOrderHandler) GetOrder(c echo.Context) error {
	order, items, err := h.Orders.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			return errorResponse(c, http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"order": order,
		"items": items,
	})
}

func (h *AdminOrderHandler) UpdateStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	err := h.Orders.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrBadStatus):
			return errorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, orders.ErrNotFound):
			return errorResponse(c, http.StatusNotFound, "order not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"id": c.Param("id"), "status": req.Status})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sokaytech/storefront/internal/catalog"
	"github.com/sokaytech/storefront/internal/util"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, msg string) error {
	return c.JSON(code, Response{Status: "error", Message: msg})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

type ProductHandler struct {
	Catalog catalog.Store
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	products, total, err := h.Catalog.ListProducts(c.Request().Context(), catalog.ListParams{
		Category: c.QueryParam("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": products,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return errorResponse(c, http.StatusBadRequest, "missing slug")
	}

	product, err := h.Catalog.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return errorResponse(c, http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, product)
}

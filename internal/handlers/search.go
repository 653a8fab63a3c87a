package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sokaytech/storefront/internal/search"
	"github.com/sokaytech/storefront/internal/util"
)

type SearchHandler struct {
	Search *search.Service
}

func (h *SearchHandler) SearchProducts(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return errorResponse(c, http.StatusBadRequest, "query parameter q is required")
	}
	if h.Search == nil {
		return errorResponse(c, http.StatusServiceUnavailable, "search is not available")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, products, err := h.Search.Search(c.Request().Context(), q, from, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": products,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

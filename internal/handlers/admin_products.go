package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sokaytech/storefront/internal/catalog"
	"github.com/sokaytech/storefront/internal/events"
	"github.com/sokaytech/storefront/internal/logging"
	"github.com/sokaytech/storefront/internal/models"
	"github.com/sokaytech/storefront/internal/search"
)

type AdminProductHandler struct {
	Catalog  catalog.Store
	Search   *search.Service
	Producer *events.Producer
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Images      string `json:"images"`
	Category    string `json:"category"`
	InStock     bool   `json:"in_stock"`
	Slug        string `json:"slug"`
}

func (h *AdminProductHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", event["product_id"].(string), event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("product event publish failed", "error", err)
	}
}

func (h *AdminProductHandler) index(c echo.Context, product *models.Product) {
	if h.Search == nil {
		return
	}
	if err := h.Search.IndexProduct(c.Request().Context(), product); err != nil {
		logging.FromContext(c.Request().Context()).Warn("product index failed", "product_id", product.ID, "error", err)
	}
}

func (h *AdminProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Slug == "" || req.Price < 0 {
		return errorResponse(c, http.StatusBadRequest, "name, slug and a non-negative price are required")
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Category:    req.Category,
		InStock:     req.InStock,
		Slug:        req.Slug,
	}
	if err := h.Catalog.CreateProduct(c.Request().Context(), &product); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.index(c, &product)
	h.publish(c, map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return c.JSON(http.StatusCreated, product)
}

func (h *AdminProductHandler) PatchProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	product := models.Product{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Category:    req.Category,
		InStock:     req.InStock,
		Slug:        req.Slug,
	}
	if err := h.Catalog.UpdateProduct(c.Request().Context(), &product); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return errorResponse(c, http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.index(c, &product)
	h.publish(c, map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return c.JSON(http.StatusOK, product)
}

func (h *AdminProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")
	if err := h.Catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return errorResponse(c, http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.Search != nil {
		if err := h.Search.DeleteProduct(c.Request().Context(), id); err != nil {
			logging.FromContext(c.Request().Context()).Warn("product unindex failed", "product_id", id, "error", err)
		}
	}
	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})

	return c.NoContent(http.StatusNoContent)
}

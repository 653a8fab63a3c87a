package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sokaytech/storefront/internal/handlers"
	"github.com/sokaytech/storefront/internal/jwtmiddleware"
)

type Deps struct {
	JWTSecret []byte

	ProductHandler      *handlers.ProductHandler
	SearchHandler       *handlers.SearchHandler
	CartHandler         *handlers.CartHandler
	CheckoutHandler     *handlers.CheckoutHandler
	NewsletterHandler   *handlers.NewsletterHandler
	AuthHandler         *handlers.AuthHandler
	AdminOrderHandler   *handlers.AdminOrderHandler
	AdminProductHandler *handlers.AdminProductHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:slug", d.ProductHandler.GetProduct)

	v1.GET("/search", d.SearchHandler.SearchProducts)

	cart := v1.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/items", d.CartHandler.AddToCart)
	cart.PATCH("/items/:id", d.CartHandler.UpdateQuantity)
	cart.DELETE("/items/:id", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	v1.POST("/checkout", d.CheckoutHandler.Submit)
	v1.GET("/checkout/verify", d.CheckoutHandler.Verify)

	v1.POST("/newsletter/subscribe", d.NewsletterHandler.Subscribe)

	v1.POST("/admin/login", d.AuthHandler.AdminLogin)

	admin := v1.Group("/admin", jwtmiddleware.JWT(d.JWTSecret), jwtmiddleware.RequireAdmin)

	admin.POST("/products", d.AdminProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.AdminProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.AdminProductHandler.DeleteProduct)

	admin.GET("/orders", d.AdminOrderHandler.ListOrders)
	admin.GET("/orders/:id", d.AdminOrderHandler.GetOrder)
	admin.PATCH("/orders/:id/status", d.AdminOrderHandler.UpdateStatus)
}

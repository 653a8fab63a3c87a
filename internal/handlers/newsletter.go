package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/sokaytech/storefront/internal/logging"
	"github.com/sokaytech/storefront/internal/mail"
	"github.com/sokaytech/storefront/internal/models"
)

type NewsletterHandler struct {
	// DB nil means offline mode: the subscription is acknowledged
	// without being durably recorded.
	DB       *gorm.DB
	Notifier *mail.Notifier
}

func (h *NewsletterHandler) Subscribe(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return errorResponse(c, http.StatusBadRequest, "invalid email address")
	}

	ctx := c.Request().Context()

	if h.DB != nil {
		sub := models.Subscriber{Email: req.Email, SubscribedAt: time.Now()}
		if err := h.DB.WithContext(ctx).Create(&sub).Error; err != nil {
			logging.FromContext(ctx).Error("subscriber insert failed", "error", err)
			return errorResponse(c, http.StatusInternalServerError, "Failed to add subscriber")
		}
	}

	emailSent := true
	if h.Notifier != nil {
		if err := h.Notifier.SendSubscribeConfirmation(ctx, req.Email); err != nil {
			emailSent = false
			logging.FromContext(ctx).Warn("subscribe confirmation email failed", "error", err)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"email_sent": emailSent,
	})
}

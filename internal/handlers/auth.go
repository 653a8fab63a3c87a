package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/sokaytech/storefront/internal/hash"
	"github.com/sokaytech/storefront/internal/models"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
}

func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	if h.DB == nil {
		return errorResponse(c, http.StatusServiceUnavailable, "admin login unavailable in offline mode")
	}

	var user models.AdminUser
	err := h.DB.WithContext(c.Request().Context()).
		Where("username = ?", req.Username).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorResponse(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return errorResponse(c, http.StatusUnauthorized, "invalid credentials")
	}

	claims := jwt.MapClaims{
		"sub":  user.Username,
		"role": user.Role,
		"exp":  time.Now().Add(12 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{"token": token})
}

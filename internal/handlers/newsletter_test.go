package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sokaytech/storefront/internal/models"
)

func TestSubscribe(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	h := &NewsletterHandler{DB: db}

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/newsletter/subscribe",
		map[string]any{"email": "ada@example.com"})
	require.NoError(t, h.Subscribe(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, true, body["email_sent"])

	var count int64
	require.NoError(t, db.Model(&models.Subscriber{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSubscribeInvalidEmail(t *testing.T) {
	t.Parallel()
	h := &NewsletterHandler{}

	for _, email := range []string{"", "   ", "no-at-sign"} {
		rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/newsletter/subscribe",
			map[string]any{"email": email})
		require.NoError(t, h.Subscribe(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestSubscribeOfflineStillAcknowledges(t *testing.T) {
	t.Parallel()
	h := &NewsletterHandler{}

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/newsletter/subscribe",
		map[string]any{"email": "ada@example.com"})
	require.NoError(t, h.Subscribe(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["success"])
}

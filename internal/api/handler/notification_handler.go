package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corebank/portal-gateway/internal/core/ports"
)

// NotificationHandler drains the per-session notification feed.
type NotificationHandler struct {
	feed ports.NotificationFeed
}

func NewNotificationHandler(feed ports.NotificationFeed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// Drain returns and removes pending notifications, oldest first.
//
// @Summary      Pending notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  notificationsResponse
// @Router       /notifications [get]
func (h *NotificationHandler) Drain(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	items, err := h.feed.Drain(c.Request().Context(), session.ID)
	if err != nil {
		return err
	}
	if items == nil {
		items = []ports.Notification{}
	}
	return c.JSON(http.StatusOK, notificationsResponse{Notifications: items})
}

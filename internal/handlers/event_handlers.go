package handlers

import (
	"io"

	"gym_admin_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// EventHandler streams change notifications to dashboard consumers.
type EventHandler struct {
	notifier *services.Notifier
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(n *services.Notifier) *EventHandler {
	return &EventHandler{notifier: n}
}

// Stream serves change notifications as server-sent events. Clients use the
// "members" and "attendance" topics to know which views to recompute.
func (h *EventHandler) Stream(c *gin.Context) {
	ch := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Topic), event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

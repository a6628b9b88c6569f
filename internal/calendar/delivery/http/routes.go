package http

import (
	"github.com/gin-gonic/gin"

	"unified-calendar/internal/middleware"
)

// RegisterRoutes maps calendar routes under rg (/api/v1/calendar).
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.Use(mw.Auth(), mw.RateLimit())

	rg.GET("/events", h.ListEvents)
	rg.GET("/events.ics", h.ExportICS)
	rg.GET("/conflicts", h.FindConflicts)
	rg.GET("/freebusy", h.FreeBusy)

	events := rg.Group("/events/:provider")
	{
		events.POST("", h.CreateEvent)
		events.GET("/:id", h.GetEvent)
		events.DELETE("/:id", h.DeleteEvent)
		events.POST("/:id/respond", h.Respond)
	}
}

package http

import (
	"github.com/gin-gonic/gin"

	"unified-calendar/internal/middleware"
)

// RegisterRoutes maps account routes under rg (/api/v1).
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	accounts := rg.Group("/accounts", mw.Auth(), mw.RateLimit())
	{
		accounts.GET("", h.List)
		accounts.DELETE("/:provider", h.Disconnect)
	}

	internal := rg.Group("/internal/accounts", mw.InternalAuth())
	{
		internal.POST("", h.Connect)
	}
}

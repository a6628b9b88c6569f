package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	calendarHTTP "unified-calendar/internal/calendar/delivery/http"
	calendarUC "unified-calendar/internal/calendar/usecase"
	"unified-calendar/internal/credential"
	"unified-calendar/internal/middleware"
)

func (srv HTTPServer) setupCalendarDomain(ctx context.Context, rg *gin.RouterGroup, mw middleware.Middleware, credentials credential.UseCase) error {
	uc := calendarUC.New(srv.l, credentials, srv.adapters, srv.dates, srv.calendarCfg)

	h := calendarHTTP.New(srv.l, uc, srv.dates)

	// Routes: /api/v1/calendar/...
	calendarHTTP.RegisterRoutes(rg, h, mw)

	srv.l.Infof(ctx, "Calendar domain registered with %d providers", len(srv.adapters))
	return nil
}

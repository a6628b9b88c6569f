package http

import (
	"github.com/gin-gonic/gin"

	"unified-calendar/internal/middleware"
	"unified-calendar/internal/model"
	pkgErrors "unified-calendar/pkg/errors"
)

func (h *handler) processScope(c *gin.Context) (model.Scope, error) {
	sc, ok := middleware.GetScope(c)
	if !ok {
		return sc, pkgErrors.ErrUnauthorized
	}
	return sc, nil
}

// processConnectReq binds and validates the deposit body.
func (h *handler) processConnectReq(c *gin.Context) (connectReq, error) {
	var req connectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

// processProviderParam parses the :provider path param.
func (h *handler) processProviderParam(c *gin.Context) (model.Provider, error) {
	p, err := model.ParseProvider(c.Param("provider"))
	if err != nil {
		return "", pkgErrors.NewHTTPError(400, err.Error())
	}
	return p, nil
}

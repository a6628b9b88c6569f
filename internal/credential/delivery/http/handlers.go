package http

import (
	"github.com/gin-gonic/gin"

	"unified-calendar/pkg/response"
)

// List godoc
// @Summary     List connected accounts
// @Description Returns the connection status of every supported provider for the caller.
// @Tags        Accounts
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Success     200 {object} listResp
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/accounts [GET]
func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.processScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	accounts, err := h.uc.ListAccounts(ctx, sc)
	if err != nil {
		h.l.Errorf(ctx, "uc.ListAccounts: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newListResp(accounts))
}

// Disconnect godoc
// @Summary     Disconnect a provider
// @Description Removes the caller's connected account and its stored tokens.
// @Tags        Accounts
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       provider  path   string true "google or microsoft"
// @Success     200 {object} response.Resp "OK"
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/accounts/{provider} [DELETE]
func (h *handler) Disconnect(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.processScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	p, err := h.processProviderParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.uc.Disconnect(ctx, sc, p); err != nil {
		h.l.Warnf(ctx, "uc.Disconnect: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, nil)
}

// Connect godoc
// @Summary     Deposit an OAuth grant
// @Description Stores tokens obtained by the consent flow, replacing any earlier account of the same user and provider.
// @Tags        Internal
// @Accept      json
// @Produce     json
// @Param       X-Internal-Key header string     true "Internal key"
// @Param       body           body   connectReq true "Grant"
// @Success     200 {object} connectResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     403 {object} response.Resp "Forbidden"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/internal/accounts [POST]
func (h *handler) Connect(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processConnectReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	acc, err := h.uc.Connect(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Connect: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newConnectResp(acc))
}

package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	"unified-calendar/internal/credential"
	credentialHTTP "unified-calendar/internal/credential/delivery/http"
	"unified-calendar/internal/credential/repository"
	credentialMemory "unified-calendar/internal/credential/repository/memory"
	credentialPostgre "unified-calendar/internal/credential/repository/postgre"
	credentialUC "unified-calendar/internal/credential/usecase"
	"unified-calendar/internal/middleware"
)

// setupCredentialDomain builds the credential store and registers the
// account routes. The use case is returned for the calendar domain.
func (srv HTTPServer) setupCredentialDomain(ctx context.Context, api *gin.RouterGroup, mw middleware.Middleware) (credential.UseCase, error) {
	// 1. Repository
	var repo repository.Repository
	if srv.postgresDB != nil {
		repo = credentialPostgre.New(srv.postgresDB, srv.l)
	} else {
		srv.l.Warn(ctx, "Credential store is in memory, connected accounts are lost on restart")
		repo = credentialMemory.New()
	}

	// 2. UseCase
	uc := credentialUC.New(srv.l, repo, srv.encrypter, srv.refresher, srv.adapters, srv.credentialCfg)

	// 3. HTTP Handler
	h := credentialHTTP.New(srv.l, uc)

	// 4. Routes: /api/v1/accounts, /api/v1/internal/accounts
	credentialHTTP.RegisterRoutes(api, h, mw)

	srv.l.Infof(ctx, "Credential domain registered")
	return uc, nil
}

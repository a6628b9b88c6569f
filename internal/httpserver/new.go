package httpserver

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"unified-calendar/internal/calendar"
	"unified-calendar/internal/credential"
	"unified-calendar/internal/middleware"
	"unified-calendar/internal/provider"
	"unified-calendar/pkg/datemath"
	"unified-calendar/pkg/encrypter"
	"unified-calendar/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin             *gin.Engine
	l               log.Logger
	port            int
	mode            string
	environment     string
	shutdownTimeout time.Duration

	// Storage. postgresDB is nil when credentials live in memory.
	postgresDB *gorm.DB
	encrypter  encrypter.Encrypter

	// Providers
	refresher credential.Refresher
	adapters  provider.Registry
	dates     *datemath.Parser

	credentialCfg credential.Config
	calendarCfg   calendar.Config
	middlewareCfg middleware.Config
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger          log.Logger
	Port            int
	Mode            string
	Environment     string
	ShutdownTimeout time.Duration

	PostgresDB *gorm.DB
	Encrypter  encrypter.Encrypter

	Refresher credential.Refresher
	Adapters  provider.Registry
	Dates     *datemath.Parser

	Credential credential.Config
	Calendar   calendar.Config
	Middleware middleware.Config
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	engine := gin.New()
	// Graph event ids may carry '/' and '=' which must survive routing.
	engine.UseRawPath = true
	engine.UnescapePathValues = true

	srv := &HTTPServer{
		l:               logger,
		gin:             engine,
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		shutdownTimeout: cfg.ShutdownTimeout,
		postgresDB:      cfg.PostgresDB,
		encrypter:       cfg.Encrypter,
		refresher:       cfg.Refresher,
		adapters:        cfg.Adapters,
		dates:           cfg.Dates,
		credentialCfg:   cfg.Credential,
		calendarCfg:     cfg.Calendar,
		middlewareCfg:   cfg.Middleware,
	}
	if srv.shutdownTimeout <= 0 {
		srv.shutdownTimeout = 10 * time.Second
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.encrypter == nil {
		return errors.New("encrypter is required")
	}
	if srv.refresher == nil {
		return errors.New("refresher is required")
	}
	if srv.adapters == nil {
		return errors.New("adapters are required")
	}
	if srv.dates == nil {
		return errors.New("date parser is required")
	}
	return nil
}

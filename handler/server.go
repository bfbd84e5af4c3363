package handler

import (
	"net/http"

	"curvance/core"
	"curvance/handler/hc"
	"curvance/handler/rest"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
)

// Server server
type Server struct {
	system        *core.System
	tokenStore    core.IMarketTokenStore
	positionStore core.IPositionStore
	eventStore    core.IEventStore
	accountSrv    core.IAccountService
	tokenSrv      core.IMarketTokenService
}

// New new server
func New(
	system *core.System,
	tokenStore core.IMarketTokenStore,
	positionStore core.IPositionStore,
	eventStore core.IEventStore,
	accountSrv core.IAccountService,
	tokenSrv core.IMarketTokenService,
) Server {
	return Server{
		system:        system,
		tokenStore:    tokenStore,
		positionStore: positionStore,
		eventStore:    eventStore,
		accountSrv:    accountSrv,
		tokenSrv:      tokenSrv,
	}
}

// Handle assemble the full http surface
func (s Server) Handle() http.Handler {
	mux := chi.NewMux()
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(cors.AllowAll().Handler)
	mux.Use(logger.WithRequestID)
	mux.Use(middleware.Logger)
	mux.Use(middleware.NewCompressor(5).Handler)

	mux.Mount("/hc", hc.Handle(s.system.Version))
	mux.Mount("/api", rest.Handle(s.system, s.tokenStore, s.positionStore, s.eventStore, s.accountSrv, s.tokenSrv))

	return mux
}

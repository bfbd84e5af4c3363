package rest

import (
	"errors"
	"net/http"

	"curvance/core"
	"curvance/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	system *core.System,
	tokenStore core.IMarketTokenStore,
	positionStore core.IPositionStore,
	eventStore core.IEventStore,
	accountSrv core.IAccountService,
	tokenSrv core.IMarketTokenService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/markets/all", allMarketsHandler(tokenStore, positionStore, tokenSrv))
	router.Get("/markets/{address}", marketHandler(tokenStore, positionStore, tokenSrv))
	router.Get("/accounts/{address}", accountHandler(positionStore, accountSrv))
	router.Get("/liquidatable", liquidatableHandler(accountSrv))
	router.Get("/events", eventsHandler(eventStore))

	return router
}

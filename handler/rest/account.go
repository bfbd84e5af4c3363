package rest

import (
	"net/http"

	"curvance/core"
	"curvance/handler/render"
	"curvance/handler/views"

	"github.com/go-chi/chi"
)

func accountHandler(positionStore core.IPositionStore, accountSrv core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		address := chi.URLParam(r, "address")

		status, err := accountSrv.AccountStatus(ctx, address)
		if err != nil {
			render.Error(w, err)
			return
		}

		snapshot, err := accountSrv.LiquidationStatus(ctx, address)
		if err != nil {
			render.Error(w, err)
			return
		}

		positions, err := positionStore.FindByAccount(ctx, address)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, &views.Account{
			Address:   address,
			Status:    status,
			Snapshot:  snapshot,
			Liquidity: status.Liquidity(),
			Positions: positions,
		})
	}
}

func liquidatableHandler(accountSrv core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := accountSrv.LiquidatableAccounts(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, accounts)
	}
}

package rest

import (
	"net/http"

	"curvance/core"
	"curvance/handler/render"
	"curvance/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func allMarketsHandler(tokenStore core.IMarketTokenStore, positionStore core.IPositionStore, tokenSrv core.IMarketTokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokens, err := tokenStore.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		marketViews := make([]*views.Market, 0, len(tokens))
		for _, token := range tokens {
			marketViews = append(marketViews, marketView(r, token, positionStore, tokenSrv))
		}

		render.JSON(w, marketViews)
	}
}

func marketHandler(tokenStore core.IMarketTokenStore, positionStore core.IPositionStore, tokenSrv core.IMarketTokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := tokenStore.Find(ctx, chi.URLParam(r, "address"))
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if token.ID == 0 {
			render.Error(w, core.ErrTokenNotListed)
			return
		}

		render.JSON(w, marketView(r, token, positionStore, tokenSrv))
	}
}

func marketView(r *http.Request, token *core.MarketToken, positionStore core.IPositionStore, tokenSrv core.IMarketTokenService) *views.Market {
	ctx := r.Context()

	posted := decimal.Zero
	if token.IsCToken {
		if sum, err := positionStore.SumCollateral(ctx, token.Address); err == nil {
			posted = sum
		}
	}

	return &views.Market{
		MarketToken:     *token,
		CurExchangeRate: tokenSrv.CurExchangeRate(ctx, token),
		PostedTotal:     posted,
	}
}

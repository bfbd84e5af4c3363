package rest

import (
	"net/http"

	"curvance/core"
	"curvance/handler/render"

	"github.com/spf13/cast"
)

const maxEventPage = 100

func eventsHandler(eventStore core.IEventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		fromID := cast.ToUint64(r.URL.Query().Get("cursor"))
		limit := cast.ToInt(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > maxEventPage {
			limit = maxEventPage
		}

		var (
			events []*core.Event
			err    error
		)

		if typ := r.URL.Query().Get("type"); typ != "" {
			events, err = eventStore.FindByType(ctx, typ, limit)
		} else {
			events, err = eventStore.List(ctx, fromID, limit)
		}

		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, events)
	}
}

package controllers

import (
	"net/http"

	"github.com/Abid-Al-Labib/erp-base-sub000/api/responses"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/recompute"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
)

// OrderControls recomputes the advance/revert visibility snapshot for a
// single order on demand. The worker keeps these fresh asynchronously;
// this endpoint exists for clients that need a synchronous read.
func OrderControls(engine *recompute.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := engine.Recompute(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}

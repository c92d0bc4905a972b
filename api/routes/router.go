package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Abid-Al-Labib/erp-base-sub000/api/controllers"
	"github.com/Abid-Al-Labib/erp-base-sub000/api/middleware"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/inventory"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/orders"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/recompute"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/config"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database *db.Client,
	cache *redis.Client,
	ordersSvc orders.Service,
	controlsEngine *recompute.Engine,
	storageRepo *inventory.StorageRepository,
	machineRepo *inventory.MachineRepository,
	damagedRepo *inventory.DamagedRepository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, cache, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(ordersSvc, logg))
			r.Get("/", controllers.OrderList(ordersSvc, logg))

			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.OrderGet(ordersSvc, logg))
				r.Delete("/", controllers.OrderDelete(ordersSvc, logg))
				r.Get("/tracker", controllers.OrderTracker(ordersSvc, logg))
				r.Get("/controls", controllers.OrderControls(controlsEngine, logg))
				r.Post("/advance", controllers.OrderAdvance(ordersSvc, logg))
				r.Post("/revert", controllers.OrderRevert(ordersSvc, logg))
				r.Post("/approve-all", controllers.OrderApproveAll(ordersSvc, logg))
			})
		})

		r.Route("/line-items/{lineItemID}", func(r chi.Router) {
			r.Delete("/", controllers.LineItemDelete(ordersSvc, logg))
			r.Get("/actions", controllers.LineItemActions(ordersSvc, logg))
			r.Post("/approve", controllers.LineItemApprove(ordersSvc, logg))
			r.Post("/quotation", controllers.LineItemQuotation(ordersSvc, logg))
			r.Post("/take-from-storage", controllers.LineItemTakeFromStorage(ordersSvc, logg))
			r.Post("/date", controllers.LineItemSetDate(ordersSvc, logg))
			r.Patch("/quantity", controllers.LineItemSetQuantity(ordersSvc, logg))
			r.Patch("/unstable-type", controllers.LineItemSetUnstableType(ordersSvc, logg))
			r.Patch("/note", controllers.LineItemSetNote(ordersSvc, logg))
			r.Post("/sample/request", controllers.LineItemRequestSample(ordersSvc, logg))
			r.Post("/sample/approve", controllers.LineItemApproveSample(ordersSvc, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/storage", controllers.StorageParts(storageRepo, logg))
			r.Get("/machine", controllers.MachineParts(machineRepo, logg))
			r.Get("/damaged", controllers.DamagedParts(damagedRepo, logg))
		})
	})

	return r
}

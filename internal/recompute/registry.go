package recompute

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/metrics"
)

// Registry hands out one controller per order and routes change
// notifications to it.
type Registry struct {
	mu          sync.Mutex
	controllers map[uuid.UUID]*Controller

	engine *Engine
	logg   *logger.Logger
	m      *metrics.RecomputeMetrics
}

func NewRegistry(engine *Engine, logg *logger.Logger, m *metrics.RecomputeMetrics) *Registry {
	return &Registry{
		controllers: make(map[uuid.UUID]*Controller),
		engine:      engine,
		logg:        logg,
		m:           m,
	}
}

// Notify routes one change notification to the order's controller,
// creating it on first contact. trigger names the table the notification
// came from and only feeds metrics.
func (r *Registry) Notify(ctx context.Context, orderID uuid.UUID, trigger string) {
	r.controller(orderID, trigger).Notify(ctx)
}

func (r *Registry) controller(orderID uuid.UUID, trigger string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.controllers[orderID]; ok {
		return existing
	}

	ctrl := NewController(
		func(ctx context.Context) error {
			started := time.Now()
			snapshot, err := r.engine.Recompute(ctx, orderID)
			if err != nil {
				r.m.IncFailure(trigger)
				return err
			}
			r.m.IncPass(trigger)
			r.m.ObserveDuration(trigger, time.Since(started))
			if snapshot.Deleted {
				r.Remove(orderID)
			}
			if r.logg != nil {
				logCtx := r.logg.WithFields(ctx, map[string]any{
					"order_id":     orderID.String(),
					"show_advance": snapshot.ShowAdvance,
					"show_revert":  snapshot.ShowRevert,
					"is_complete":  snapshot.IsComplete,
					"deleted":      snapshot.Deleted,
				})
				r.logg.Info(logCtx, "order recomputed")
			}
			return nil
		},
		r.m.IncCoalesced,
		func(err error) {
			if r.logg != nil {
				r.logg.Error(context.Background(), "recompute pass failed", err)
			}
		},
	)
	r.controllers[orderID] = ctrl
	return ctrl
}

// Remove drops a deleted order's controller.
func (r *Registry) Remove(orderID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, orderID)
}

// Size reports tracked controllers, for health reporting.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/config"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/metrics"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/redis"
)

const publisherLockName = "outbox-publisher"

// Publisher drains unpublished outbox rows onto the redis change channels.
// A redis lock keeps at most one replica draining at a time; replicas that
// lose the lock idle until the next tick.
type Publisher struct {
	repo  *Repository
	cache *redis.Client
	cfg   config.OutboxConfig
	logg  *logger.Logger
	m     *metrics.OutboxPublisherMetrics
}

func NewPublisher(repo *Repository, cache *redis.Client, cfg config.OutboxConfig, logg *logger.Logger, m *metrics.OutboxPublisherMetrics) *Publisher {
	return &Publisher{repo: repo, cache: cache, cfg: cfg, logg: logg, m: m}
}

// Run blocks until ctx is cancelled, draining a batch every poll interval.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	prune := time.NewTicker(time.Hour)
	defer prune.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.drainOnce(ctx); err != nil && p.logg != nil {
				p.logg.Error(ctx, "outbox drain failed", err)
			}
		case <-prune.C:
			p.pruneOnce(ctx)
		}
	}
}

func (p *Publisher) drainOnce(ctx context.Context) error {
	acquired, err := p.cache.AcquireLock(ctx, publisherLockName, p.cfg.LockTTL)
	if err != nil {
		return err
	}
	if !acquired {
		return nil
	}
	defer func() {
		if err := p.cache.ReleaseLock(context.WithoutCancel(ctx), publisherLockName); err != nil && p.logg != nil {
			p.logg.Warn(ctx, "outbox publisher lock release failed")
		}
	}()

	events, err := p.repo.FetchUnpublished(p.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.publishOne(ctx, event)
	}
	return nil
}

func (p *Publisher) publishOne(ctx context.Context, event models.OutboxEvent) {
	table := event.AggregateType.Table()

	var envelope PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		// A payload that cannot decode will never succeed on retry.
		p.recordFailure(ctx, event, table, err)
		return
	}

	notification := redis.ChangeNotification{
		Table:   table,
		OrderID: envelope.OrderID,
		EventID: envelope.EventID,
	}
	if err := p.cache.PublishChange(ctx, p.cfg.ChannelPrefix, notification); err != nil {
		p.recordFailure(ctx, event, table, err)
		return
	}

	if err := p.repo.MarkPublished(event.ID); err != nil {
		p.recordFailure(ctx, event, table, err)
		return
	}
	if p.m != nil {
		p.m.IncPublished(table)
	}
}

func (p *Publisher) recordFailure(ctx context.Context, event models.OutboxEvent, table string, cause error) {
	if err := p.repo.MarkFailed(event.ID, cause); err != nil && p.logg != nil {
		p.logg.Error(ctx, "outbox mark-failed write failed", err)
	}
	if p.m != nil {
		p.m.IncFailed(table)
	}
	if p.logg != nil {
		logCtx := p.logg.WithFields(ctx, map[string]any{
			"outbox_event_id": event.ID.String(),
			"aggregate_table": table,
		})
		p.logg.Error(logCtx, "outbox publish failed", cause)
	}
}

func (p *Publisher) pruneOnce(ctx context.Context) {
	if p.cfg.RetentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -p.cfg.RetentionDays)
	removed, err := p.repo.DeletePublishedBefore(cutoff)
	if err != nil {
		if p.logg != nil {
			p.logg.Error(ctx, "outbox retention prune failed", err)
		}
		return
	}
	if removed > 0 && p.logg != nil {
		logCtx := p.logg.WithFields(ctx, map[string]any{"removed": removed})
		p.logg.Info(logCtx, "outbox retention prune complete")
	}
}

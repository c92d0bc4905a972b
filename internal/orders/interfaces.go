package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// approvalReconciler applies the order-type-specific pool movements when
// an order leaves its initial status.
type approvalReconciler interface {
	Reconcile(tx *gorm.DB, order models.Order, items []models.OrderLineItem) error
}

// receiptCompleter credits the pools for one received line item.
type receiptCompleter interface {
	Complete(tx *gorm.DB, order models.Order, item models.OrderLineItem) error
}

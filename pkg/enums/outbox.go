package enums

// OutboxEventType enumerates the domain events persisted to the outbox.
type OutboxEventType string

const (
	EventOrderCreated       OutboxEventType = "order.created"
	EventOrderStatusChanged OutboxEventType = "order.status_changed"
	EventOrderReverted      OutboxEventType = "order.reverted"
	EventOrderDeleted       OutboxEventType = "order.deleted"
	EventLineItemUpdated    OutboxEventType = "line_item.updated"
	EventLineItemDeleted    OutboxEventType = "line_item.deleted"
	EventLineItemReceived   OutboxEventType = "line_item.received"
	EventInventoryAdjusted  OutboxEventType = "inventory.adjusted"
)

// OutboxAggregateType names the entity a domain event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder         OutboxAggregateType = "order"
	AggregateOrderLineItem OutboxAggregateType = "order_line_item"
	AggregateStoragePart   OutboxAggregateType = "storage_part"
	AggregateMachinePart   OutboxAggregateType = "machine_part"
	AggregateDamagedPart   OutboxAggregateType = "damaged_part"
)

// Table returns the table name change notifications for this aggregate
// are keyed by on the wire.
func (a OutboxAggregateType) Table() string {
	switch a {
	case AggregateOrder:
		return "orders"
	case AggregateOrderLineItem:
		return "order_line_items"
	case AggregateStoragePart:
		return "storage_parts"
	case AggregateMachinePart:
		return "machine_parts"
	case AggregateDamagedPart:
		return "damaged_parts"
	default:
		return string(a)
	}
}

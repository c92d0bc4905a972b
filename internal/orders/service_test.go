package orders

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/internal/gates"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/inventory"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/workflow"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/outbox"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/pagination"
)

type stubOrdersRepo struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*models.Order
	items    map[uuid.UUID]*models.OrderLineItem
	statuses map[uuid.UUID]*models.Status
	trackers []models.StatusTracker
	deleted  []uuid.UUID
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		orders:   make(map[uuid.UUID]*models.Order),
		items:    make(map[uuid.UUID]*models.OrderLineItem),
		statuses: make(map[uuid.UUID]*models.Status),
	}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order, items []models.OrderLineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	for i := range items {
		item := items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		s.items[item.ID] = &item
	}
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	out := *order
	out.CurrentStatus = s.statuses[order.CurrentStatusID]
	out.LineItems = nil
	for _, item := range s.items {
		if item.OrderID == id {
			out.LineItems = append(out.LineItems, *item)
		}
	}
	return &out, nil
}

func (s *stubOrdersRepo) List(ctx context.Context, filter ListFilter) ([]models.Order, *pagination.Cursor, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, id)
	for itemID, item := range s.items {
		if item.OrderID == id {
			delete(s.items, itemID)
		}
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, orderID, statusID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	order.CurrentStatusID = statusID
	return nil
}

func (s *stubOrdersRepo) AppendTracker(ctx context.Context, entry models.StatusTracker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackers = append(s.trackers, entry)
	return nil
}

func (s *stubOrdersRepo) ListTracker(ctx context.Context, orderID uuid.UUID) ([]models.StatusTracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.StatusTracker
	for _, entry := range s.trackers {
		if entry.OrderID == orderID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *stubOrdersRepo) FindLineItem(ctx context.Context, id uuid.UUID) (*models.OrderLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
	}
	out := *item
	return &out, nil
}

func (s *stubOrdersRepo) ListLineItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.OrderLineItem
	for _, item := range s.items {
		if item.OrderID == orderID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubOrdersRepo) UpdateLineItemFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
	}
	for key, value := range fields {
		switch key {
		case "approved_pending_order":
			item.ApprovedPendingOrder = value.(bool)
		case "approved_office_order":
			item.ApprovedOfficeOrder = value.(bool)
		case "approved_budget":
			item.ApprovedBudget = value.(bool)
		case "approved_storage_withdrawal":
			item.ApprovedStorageWithdrawal = value.(bool)
		case "sample_requested":
			item.SampleRequested = value.(bool)
		case "sample_approved":
			item.SampleApproved = value.(bool)
		case "stage":
			item.Stage = value.(enums.ProcurementStage)
		case "qty":
			if qty, ok := value.(int); ok {
				item.Qty = qty
			}
		case "received_date":
			if value == nil {
				item.ReceivedDate = nil
			} else {
				date := value.(time.Time)
				item.ReceivedDate = &date
			}
		case "purchased_date":
			date := value.(time.Time)
			item.PurchasedDate = &date
		case "sent_date":
			date := value.(time.Time)
			item.SentDate = &date
		}
	}
	return nil
}

func (s *stubOrdersRepo) DeleteLineItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *stubOrdersRepo) CountLineItems(ctx context.Context, orderID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, item := range s.items {
		if item.OrderID == orderID {
			count++
		}
	}
	return count, nil
}

type stubWorkflows struct {
	seq *workflow.Sequence
}

func (s *stubWorkflows) WithTx(tx *gorm.DB) workflow.Repository { return s }

func (s *stubWorkflows) FindByID(ctx context.Context, workflowID uuid.UUID) (*workflow.Sequence, error) {
	return s.seq, nil
}

func (s *stubWorkflows) FindByOrderType(ctx context.Context, orderType enums.OrderType) (*workflow.Sequence, error) {
	return s.seq, nil
}

type stubTxRunner struct {
	db *gorm.DB
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.Transaction(fn)
}

type stubOutbox struct {
	mu     sync.Mutex
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *stubOutbox) countType(eventType enums.OutboxEventType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, event := range s.events {
		if event.EventType == eventType {
			count++
		}
	}
	return count
}

type stubApproval struct {
	calls int
	err   error
}

func (s *stubApproval) Reconcile(tx *gorm.DB, order models.Order, items []models.OrderLineItem) error {
	s.calls++
	return s.err
}

type stubReceipt struct {
	calls int
	err   error
}

func (s *stubReceipt) Complete(tx *gorm.DB, order models.Order, item models.OrderLineItem) error {
	s.calls++
	return s.err
}

type serviceFixture struct {
	svc      Service
	repo     *stubOrdersRepo
	outbox   *stubOutbox
	approval *stubApproval
	receipt  *stubReceipt
	storage  *inventory.StorageRepository
	db       *gorm.DB

	seq      *workflow.Sequence
	byName   map[string]*models.Status
	workflow uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(`CREATE TABLE IF NOT EXISTS storage_parts (
  factory_id TEXT NOT NULL,
  part_id TEXT NOT NULL,
  qty INTEGER NOT NULL DEFAULT 0 CHECK (qty >= 0),
  avg_price NUMERIC,
  updated_at DATETIME,
  PRIMARY KEY (factory_id, part_id)
);`).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	repo := newStubOrdersRepo()
	byName := make(map[string]*models.Status)
	var statuses []models.Status
	for _, name := range []string{
		workflow.StatusPending,
		workflow.StatusOfficeReview,
		workflow.StatusWaitingForQuotation,
		workflow.StatusQuotationReview,
		workflow.StatusPurchasing,
		workflow.StatusShipping,
		workflow.StatusReceiving,
		workflow.StatusCompleted,
	} {
		status := models.Status{ID: uuid.New(), Name: name}
		statuses = append(statuses, status)
		repo.statuses[status.ID] = &statuses[len(statuses)-1]
		byName[name] = &statuses[len(statuses)-1]
	}

	workflowID := uuid.New()
	seq := &workflow.Sequence{
		WorkflowID: workflowID,
		OrderType:  enums.OrderTypePFM,
		Statuses:   statuses,
	}

	outboxStub := &stubOutbox{}
	approvalStub := &stubApproval{}
	receiptStub := &stubReceipt{}
	storage := inventory.NewStorageRepository(db)

	svc, err := NewService(
		repo,
		&stubWorkflows{seq: seq},
		storage,
		&stubTxRunner{db: db},
		outboxStub,
		approvalStub,
		receiptStub,
		logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return &serviceFixture{
		svc:      svc,
		repo:     repo,
		outbox:   outboxStub,
		approval: approvalStub,
		receipt:  receiptStub,
		storage:  storage,
		db:       db,
		seq:      seq,
		byName:   byName,
		workflow: workflowID,
	}
}

func (f *serviceFixture) seedOrder(t *testing.T, orderType enums.OrderType, statusName string, items ...models.OrderLineItem) *models.Order {
	t.Helper()
	status, ok := f.byName[statusName]
	if !ok {
		t.Fatalf("unknown status %q", statusName)
	}
	machineID := uuid.New()
	order := &models.Order{
		ID:              uuid.New(),
		OrderType:       orderType,
		WorkflowID:      f.workflow,
		CurrentStatusID: status.ID,
		FactoryID:       uuid.New(),
		CreatedBy:       uuid.New(),
	}
	if orderType.IsMachineAffecting() {
		order.MachineID = &machineID
	}
	f.repo.orders[order.ID] = order
	for i := range items {
		item := items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		if item.PartID == uuid.Nil {
			item.PartID = uuid.New()
		}
		f.repo.items[item.ID] = &item
	}
	return order
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected structured error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func TestAdvanceFromPendingRunsReconciliation(t *testing.T) {
	f := newServiceFixture(t)
	order := f.seedOrder(t, enums.OrderTypePFM, workflow.StatusPending,
		models.OrderLineItem{Qty: 5, ApprovedPendingOrder: true})

	next, err := f.svc.Advance(context.Background(), AdvanceInput{OrderID: order.ID, ActorID: uuid.New()})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if next.Name != workflow.StatusOfficeReview {
		t.Fatalf("expected advance to office review, got %q", next.Name)
	}
	if f.approval.calls != 1 {
		t.Fatalf("expected one reconciliation, got %d", f.approval.calls)
	}
	if f.repo.orders[order.ID].CurrentStatusID != next.ID {
		t.Fatalf("status not persisted")
	}
	if len(f.repo.trackers) != 1 || f.repo.trackers[0].StatusID != next.ID {
		t.Fatalf("expected exactly one tracker entry for the new status")
	}
	if f.outbox.countType(enums.EventOrderStatusChanged) != 1 {
		t.Fatalf("expected a status change event")
	}
}

func TestAdvanceBlockedWhenActionsIncomplete(t *testing.T) {
	f := newServiceFixture(t)
	order := f.seedOrder(t, enums.OrderTypePFM, workflow.StatusPending,
		models.OrderLineItem{Qty: 5, ApprovedPendingOrder: true},
		models.OrderLineItem{Qty: 2})

	_, err := f.svc.Advance(context.Background(), AdvanceInput{OrderID: order.ID, ActorID: uuid.New()})
	expectCode(t, err, pkgerrors.CodeStateConflict)
	if f.approval.calls != 0 {
		t.Fatalf("reconciliation must not run when actions are incomplete")
	}
	if len(f.repo.trackers) != 0 {
		t.Fatalf("no tracker entry expected on a blocked advance")
	}
}

func TestAdvanceNonInitialSkipsReconciliation(t *testing.T) {
	f := newServiceFixture(t)
	order := f.seedOrder(t, enums.OrderTypePFM, workflow.StatusOfficeReview,
		models.OrderLineItem{Qty: 5, ApprovedOfficeOrder: true})

	next, err := f.svc.Advance(context.Background(), AdvanceInput{OrderID: order.ID, ActorID: uuid.New()})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if next.Name != workflow.StatusWaitingForQuotation {
		t.Fatalf("expected waiting for quotation, got %q", next.Name)
	}
	if f.approval.calls != 0 {
		t.Fatalf("reconciliation must only run when leaving the initial status")
	}
}

func TestRevertToQuotationAnchor(t *testing.T) {
	f := newServiceFixture(t)
	order := f.seedOrder(t, enums.OrderTypePFM, workflow.StatusQuotationReview,
		models.OrderLineItem{Qty: 5})

	anchor, err := f.svc.Revert(context.Background(), RevertInput{OrderID: order.ID, ActorID: uuid.New()})
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if anchor.Name != workflow.StatusWaitingForQuotation {
		t.Fatalf("expected quotation anchor, got %q", anchor.Name)
	}
	if f.outbox.countType(enums.EventOrderReverted) != 1 {
		t.Fatalf("expected a revert event")
	}
}

func TestRevertBlockedAfterPurchase(t *testing.T) {
	f := newServiceFixture(t)
	now := time.Now()
	order := f.seedOrder(t, enums.OrderTypePFM, workflow.StatusShipping,
		models.OrderLineItem{Qty: 5, PurchasedDate: &now})

	_, err := f.svc.Revert(context.Background(), RevertInput{OrderID: order.ID, ActorID: uuid.New()})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestRevertBlockedBeforeAnchor(t *testing.T) {
	f := newServiceFixture(t)
	order := f.seedOrder(t, enums.OrderTypePFM, workflow.StatusPending,
		models.OrderLineItem{Qty: 5})

	_, err := f.svc.Revert(context.Background(), RevertInput{OrderID: order.ID, ActorID: uuid.New()})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestApproveIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	item := models.OrderLineItem{ID: uuid.New(), Qty: 5, ApprovedPendingOrder: true}
	f.seedOrder(t, enums.OrderTypePFM, workflow.StatusPending, item)

	err := f.svc.Approve(context.Background(), ApproveInput{
		LineItemID: item.ID,
		Kind:       ApprovalKindPending,
		ActorID:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("approving an approved line must be a no-op, got %v", err)
	}
	if len(f.outbox.events) != 0 {
		t.Fatalf("no events expected for a no-op approval")
	}
}

func TestApproveAllIsIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	order := f.seedOrder(t, enums.OrderTypePFM, workflow.StatusPending,
		models.OrderLineItem{Qty: 5},
		models.OrderLineItem{Qty: 3})

	input := ApproveAllInput{OrderID: order.ID, Kind: ApprovalKindPending, ActorID: uuid.New()}
	if err := f.svc.ApproveAll(context.Background(), input); err != nil {
		t.Fatalf("approve all: %v", err)
	}
	for _, item := range f.repo.items {
		if !item.ApprovedPendingOrder {
			t.Fatalf("expected every line approved")
		}
	}
	firstRun := len(f.outbox.events)

	if err := f.svc.ApproveAll(context.Background(), input); err != nil {
		t.Fatalf("second approve all must succeed, got %v", err)
	}
	if len(f.outbox.events) != firstRun {
		t.Fatalf("second approve all must not produce new writes")
	}
}

func TestApproveAllReportsPartialFailure(t *testing.T) {
	f := newServiceFixture(t)
	vendor := "acme"
	brand := "x200"
	cost := decimal.NewFromInt(4)
	quoted := models.OrderLineItem{ID: uuid.New(), Qty: 5, Vendor: &vendor, Brand: &brand, UnitCost: &cost}
	unquoted := models.OrderLineItem{ID: uuid.New(), Qty: 5}
	order := f.seedOrder(t, enums.OrderTypePFM, workflow.StatusQuotationReview, quoted, unquoted)

	err := f.svc.ApproveAll(context.Background(), ApproveAllInput{
		OrderID: order.ID,
		Kind:    ApprovalKindBudget,
		ActorID: uuid.New(),
	})
	if err == nil {
		t.Fatalf("expected aggregate error for the unquoted line")
	}
	if !f.repo.items[quoted.ID].ApprovedBudget {
		t.Fatalf("the quoted line's approval must stick despite the sibling failure")
	}
	if f.repo.items[unquoted.ID].ApprovedBudget {
		t.Fatalf("the unquoted line must not be approved")
	}
}

func TestApproveAllFansOutAcrossManyLines(t *testing.T) {
	f := newServiceFixture(t)
	lines := make([]models.OrderLineItem, 16)
	for i := range lines {
		lines[i] = models.OrderLineItem{ID: uuid.New(), Qty: i + 1}
	}
	order := f.seedOrder(t, enums.OrderTypePFM, workflow.StatusPending, lines...)

	err := f.svc.ApproveAll(context.Background(), ApproveAllInput{
		OrderID: order.ID,
		Kind:    ApprovalKindPending,
		ActorID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("approve all: %v", err)
	}
	for _, line := range lines {
		if !f.repo.items[line.ID].ApprovedPendingOrder {
			t.Fatalf("line %s must be approved", line.ID)
		}
	}
	if got := f.outbox.countType(enums.EventLineItemUpdated); got != len(lines) {
		t.Fatalf("expected %d approval events, got %d", len(lines), got)
	}
}

func TestMarkReceivedCreditsAndEmits(t *testing.T) {
	f := newServiceFixture(t)
	sent := time.Now().Add(-24 * time.Hour)
	item := models.OrderLineItem{ID: uuid.New(), Qty: 5, Stage: enums.ProcurementStageSent, SentDate: &sent}
	f.seedOrder(t, enums.OrderTypePFM, workflow.StatusReceiving, item)

	err := f.svc.SetDate(context.Background(), SetDateInput{
		LineItemID: item.ID,
		Kind:       DateKindReceived,
		Date:       time.Now(),
		ActorID:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("mark received: %v", err)
	}
	stored := f.repo.items[item.ID]
	if stored.ReceivedDate == nil || stored.Stage != enums.ProcurementStageReceived {
		t.Fatalf("received date and stage must persist")
	}
	if f.receipt.calls != 1 {
		t.Fatalf("expected one completion credit")
	}
	if f.outbox.countType(enums.EventLineItemReceived) != 1 {
		t.Fatalf("expected a received event")
	}
}

func TestMarkReceivedRollsBackDateOnFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.receipt.err = pkgerrors.New(pkgerrors.CodeMissingCostData, "line item has no unit cost")
	sent := time.Now().Add(-24 * time.Hour)
	item := models.OrderLineItem{ID: uuid.New(), Qty: 5, Stage: enums.ProcurementStageSent, SentDate: &sent}
	f.seedOrder(t, enums.OrderTypePFM, workflow.StatusReceiving, item)

	err := f.svc.SetDate(context.Background(), SetDateInput{
		LineItemID: item.ID,
		Kind:       DateKindReceived,
		Date:       time.Now(),
		ActorID:    uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeMissingCostData)

	stored := f.repo.items[item.ID]
	if stored.ReceivedDate != nil {
		t.Fatalf("received date must be rolled back on a failed credit")
	}
	if stored.Stage != enums.ProcurementStageSent {
		t.Fatalf("stage must be restored, got %s", stored.Stage)
	}
	if f.outbox.countType(enums.EventLineItemReceived) != 0 {
		t.Fatalf("no received event expected on failure")
	}
}

func TestTakeFromStorage(t *testing.T) {
	f := newServiceFixture(t)
	item := models.OrderLineItem{ID: uuid.New(), Qty: 5, InStorage: true}
	order := f.seedOrder(t, enums.OrderTypePFS, workflow.StatusPending, item)
	if err := f.storage.Credit(order.FactoryID, f.repo.items[item.ID].PartID, 10); err != nil {
		t.Fatalf("seed storage: %v", err)
	}

	err := f.svc.TakeFromStorage(context.Background(), TakeFromStorageInput{
		LineItemID: item.ID,
		Qty:        3,
		ActorID:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("take from storage: %v", err)
	}

	pool, err := f.storage.Get(order.FactoryID, f.repo.items[item.ID].PartID)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if pool.Qty != 7 {
		t.Fatalf("expected pool debited to 7, got %d", pool.Qty)
	}
	if f.outbox.countType(enums.EventInventoryAdjusted) != 1 {
		t.Fatalf("expected an inventory adjustment event")
	}
}

func TestTakeFromStorageInsufficient(t *testing.T) {
	f := newServiceFixture(t)
	item := models.OrderLineItem{ID: uuid.New(), Qty: 5, InStorage: true}
	order := f.seedOrder(t, enums.OrderTypePFS, workflow.StatusPending, item)
	if err := f.storage.Credit(order.FactoryID, f.repo.items[item.ID].PartID, 2); err != nil {
		t.Fatalf("seed storage: %v", err)
	}

	err := f.svc.TakeFromStorage(context.Background(), TakeFromStorageInput{
		LineItemID: item.ID,
		Qty:        3,
		ActorID:    uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeInsufficientQuantity)
}

func TestDeleteLastLineItemDeletesOrder(t *testing.T) {
	f := newServiceFixture(t)
	item := models.OrderLineItem{ID: uuid.New(), Qty: 5}
	order := f.seedOrder(t, enums.OrderTypePFS, workflow.StatusPending, item)

	err := f.svc.DeleteLineItem(context.Background(), DeleteLineItemInput{
		LineItemID: item.ID,
		ActorID:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("delete line item: %v", err)
	}
	if _, ok := f.repo.orders[order.ID]; ok {
		t.Fatalf("order with zero line items must be deleted")
	}
	if f.outbox.countType(enums.EventOrderDeleted) != 1 {
		t.Fatalf("expected an order deletion event")
	}
}

func TestCreateValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	actorID := uuid.New()

	_, err := f.svc.Create(ctx, CreateOrderInput{
		OrderType: enums.OrderType("lease_to_own"),
		FactoryID: uuid.New(),
		ActorID:   actorID,
		Items:     []CreateLineItemInput{{PartID: uuid.New(), Qty: 1}},
	})
	expectCode(t, err, pkgerrors.CodeUnknownOrderType)

	_, err = f.svc.Create(ctx, CreateOrderInput{
		OrderType: enums.OrderTypePFM,
		FactoryID: uuid.New(),
		ActorID:   actorID,
		Items:     []CreateLineItemInput{{PartID: uuid.New(), Qty: 1}},
	})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.Create(ctx, CreateOrderInput{
		OrderType: enums.OrderTypePFS,
		FactoryID: uuid.New(),
		ActorID:   actorID,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreatePersistsOrderAndAudit(t *testing.T) {
	f := newServiceFixture(t)
	order, err := f.svc.Create(context.Background(), CreateOrderInput{
		OrderType: enums.OrderTypePFS,
		FactoryID: uuid.New(),
		ActorID:   uuid.New(),
		Items: []CreateLineItemInput{
			{PartID: uuid.New(), Qty: 3},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.CurrentStatus == nil || order.CurrentStatus.Name != workflow.StatusPending {
		t.Fatalf("new order must start at pending")
	}
	if len(order.LineItems) != 1 {
		t.Fatalf("expected one line item, got %d", len(order.LineItems))
	}
	if len(f.repo.trackers) != 1 {
		t.Fatalf("expected an initial tracker entry")
	}
	if f.outbox.countType(enums.EventOrderCreated) != 1 {
		t.Fatalf("expected an order created event")
	}
}

func TestVisibleActionsPendingMachineOrder(t *testing.T) {
	f := newServiceFixture(t)
	f.seedOrder(t, enums.OrderTypePFM, workflow.StatusPending,
		models.OrderLineItem{Qty: 4})
	var itemID uuid.UUID
	for id := range f.repo.items {
		itemID = id
	}

	actions, err := f.svc.VisibleActions(context.Background(), itemID)
	if err != nil {
		t.Fatalf("visible actions: %v", err)
	}

	want := []gates.Action{
		gates.ActionApprovePending,
		gates.ActionEditQuantity,
		gates.ActionDeleteLineItem,
		gates.ActionSetUnstableType,
		gates.ActionEditNote,
	}
	if len(actions) != len(want) {
		t.Fatalf("expected %v, got %v", want, actions)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, actions)
		}
	}
}

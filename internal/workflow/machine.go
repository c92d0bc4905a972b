package workflow

import (
	"github.com/google/uuid"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
)

// Sequence is one workflow's ordered status list, hydrated from
// workflow_statuses. Position order is established by the repository.
type Sequence struct {
	WorkflowID uuid.UUID
	OrderType  enums.OrderType
	Statuses   []models.Status
}

// Initial returns the first status of the sequence.
func (s Sequence) Initial() *models.Status {
	if len(s.Statuses) == 0 {
		return nil
	}
	return &s.Statuses[0]
}

// NextStatus returns the status immediately following current, or nil when
// current is the last element. A current id outside the sequence is an
// UNKNOWN_CURRENT_STATUS error.
func (s Sequence) NextStatus(currentID uuid.UUID) (*models.Status, error) {
	for i := range s.Statuses {
		if s.Statuses[i].ID != currentID {
			continue
		}
		if i == len(s.Statuses)-1 {
			return nil, nil
		}
		return &s.Statuses[i+1], nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnknownCurrentStatus, "current status not in workflow sequence")
}

// IsTerminal reports whether current is the last status of the sequence.
func (s Sequence) IsTerminal(currentID uuid.UUID) (bool, error) {
	next, err := s.NextStatus(currentID)
	if err != nil {
		return false, err
	}
	return next == nil, nil
}

// IsInitial reports whether current is the first status of the sequence.
func (s Sequence) IsInitial(currentID uuid.UUID) bool {
	initial := s.Initial()
	return initial != nil && initial.ID == currentID
}

// FindByName resolves a status in the sequence by its name.
func (s Sequence) FindByName(name string) *models.Status {
	for i := range s.Statuses {
		if s.Statuses[i].Name == name {
			return &s.Statuses[i]
		}
	}
	return nil
}

// RevertAllowed reports whether the order may be sent back to the anchor
// status. Once any line item has been purchased, sent, or received the
// order is past the point of no return.
func RevertAllowed(items []models.OrderLineItem) bool {
	for _, item := range items {
		if item.PurchasedDate != nil || item.SentDate != nil || item.ReceivedDate != nil {
			return false
		}
	}
	return true
}

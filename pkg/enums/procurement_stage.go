package enums

import "fmt"

// ProcurementStage tracks how far a line item has progressed through
// costing and delivery. Transitions are strictly forward except for the
// receipt rollback performed when a completion credit fails.
type ProcurementStage string

const (
	ProcurementStageUnquoted  ProcurementStage = "unquoted"
	ProcurementStageQuoted    ProcurementStage = "quoted"
	ProcurementStagePurchased ProcurementStage = "purchased"
	ProcurementStageSent      ProcurementStage = "sent"
	ProcurementStageReceived  ProcurementStage = "received"
)

var validProcurementStages = []ProcurementStage{
	ProcurementStageUnquoted,
	ProcurementStageQuoted,
	ProcurementStagePurchased,
	ProcurementStageSent,
	ProcurementStageReceived,
}

var nextProcurementStage = map[ProcurementStage]ProcurementStage{
	ProcurementStageUnquoted:  ProcurementStageQuoted,
	ProcurementStageQuoted:    ProcurementStagePurchased,
	ProcurementStagePurchased: ProcurementStageSent,
	ProcurementStageSent:      ProcurementStageReceived,
}

// String implements fmt.Stringer.
func (p ProcurementStage) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProcurementStage.
func (p ProcurementStage) IsValid() bool {
	for _, candidate := range validProcurementStages {
		if candidate == p {
			return true
		}
	}
	return false
}

// CanAdvanceTo reports whether target is the immediate successor of p.
// Dates can only be set in order, so received-without-sent is unrepresentable.
func (p ProcurementStage) CanAdvanceTo(target ProcurementStage) bool {
	next, ok := nextProcurementStage[p]
	return ok && next == target
}

// ParseProcurementStage converts raw input into a ProcurementStage.
func ParseProcurementStage(value string) (ProcurementStage, error) {
	for _, candidate := range validProcurementStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid procurement stage %q", value)
}

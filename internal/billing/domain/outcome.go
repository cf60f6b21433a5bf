package domain

import (
	recorddomain "github.com/smallbiznis/cloudbill/internal/record/domain"
	resourcedomain "github.com/smallbiznis/cloudbill/internal/resource/domain"
)

type OutcomeKind string

var (
	// OutcomeCreated: a create event opened a new resource ledger entry.
	OutcomeCreated OutcomeKind = "resource_created"
	// OutcomeRecovered: a resize/exists event arrived for an unknown
	// resource; a ledger entry was synthesized as of the event time to
	// compensate for a lost create upstream.
	OutcomeRecovered OutcomeKind = "resource_recovered"
	// OutcomeAccrued: consumption was charged for the elapsed interval.
	OutcomeAccrued OutcomeKind = "consumption_accrued"
	// OutcomeDeleted: the interval was charged and the resource reached
	// its terminal state.
	OutcomeDeleted OutcomeKind = "resource_deleted"
	// OutcomeToleratedNoOp: a delete with nothing to delete; accepted
	// without effect so redelivered deletes stay harmless.
	OutcomeToleratedNoOp OutcomeKind = "tolerated_noop"
)

// Outcome is the result of processing one event: the resource snapshot
// after the transition and, when the transition accrued consumption, the
// billing record it appended.
type Outcome struct {
	Kind     OutcomeKind                 `json:"outcome"`
	Resource *resourcedomain.Resource    `json:"resource,omitempty"`
	Record   *recorddomain.BillingRecord `json:"record,omitempty"`
}

package manager

import (
	"errors"

	"spend-hq/ganymede/pkg/policy/ast"
)

// Command operation names. These appear in audit entries and metrics labels.
const (
	OpAddContainer    = "add_container"
	OpRemoveContainer = "remove_container"

	OpAddCondition    = "add_condition"
	OpRemoveCondition = "remove_condition"
	OpChangeSubject   = "change_subject"
	OpChangeOperator  = "change_operator"
	OpChangeTeam      = "change_team"
	OpChangeCardUser  = "change_card_user"
	OpChangeCard      = "change_card"
	OpSetAmount       = "set_amount"

	OpAddApproval        = "add_approval"
	OpRemoveApproval     = "remove_approval"
	OpAddNotification    = "add_notification"
	OpRemoveNotification = "remove_notification"
	OpAddAutoApprove     = "add_auto_approve"
	OpRemoveAutoApprove  = "remove_auto_approve"
	OpToggleApprover     = "toggle_approver"
)

// ErrUnknownOp is returned when a command names an operation the manager
// does not recognize.
var ErrUnknownOp = errors.New("manager: unknown operation")

// Command is a single mutation request against the policy document.
// Op selects the operation; the remaining fields address and parameterize
// it. Unused fields are ignored by the operation.
type Command struct {
	// Op is the operation name (one of the Op* constants).
	Op string `json:"op"`

	// ContainerID addresses the target container.
	ContainerID string `json:"containerId,omitempty"`

	// ConditionID addresses a condition within the container.
	ConditionID string `json:"conditionId,omitempty"`

	// ActionID addresses an approval or notification action.
	ActionID string `json:"actionId,omitempty"`

	// Kind is the container kind for OpAddContainer.
	Kind ast.ContainerKind `json:"kind,omitempty"`

	// Subject is the new subject for OpChangeSubject.
	Subject ast.Subject `json:"subject,omitempty"`

	// Operator is the new operator for OpChangeOperator.
	Operator ast.Operator `json:"operator,omitempty"`

	// Value carries the free-form parameter: the raw amount for
	// OpSetAmount, the team, card-user, or card selector for the change
	// operations, or the approver id for OpToggleApprover.
	Value string `json:"value,omitempty"`
}

// targetID returns the most specific entity the command addresses, for
// audit entries.
func (c Command) targetID() string {
	if c.ConditionID != "" {
		return c.ConditionID
	}
	return c.ActionID
}

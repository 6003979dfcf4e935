package engine

import (
	"spend-hq/ganymede/pkg/policy/ast"
	"spend-hq/ganymede/pkg/policy/currency"
)

// AddContainer appends a new container of the given kind, holding one
// default condition and no actions. Always succeeds for a valid kind.
func AddContainer(p *ast.Policy, kind ast.ContainerKind) (*ast.Policy, error) {
	if !ast.ValidContainerKind(kind) {
		return nil, ErrInvalidKind
	}
	next := p.Clone()
	next.Containers = append(next.Containers, ast.NewContainer(kind))
	return next, nil
}

// RemoveContainer removes the container with the given id. Removing an id
// that is not present is a no-op; the operation never fails. The engine does
// not protect the sole remaining condition container; keeping it around is a
// presentation-layer affordance.
func RemoveContainer(p *ast.Policy, containerID string) *ast.Policy {
	next := p.Clone()
	kept := next.Containers[:0]
	for _, c := range next.Containers {
		if c.ID != containerID {
			kept = append(kept, c)
		}
	}
	next.Containers = kept
	return next
}

// AddCondition appends a default condition to the container's condition
// list. Order is append-only.
func AddCondition(p *ast.Policy, containerID string) (*ast.Policy, error) {
	next := p.Clone()
	c := next.ContainerByID(containerID)
	if c == nil {
		return nil, ErrContainerNotFound
	}
	c.Conditions = append(c.Conditions, ast.NewDefaultCondition())
	return next, nil
}

// RemoveCondition removes the condition with the given id from the
// container. It succeeds even when removing the last remaining condition;
// preventing an empty condition list is left to the presentation layer,
// which simply does not render a delete affordance for the first row.
func RemoveCondition(p *ast.Policy, containerID, conditionID string) *ast.Policy {
	next := p.Clone()
	c := next.ContainerByID(containerID)
	if c == nil {
		return next
	}
	kept := c.Conditions[:0]
	for _, cond := range c.Conditions {
		if cond.ID != conditionID {
			kept = append(kept, cond)
		}
	}
	c.Conditions = kept
	return next
}

// ChangeConditionSubject sets the condition's subject and unconditionally
// clears the team, card-user, and card selectors, regardless of whether the
// new subject needs them. No stale cross-subject data survives.
func ChangeConditionSubject(p *ast.Policy, containerID, conditionID string, subject ast.Subject) (*ast.Policy, error) {
	if !ast.ValidSubject(subject) {
		return nil, ErrInvalidSubject
	}
	next, cond, err := findCondition(p, containerID, conditionID)
	if err != nil {
		return nil, err
	}
	cond.Subject = subject
	cond.Team = ""
	cond.CardUser = ""
	cond.Card = ""
	return next, nil
}

// ChangeOperator sets the condition's comparison operator. Sibling fields
// are untouched.
func ChangeOperator(p *ast.Policy, containerID, conditionID string, op ast.Operator) (*ast.Policy, error) {
	if !ast.ValidOperator(op) {
		return nil, ErrInvalidOperator
	}
	next, cond, err := findCondition(p, containerID, conditionID)
	if err != nil {
		return nil, err
	}
	cond.Operator = op
	return next, nil
}

// ChangeTeam sets the condition's team selector.
func ChangeTeam(p *ast.Policy, containerID, conditionID, team string) (*ast.Policy, error) {
	next, cond, err := findCondition(p, containerID, conditionID)
	if err != nil {
		return nil, err
	}
	cond.Team = team
	return next, nil
}

// ChangeCardUser sets the condition's card-user selector.
func ChangeCardUser(p *ast.Policy, containerID, conditionID, cardUser string) (*ast.Policy, error) {
	next, cond, err := findCondition(p, containerID, conditionID)
	if err != nil {
		return nil, err
	}
	cond.CardUser = cardUser
	return next, nil
}

// ChangeCard sets the condition's card selector.
func ChangeCard(p *ast.Policy, containerID, conditionID, card string) (*ast.Policy, error) {
	next, cond, err := findCondition(p, containerID, conditionID)
	if err != nil {
		return nil, err
	}
	cond.Card = card
	return next, nil
}

// SetAmount normalizes raw input and stores the canonical currency form on
// the condition. Unparseable input normalizes to "$0.00"; the operation
// itself never fails on malformed amounts.
func SetAmount(p *ast.Policy, containerID, conditionID, raw string) (*ast.Policy, error) {
	next, cond, err := findCondition(p, containerID, conditionID)
	if err != nil {
		return nil, err
	}
	cond.Amount = currency.Normalize(raw)
	return next, nil
}

// AddApprovalAction appends an approval action with an empty approver set.
// Returns ErrActionBlocked if the container already holds an approval or an
// auto-approve.
func AddApprovalAction(p *ast.Policy, containerID string) (*ast.Policy, error) {
	next := p.Clone()
	c := next.ContainerByID(containerID)
	if c == nil {
		return nil, ErrContainerNotFound
	}
	if !CanAddApproval(c) {
		return nil, ErrActionBlocked
	}
	c.Approvals = append(c.Approvals, ast.NewApproval())
	return next, nil
}

// AddNotificationAction appends a notification action with an empty
// recipient set. Returns ErrActionBlocked if a notification is already
// present. Independent of the approval/auto-approve state.
func AddNotificationAction(p *ast.Policy, containerID string) (*ast.Policy, error) {
	next := p.Clone()
	c := next.ContainerByID(containerID)
	if c == nil {
		return nil, ErrContainerNotFound
	}
	if !CanAddNotification(c) {
		return nil, ErrActionBlocked
	}
	c.Notifications = append(c.Notifications, ast.NewNotification())
	return next, nil
}

// AddAutoApproveAction appends an auto-approve marker. Returns
// ErrActionBlocked if the container already holds an approval or an
// auto-approve.
func AddAutoApproveAction(p *ast.Policy, containerID string) (*ast.Policy, error) {
	next := p.Clone()
	c := next.ContainerByID(containerID)
	if c == nil {
		return nil, ErrContainerNotFound
	}
	if !CanAddAutoApprove(c) {
		return nil, ErrActionBlocked
	}
	c.AutoApprovals = append(c.AutoApprovals, ast.NewAutoApprove())
	return next, nil
}

// RemoveApprovalAction removes the approval with the given id. Removing an
// absent id is a no-op; the operation never fails.
func RemoveApprovalAction(p *ast.Policy, containerID, actionID string) *ast.Policy {
	next := p.Clone()
	c := next.ContainerByID(containerID)
	if c == nil {
		return next
	}
	kept := c.Approvals[:0]
	for _, a := range c.Approvals {
		if a.ID != actionID {
			kept = append(kept, a)
		}
	}
	c.Approvals = kept
	return next
}

// RemoveNotificationAction removes the notification with the given id.
func RemoveNotificationAction(p *ast.Policy, containerID, actionID string) *ast.Policy {
	next := p.Clone()
	c := next.ContainerByID(containerID)
	if c == nil {
		return next
	}
	kept := c.Notifications[:0]
	for _, n := range c.Notifications {
		if n.ID != actionID {
			kept = append(kept, n)
		}
	}
	c.Notifications = kept
	return next
}

// RemoveAutoApproveAction removes the auto-approve marker with the given id.
func RemoveAutoApproveAction(p *ast.Policy, containerID, actionID string) *ast.Policy {
	next := p.Clone()
	c := next.ContainerByID(containerID)
	if c == nil {
		return next
	}
	kept := c.AutoApprovals[:0]
	for _, a := range c.AutoApprovals {
		if a.ID != actionID {
			kept = append(kept, a)
		}
	}
	c.AutoApprovals = kept
	return next
}

// ToggleApprover flips membership of approverID on the approval or
// notification with the given action id: present entries are removed, absent
// ones appended. Toggling twice restores the original set.
func ToggleApprover(p *ast.Policy, containerID, actionID, approverID string) (*ast.Policy, error) {
	next := p.Clone()
	c := next.ContainerByID(containerID)
	if c == nil {
		return nil, ErrContainerNotFound
	}
	if a := c.ApprovalByID(actionID); a != nil {
		a.Approvers = toggle(a.Approvers, approverID)
		return next, nil
	}
	if n := c.NotificationByID(actionID); n != nil {
		n.Approvers = toggle(n.Approvers, approverID)
		return next, nil
	}
	return nil, ErrActionNotFound
}

// toggle removes id if present, appends it otherwise. The approver set never
// holds duplicates, so a single pass suffices.
func toggle(approvers []string, id string) []string {
	for i, existing := range approvers {
		if existing == id {
			return append(approvers[:i], approvers[i+1:]...)
		}
	}
	return append(approvers, id)
}

// findCondition clones the document and resolves the addressed condition
// within the clone.
func findCondition(p *ast.Policy, containerID, conditionID string) (*ast.Policy, *ast.Condition, error) {
	next := p.Clone()
	c := next.ContainerByID(containerID)
	if c == nil {
		return nil, nil, ErrContainerNotFound
	}
	cond := c.ConditionByID(conditionID)
	if cond == nil {
		return nil, nil, ErrConditionNotFound
	}
	return next, cond, nil
}

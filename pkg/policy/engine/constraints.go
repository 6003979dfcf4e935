package engine

import "spend-hq/ganymede/pkg/policy/ast"

// The blocking predicates below are the single source of truth for which
// action additions a container admits. The engine consults them before
// applying an addition, and presentation layers use the same functions to
// drive "disabled" affordances, so the rules are never duplicated.
//
// Notification is independent of the other two: it may coexist with either
// an approval or an auto-approve.

// CanAddApproval returns true if an approval action may be added to the
// container. Blocked when the container already holds an approval or an
// auto-approve.
func CanAddApproval(c *ast.Container) bool {
	return !c.HasApproval() && !c.HasAutoApprove()
}

// CanAddAutoApprove returns true if an auto-approve action may be added to
// the container. Blocked when the container already holds an approval or an
// auto-approve.
func CanAddAutoApprove(c *ast.Container) bool {
	return !c.HasApproval() && !c.HasAutoApprove()
}

// CanAddNotification returns true if a notification action may be added to
// the container. Blocked only when a notification is already present.
func CanAddNotification(c *ast.Container) bool {
	return !c.HasNotification()
}

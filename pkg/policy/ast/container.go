package ast

// ContainerKind distinguishes the two rule block flavors.
type ContainerKind string

const (
	// KindCondition gates an approval, notification, or auto-approve outcome.
	KindCondition ContainerKind = "condition"
	// KindExclusion gates a bypass (auto-approve) outcome.
	KindExclusion ContainerKind = "exclusion"
)

// Container is one rule block within a policy: an ordered list of conditions
// plus the outcome actions attached to them.
//
// Invariants maintained by the engine:
//   - Conditions holds at least one element at all times.
//   - Approvals and AutoApprovals are mutually exclusive: at most one of the
//     two lists is non-empty.
//   - At most one notification and at most one approval group exist at a
//     time; the list shape is kept for serialization compatibility.
type Container struct {
	ID            string          `json:"id" yaml:"id"`
	Kind          ContainerKind   `json:"kind" yaml:"kind"`
	Conditions    []*Condition    `json:"conditions" yaml:"conditions"`
	Approvals     []*Approval     `json:"approvals" yaml:"approvals"`
	Notifications []*Notification `json:"notifications" yaml:"notifications"`
	AutoApprovals []*AutoApprove  `json:"autoApprovals" yaml:"autoApprovals"`
}

// NewContainer returns a container of the given kind holding one default
// condition and no actions.
func NewContainer(kind ContainerKind) *Container {
	return &Container{
		ID:            NewID(),
		Kind:          kind,
		Conditions:    []*Condition{NewDefaultCondition()},
		Approvals:     []*Approval{},
		Notifications: []*Notification{},
		AutoApprovals: []*AutoApprove{},
	}
}

// ConditionByID returns the condition with the given id, or nil.
func (c *Container) ConditionByID(id string) *Condition {
	for _, cond := range c.Conditions {
		if cond.ID == id {
			return cond
		}
	}
	return nil
}

// ApprovalByID returns the approval action with the given id, or nil.
func (c *Container) ApprovalByID(id string) *Approval {
	for _, a := range c.Approvals {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// NotificationByID returns the notification action with the given id, or nil.
func (c *Container) NotificationByID(id string) *Notification {
	for _, n := range c.Notifications {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// HasApproval returns true if the container holds an approval action.
func (c *Container) HasApproval() bool {
	return len(c.Approvals) > 0
}

// HasNotification returns true if the container holds a notification action.
func (c *Container) HasNotification() bool {
	return len(c.Notifications) > 0
}

// HasAutoApprove returns true if the container holds an auto-approve action.
func (c *Container) HasAutoApprove() bool {
	return len(c.AutoApprovals) > 0
}

// IsApprovalExclusive returns true when the container already holds an
// approval or auto-approve action. It gates insertion of the complementary
// action type: approval-requirement and auto-approval are mutually exclusive
// outcomes for a container.
func (c *Container) IsApprovalExclusive() bool {
	return c.HasApproval() || c.HasAutoApprove()
}

// Clone returns a deep copy of the container.
func (c *Container) Clone() *Container {
	if c == nil {
		return nil
	}
	dup := &Container{
		ID:            c.ID,
		Kind:          c.Kind,
		Conditions:    make([]*Condition, 0, len(c.Conditions)),
		Approvals:     make([]*Approval, 0, len(c.Approvals)),
		Notifications: make([]*Notification, 0, len(c.Notifications)),
		AutoApprovals: make([]*AutoApprove, 0, len(c.AutoApprovals)),
	}
	for _, cond := range c.Conditions {
		dup.Conditions = append(dup.Conditions, cond.Clone())
	}
	for _, a := range c.Approvals {
		dup.Approvals = append(dup.Approvals, a.Clone())
	}
	for _, n := range c.Notifications {
		dup.Notifications = append(dup.Notifications, n.Clone())
	}
	for _, a := range c.AutoApprovals {
		dup.AutoApprovals = append(dup.AutoApprovals, a.Clone())
	}
	return dup
}

// ValidContainerKind reports whether k is a known container kind.
func ValidContainerKind(k ContainerKind) bool {
	return k == KindCondition || k == KindExclusion
}

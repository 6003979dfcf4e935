package ast

// Approval is an outcome that requires sign-off from one of a set of
// approvers before the transaction goes through.
//
// Approvers contains no duplicate entries; membership toggling through the
// engine is the only mutation (add-if-absent, remove-if-present).
type Approval struct {
	ID        string   `json:"id" yaml:"id"`
	Approvers []string `json:"approvers" yaml:"approvers"`
}

// NewApproval returns an approval action with an empty approver set.
func NewApproval() *Approval {
	return &Approval{ID: NewID(), Approvers: []string{}}
}

// HasApprover returns true if the given approver is in the set.
func (a *Approval) HasApprover(approverID string) bool {
	for _, id := range a.Approvers {
		if id == approverID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the approval.
func (a *Approval) Clone() *Approval {
	if a == nil {
		return nil
	}
	dup := &Approval{ID: a.ID, Approvers: make([]string, len(a.Approvers))}
	copy(dup.Approvers, a.Approvers)
	return dup
}

// Notification is an outcome that informs a set of named parties when the
// container's conditions match. It shares the approver-set semantics of
// Approval but is independent of the approval/auto-approve outcome.
type Notification struct {
	ID        string   `json:"id" yaml:"id"`
	Approvers []string `json:"approvers" yaml:"approvers"`
}

// NewNotification returns a notification action with an empty recipient set.
func NewNotification() *Notification {
	return &Notification{ID: NewID(), Approvers: []string{}}
}

// HasApprover returns true if the given recipient is in the set.
func (n *Notification) HasApprover(approverID string) bool {
	for _, id := range n.Approvers {
		if id == approverID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the notification.
func (n *Notification) Clone() *Notification {
	if n == nil {
		return nil
	}
	dup := &Notification{ID: n.ID, Approvers: make([]string, len(n.Approvers))}
	copy(dup.Approvers, n.Approvers)
	return dup
}

// AutoApprove is a marker outcome with no parameters: matching transactions
// bypass approval entirely. It is mutually exclusive with Approval within a
// container.
type AutoApprove struct {
	ID string `json:"id" yaml:"id"`
}

// NewAutoApprove returns an auto-approve marker action.
func NewAutoApprove() *AutoApprove {
	return &AutoApprove{ID: NewID()}
}

// Clone returns a copy of the auto-approve marker.
func (a *AutoApprove) Clone() *AutoApprove {
	if a == nil {
		return nil
	}
	dup := *a
	return &dup
}

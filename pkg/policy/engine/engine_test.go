package engine

import (
	"errors"
	"reflect"
	"testing"

	"spend-hq/ganymede/pkg/policy/ast"
)

func TestAddContainer_Defaults(t *testing.T) {
	p := ast.NewPolicy()

	next, err := AddContainer(p, ast.KindExclusion)
	if err != nil {
		t.Fatalf("AddContainer() failed: %v", err)
	}
	if next.ContainerCount() != 2 {
		t.Fatalf("ContainerCount() = %d, want 2", next.ContainerCount())
	}

	added := next.Containers[1]
	if added.Kind != ast.KindExclusion {
		t.Errorf("Kind = %q, want %q", added.Kind, ast.KindExclusion)
	}
	if len(added.Conditions) != 1 {
		t.Fatalf("len(Conditions) = %d, want 1", len(added.Conditions))
	}

	cond := added.Conditions[0]
	if cond.Subject != ast.SubjectTransaction {
		t.Errorf("Subject = %q, want %q", cond.Subject, ast.SubjectTransaction)
	}
	if cond.Operator != ast.OperatorEqual {
		t.Errorf("Operator = %q, want %q", cond.Operator, ast.OperatorEqual)
	}
	if cond.Amount != "$0.00" {
		t.Errorf("Amount = %q, want %q", cond.Amount, "$0.00")
	}
	if len(added.Approvals) != 0 || len(added.Notifications) != 0 || len(added.AutoApprovals) != 0 {
		t.Error("new container should have empty action lists")
	}
}

func TestAddContainer_InvalidKind(t *testing.T) {
	if _, err := AddContainer(ast.NewPolicy(), "nonsense"); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("err = %v, want ErrInvalidKind", err)
	}
}

func TestAddContainer_PreservesOrder(t *testing.T) {
	p := ast.NewPolicy()
	p, _ = AddContainer(p, ast.KindCondition)
	p, _ = AddContainer(p, ast.KindExclusion)

	if p.Containers[0].Kind != ast.KindCondition {
		t.Errorf("first container kind = %q, want condition", p.Containers[0].Kind)
	}
	if p.Containers[2].Kind != ast.KindExclusion {
		t.Errorf("last container kind = %q, want exclusion", p.Containers[2].Kind)
	}
}

func TestAddContainer_DoesNotMutateInput(t *testing.T) {
	p := ast.NewPolicy()
	before := p.ContainerCount()

	if _, err := AddContainer(p, ast.KindCondition); err != nil {
		t.Fatalf("AddContainer() failed: %v", err)
	}
	if p.ContainerCount() != before {
		t.Errorf("input document mutated: ContainerCount() = %d, want %d", p.ContainerCount(), before)
	}
}

func TestRemoveContainer(t *testing.T) {
	p := ast.NewPolicy()
	p, _ = AddContainer(p, ast.KindExclusion)
	target := p.Containers[1].ID

	next := RemoveContainer(p, target)
	if next.ContainerCount() != 1 {
		t.Fatalf("ContainerCount() = %d, want 1", next.ContainerCount())
	}
	if next.ContainerByID(target) != nil {
		t.Error("removed container still present")
	}

	// Unknown id is a no-op.
	same := RemoveContainer(next, "missing")
	if same.ContainerCount() != 1 {
		t.Errorf("ContainerCount() = %d, want 1", same.ContainerCount())
	}

	// The engine itself does not protect the sole condition container.
	empty := RemoveContainer(same, same.First().ID)
	if empty.ContainerCount() != 0 {
		t.Errorf("ContainerCount() = %d, want 0", empty.ContainerCount())
	}
}

func TestAddCondition_AppendOnly(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID
	firstCond := p.First().Conditions[0].ID

	p, err := AddCondition(p, cID)
	if err != nil {
		t.Fatalf("AddCondition() failed: %v", err)
	}
	c := p.First()
	if len(c.Conditions) != 2 {
		t.Fatalf("len(Conditions) = %d, want 2", len(c.Conditions))
	}
	if c.Conditions[0].ID != firstCond {
		t.Error("existing condition moved; new conditions must append")
	}
	if c.Conditions[1].Amount != "$0.00" {
		t.Errorf("new condition amount = %q, want $0.00", c.Conditions[1].Amount)
	}

	if _, err := AddCondition(p, "missing"); !errors.Is(err, ErrContainerNotFound) {
		t.Errorf("err = %v, want ErrContainerNotFound", err)
	}
}

func TestRemoveCondition_AllowsEmptyList(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID
	condID := p.First().Conditions[0].ID

	next := RemoveCondition(p, cID, condID)
	if got := len(next.First().Conditions); got != 0 {
		t.Errorf("len(Conditions) = %d, want 0 (engine does not forbid emptying)", got)
	}

	// Unknown ids are no-ops.
	if got := RemoveCondition(p, cID, "missing"); len(got.First().Conditions) != 1 {
		t.Error("removing unknown condition changed the list")
	}
	if got := RemoveCondition(p, "missing", condID); got.ContainerCount() != 1 {
		t.Error("removing from unknown container changed the document")
	}
}

func TestChangeConditionSubject_ClearsSelectors(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID
	condID := p.First().Conditions[0].ID

	p, err := ChangeConditionSubject(p, cID, condID, ast.SubjectTeam)
	if err != nil {
		t.Fatalf("ChangeConditionSubject() failed: %v", err)
	}
	p, err = ChangeTeam(p, cID, condID, "marketing")
	if err != nil {
		t.Fatalf("ChangeTeam() failed: %v", err)
	}
	if got := p.First().Conditions[0].Team; got != "marketing" {
		t.Fatalf("Team = %q, want %q", got, "marketing")
	}

	// Switching back to Transaction clears every selector.
	p, err = ChangeConditionSubject(p, cID, condID, ast.SubjectTransaction)
	if err != nil {
		t.Fatalf("ChangeConditionSubject() failed: %v", err)
	}
	cond := p.First().Conditions[0]
	if cond.Team != "" || cond.CardUser != "" || cond.Card != "" {
		t.Errorf("selectors not cleared: team=%q cardUser=%q card=%q", cond.Team, cond.CardUser, cond.Card)
	}
}

func TestChangeConditionSubject_ClearsUnconditionally(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID
	condID := p.First().Conditions[0].ID

	p, _ = ChangeConditionSubject(p, cID, condID, ast.SubjectCard)
	p, _ = ChangeCard(p, cID, condID, "travel-card")

	// Changing subject to Team clears the card selector even though Team
	// does not use it.
	p, _ = ChangeConditionSubject(p, cID, condID, ast.SubjectTeam)
	cond := p.First().Conditions[0]
	if cond.Card != "" {
		t.Errorf("Card = %q, want cleared", cond.Card)
	}
	if cond.Subject != ast.SubjectTeam {
		t.Errorf("Subject = %q, want %q", cond.Subject, ast.SubjectTeam)
	}
}

func TestChangeOperator(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID
	condID := p.First().Conditions[0].ID

	p, err := ChangeOperator(p, cID, condID, ast.OperatorGreaterEqual)
	if err != nil {
		t.Fatalf("ChangeOperator() failed: %v", err)
	}
	if got := p.First().Conditions[0].Operator; got != ast.OperatorGreaterEqual {
		t.Errorf("Operator = %q, want %q", got, ast.OperatorGreaterEqual)
	}

	if _, err := ChangeOperator(p, cID, condID, "bogus"); !errors.Is(err, ErrInvalidOperator) {
		t.Errorf("err = %v, want ErrInvalidOperator", err)
	}
	if _, err := ChangeOperator(p, cID, "missing", ast.OperatorLess); !errors.Is(err, ErrConditionNotFound) {
		t.Errorf("err = %v, want ErrConditionNotFound", err)
	}
}

func TestChangeSelectors_NoSideEffects(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID
	condID := p.First().Conditions[0].ID

	p, _ = ChangeTeam(p, cID, condID, "sales")
	p, _ = ChangeCardUser(p, cID, condID, "jane-smith")
	p, _ = ChangeCard(p, cID, condID, "corporate-card")

	cond := p.First().Conditions[0]
	if cond.Team != "sales" || cond.CardUser != "jane-smith" || cond.Card != "corporate-card" {
		t.Errorf("field setters clobbered siblings: %+v", cond)
	}
	if cond.Operator != ast.OperatorEqual {
		t.Errorf("Operator = %q, want untouched %q", cond.Operator, ast.OperatorEqual)
	}
}

func TestSetAmount_Normalizes(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID
	condID := p.First().Conditions[0].ID

	tests := []struct {
		raw  string
		want string
	}{
		{"1234.5", "$1,234.50"},
		{"abc", "$0.00"},
		{"$99", "$99.00"},
		{"", "$0.00"},
	}
	for _, tt := range tests {
		next, err := SetAmount(p, cID, condID, tt.raw)
		if err != nil {
			t.Fatalf("SetAmount(%q) failed: %v", tt.raw, err)
		}
		if got := next.First().Conditions[0].Amount; got != tt.want {
			t.Errorf("SetAmount(%q) stored %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestAddApprovalAction_BlocksAutoApprove(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID

	p, err := AddApprovalAction(p, cID)
	if err != nil {
		t.Fatalf("AddApprovalAction() failed: %v", err)
	}
	if len(p.First().Approvals) != 1 {
		t.Fatalf("len(Approvals) = %d, want 1", len(p.First().Approvals))
	}
	if got := len(p.First().Approvals[0].Approvers); got != 0 {
		t.Errorf("new approval approver set size = %d, want 0", got)
	}

	// A second approval is blocked.
	if _, err := AddApprovalAction(p, cID); !errors.Is(err, ErrActionBlocked) {
		t.Errorf("second AddApprovalAction err = %v, want ErrActionBlocked", err)
	}

	// Auto-approve on the same container is blocked.
	if _, err := AddAutoApproveAction(p, cID); !errors.Is(err, ErrActionBlocked) {
		t.Errorf("AddAutoApproveAction err = %v, want ErrActionBlocked", err)
	}
}

func TestAddAutoApproveAction_BlocksApproval(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID

	p, err := AddAutoApproveAction(p, cID)
	if err != nil {
		t.Fatalf("AddAutoApproveAction() failed: %v", err)
	}
	if len(p.First().AutoApprovals) != 1 {
		t.Fatalf("len(AutoApprovals) = %d, want 1", len(p.First().AutoApprovals))
	}

	if _, err := AddApprovalAction(p, cID); !errors.Is(err, ErrActionBlocked) {
		t.Errorf("AddApprovalAction err = %v, want ErrActionBlocked", err)
	}
	if _, err := AddAutoApproveAction(p, cID); !errors.Is(err, ErrActionBlocked) {
		t.Errorf("second AddAutoApproveAction err = %v, want ErrActionBlocked", err)
	}
}

func TestAddNotificationAction_IndependentOfApproval(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID

	p, _ = AddApprovalAction(p, cID)
	p, err := AddNotificationAction(p, cID)
	if err != nil {
		t.Fatalf("AddNotificationAction() alongside approval failed: %v", err)
	}
	if len(p.First().Notifications) != 1 {
		t.Fatalf("len(Notifications) = %d, want 1", len(p.First().Notifications))
	}

	// Second notification is blocked; the list length stays 1.
	if _, err := AddNotificationAction(p, cID); !errors.Is(err, ErrActionBlocked) {
		t.Errorf("second AddNotificationAction err = %v, want ErrActionBlocked", err)
	}
	if len(p.First().Notifications) != 1 {
		t.Errorf("len(Notifications) = %d, want 1 after blocked call", len(p.First().Notifications))
	}
}

func TestAddNotificationAction_CoexistsWithAutoApprove(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID

	p, _ = AddAutoApproveAction(p, cID)
	p, err := AddNotificationAction(p, cID)
	if err != nil {
		t.Fatalf("AddNotificationAction() alongside auto-approve failed: %v", err)
	}
	if !p.First().HasNotification() || !p.First().HasAutoApprove() {
		t.Error("notification and auto-approve should coexist")
	}
}

func TestRemoveActions(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID

	p, _ = AddApprovalAction(p, cID)
	p, _ = AddNotificationAction(p, cID)
	approvalID := p.First().Approvals[0].ID
	notifyID := p.First().Notifications[0].ID

	p = RemoveApprovalAction(p, cID, approvalID)
	if p.First().HasApproval() {
		t.Error("approval not removed")
	}
	p = RemoveNotificationAction(p, cID, notifyID)
	if p.First().HasNotification() {
		t.Error("notification not removed")
	}

	// After removal the container accepts an auto-approve again.
	p, err := AddAutoApproveAction(p, cID)
	if err != nil {
		t.Fatalf("AddAutoApproveAction() after removal failed: %v", err)
	}
	autoID := p.First().AutoApprovals[0].ID
	p = RemoveAutoApproveAction(p, cID, autoID)
	if p.First().HasAutoApprove() {
		t.Error("auto-approve not removed")
	}
}

func TestToggleApprover_SelfInverse(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID
	p, _ = AddApprovalAction(p, cID)
	actionID := p.First().Approvals[0].ID

	p, _ = ToggleApprover(p, cID, actionID, "any-manager")
	p, _ = ToggleApprover(p, cID, actionID, "jane-doe")
	original := append([]string(nil), p.First().Approvals[0].Approvers...)

	// Toggle twice with the same id: the set must be restored.
	p, err := ToggleApprover(p, cID, actionID, "sarah-jones")
	if err != nil {
		t.Fatalf("ToggleApprover() failed: %v", err)
	}
	if !p.First().Approvals[0].HasApprover("sarah-jones") {
		t.Error("approver not added on first toggle")
	}
	p, err = ToggleApprover(p, cID, actionID, "sarah-jones")
	if err != nil {
		t.Fatalf("ToggleApprover() failed: %v", err)
	}
	if got := p.First().Approvals[0].Approvers; !reflect.DeepEqual(got, original) {
		t.Errorf("double toggle changed the set: got %v, want %v", got, original)
	}
}

func TestToggleApprover_Notification(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID
	p, _ = AddNotificationAction(p, cID)
	actionID := p.First().Notifications[0].ID

	p, err := ToggleApprover(p, cID, actionID, "mike-johnson")
	if err != nil {
		t.Fatalf("ToggleApprover() on notification failed: %v", err)
	}
	if !p.First().Notifications[0].HasApprover("mike-johnson") {
		t.Error("recipient not added")
	}

	if _, err := ToggleApprover(p, cID, "missing", "mike-johnson"); !errors.Is(err, ErrActionNotFound) {
		t.Errorf("err = %v, want ErrActionNotFound", err)
	}
}

func TestToggleApprover_NoDuplicates(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID
	p, _ = AddApprovalAction(p, cID)
	actionID := p.First().Approvals[0].ID

	p, _ = ToggleApprover(p, cID, actionID, "emma-davis")
	p, _ = ToggleApprover(p, cID, actionID, "emma-davis")
	p, _ = ToggleApprover(p, cID, actionID, "emma-davis")

	count := 0
	for _, id := range p.First().Approvals[0].Approvers {
		if id == "emma-davis" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("approver appears %d times, want 1", count)
	}
}

// Blocked additions must leave the caller's document untouched.
func TestBlockedAddition_LeavesInputUnchanged(t *testing.T) {
	p := ast.NewPolicy()
	cID := p.First().ID
	p, _ = AddAutoApproveAction(p, cID)

	if _, err := AddApprovalAction(p, cID); !errors.Is(err, ErrActionBlocked) {
		t.Fatalf("err = %v, want ErrActionBlocked", err)
	}
	if len(p.First().Approvals) != 0 {
		t.Error("blocked addition modified the input document")
	}
	if len(p.First().AutoApprovals) != 1 {
		t.Error("blocked addition disturbed existing actions")
	}
}

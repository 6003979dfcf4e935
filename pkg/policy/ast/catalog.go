package ast

// Option is one selectable entry in a builder dropdown: an opaque value plus
// its display label.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// SubjectOptions lists the condition subjects in display order.
func SubjectOptions() []Option {
	return []Option{
		{Value: string(SubjectTransaction), Label: "Transaction"},
		{Value: string(SubjectCardUser), Label: "Card user"},
		{Value: string(SubjectCard), Label: "Card"},
		{Value: string(SubjectTeam), Label: "Team"},
	}
}

// OperatorOptions lists the comparison operators in display order.
func OperatorOptions() []Option {
	return []Option{
		{Value: string(OperatorEqual), Label: "Equal"},
		{Value: string(OperatorGreater), Label: "Greater than"},
		{Value: string(OperatorLess), Label: "Less than"},
		{Value: string(OperatorGreaterEqual), Label: "Greater than or equal to"},
		{Value: string(OperatorLessEqual), Label: "Less than or equal to"},
	}
}

// TeamOptions lists the selectable teams. This is also the team vocabulary
// the translate package matches against.
func TeamOptions() []Option {
	return []Option{
		{Value: "engineering", Label: "Engineering"},
		{Value: "marketing", Label: "Marketing"},
		{Value: "sales", Label: "Sales"},
		{Value: "hr", Label: "HR"},
		{Value: "finance", Label: "Finance"},
		{Value: "operations", Label: "Operations"},
	}
}

// CardUserOptions lists the selectable card users.
func CardUserOptions() []Option {
	return []Option{
		{Value: "john-doe", Label: "John Doe"},
		{Value: "jane-smith", Label: "Jane Smith"},
		{Value: "bob-wilson", Label: "Bob Wilson"},
	}
}

// CardOptions lists the selectable cards.
func CardOptions() []Option {
	return []Option{
		{Value: "corporate-card", Label: "Corporate Card"},
		{Value: "travel-card", Label: "Travel Card"},
		{Value: "expense-card", Label: "Expense Card"},
	}
}

// ApproverOptions lists the selectable approvers in catalog order. The first
// two entries are role placeholders rather than individuals.
func ApproverOptions() []Option {
	return []Option{
		{Value: "any-manager", Label: "Any manager"},
		{Value: "any-admin", Label: "Any admin"},
		{Value: "john-smith", Label: "John Smith"},
		{Value: "john-fox", Label: "John Fox"},
		{Value: "jenny-fox", Label: "Jenny Fox"},
		{Value: "jane-doe", Label: "Jane Doe"},
		{Value: "bob-wilson", Label: "Bob Wilson"},
		{Value: "sarah-jones", Label: "Sarah Jones"},
		{Value: "mike-johnson", Label: "Mike Johnson"},
		{Value: "emma-davis", Label: "Emma Davis"},
		{Value: "alex-brown", Label: "Alex Brown"},
		{Value: "lisa-wilson", Label: "Lisa Wilson"},
	}
}

// adminApprovers are the individual approvers holding the admin role.
var adminApprovers = map[string]bool{
	"john-smith": true,
	"john-fox":   true,
	"jenny-fox":  true,
}

// ApproverRole returns the role label shown next to an individual approver
// ("Admin" or "Manager"), or "" for the role placeholders themselves.
func ApproverRole(approverID string) string {
	if approverID == "any-manager" || approverID == "any-admin" {
		return ""
	}
	if adminApprovers[approverID] {
		return "Admin"
	}
	return "Manager"
}

// SortApproversSelectedFirst returns the approver catalog ordered for an
// approver-selection surface: previously selected approvers first, then the
// unselected ones, each group preserving its relative catalog order.
func SortApproversSelectedFirst(selected []string) []Option {
	isSelected := make(map[string]bool, len(selected))
	for _, id := range selected {
		isSelected[id] = true
	}

	catalog := ApproverOptions()
	sorted := make([]Option, 0, len(catalog))
	for _, opt := range catalog {
		if isSelected[opt.Value] {
			sorted = append(sorted, opt)
		}
	}
	for _, opt := range catalog {
		if !isSelected[opt.Value] {
			sorted = append(sorted, opt)
		}
	}
	return sorted
}

// ApproverLabel returns the display label for an approver id, falling back
// to the id itself for values outside the catalog.
func ApproverLabel(approverID string) string {
	for _, opt := range ApproverOptions() {
		if opt.Value == approverID {
			return opt.Label
		}
	}
	return approverID
}

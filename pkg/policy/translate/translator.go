package translate

import (
	"fmt"
	"strings"

	"spend-hq/ganymede/pkg/policy/ast"
	"spend-hq/ganymede/pkg/policy/currency"
)

// Result is the outcome of translating one description: a single container
// fragment, not yet merged into a policy, plus the explanation shown to the
// user.
type Result struct {
	Fragment    *ast.Container `json:"fragment"`
	Explanation string         `json:"explanation"`
}

// Translator extracts a policy fragment from free-text rule descriptions.
// The zero value is not usable; call New.
type Translator struct{}

// New returns a Translator.
func New() *Translator {
	return &Translator{}
}

// Translate extracts one container fragment and an explanation from the
// description. It is deterministic and total: malformed or empty input
// falls through to defaults rather than failing.
func (t *Translator) Translate(text string) Result {
	lower := strings.ToLower(text)

	amount := extractAmount(text)
	team := extractTeam(lower)
	approver := extractApprover(lower)
	exclusion := isExclusion(lower)
	operator := extractOperator(lower)

	subject := ast.SubjectTransaction
	if team != "" {
		subject = ast.SubjectTeam
	}

	fragment := &ast.Container{
		ID:   ast.NewID(),
		Kind: ast.KindCondition,
		Conditions: []*ast.Condition{{
			ID:       ast.NewID(),
			Subject:  subject,
			Operator: operator,
			Amount:   amount,
			Team:     team,
		}},
		Approvals:     []*ast.Approval{},
		Notifications: []*ast.Notification{},
		AutoApprovals: []*ast.AutoApprove{},
	}

	if exclusion {
		fragment.Kind = ast.KindExclusion
		fragment.AutoApprovals = append(fragment.AutoApprovals, ast.NewAutoApprove())
	} else {
		approval := ast.NewApproval()
		approval.Approvers = append(approval.Approvers, approver)
		fragment.Approvals = append(fragment.Approvals, approval)
	}

	return Result{
		Fragment:    fragment,
		Explanation: explain(exclusion, team, approver, operator, amount),
	}
}

// extractAmount returns the canonical form of the first amount-looking token
// in the text, or the default when none is present.
func extractAmount(text string) string {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return defaultAmount
	}
	return currency.Normalize(m[1])
}

// extractTeam returns the team whose name occurs earliest in the lowercased
// text, or "" when no vocabulary entry matches. Vocabulary order breaks ties
// at the same position.
func extractTeam(lower string) string {
	best := ""
	bestIdx := -1
	for _, team := range teamVocabulary {
		idx := strings.Index(lower, team)
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			best = team
			bestIdx = idx
		}
	}
	return best
}

// extractApprover upgrades the default approver based on role keywords. The
// checks run in fixed priority order and the first hit wins: admin before
// cfo before director.
func extractApprover(lower string) string {
	switch {
	case strings.Contains(lower, "admin"):
		return adminApprover
	case strings.Contains(lower, "cfo"):
		return cfoApprover
	case strings.Contains(lower, "director"):
		return directorApprover
	}
	return defaultApprover
}

// isExclusion classifies the text as an exclusion (auto-approve outcome).
func isExclusion(lower string) bool {
	for _, kw := range exclusionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// extractOperator maps comparison phrases onto an operator. The checks are
// evaluated independently in this order and later hits overwrite earlier
// ones, so text containing both "less than" and "less than or equal"
// resolves to less-equal because that check runs last.
func extractOperator(lower string) ast.Operator {
	op := ast.OperatorGreater
	if strings.Contains(lower, "less than") || strings.Contains(lower, "under") {
		op = ast.OperatorLess
	}
	if strings.Contains(lower, "equal to") || strings.Contains(lower, "exactly") {
		op = ast.OperatorEqual
	}
	if strings.Contains(lower, "greater than or equal") {
		op = ast.OperatorGreaterEqual
	}
	if strings.Contains(lower, "less than or equal") {
		op = ast.OperatorLessEqual
	}
	return op
}

// explain renders the human-readable summary for the extracted rule.
func explain(exclusion bool, team string, approver string, operator ast.Operator, amount string) string {
	teamClause := ""
	if team != "" {
		teamClause = fmt.Sprintf("the %s team's ", team)
	}
	if exclusion {
		return fmt.Sprintf(
			"I've created an exclusion rule that auto-approves expenses when %stransaction amount is %s %s.",
			teamClause, operator, amount)
	}
	return fmt.Sprintf(
		"I've created a condition rule that requires %s approval when %stransaction amount is %s %s.",
		strings.ReplaceAll(approver, "-", " "), teamClause, operator, amount)
}

package parser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"spend-hq/ganymede/pkg/policy/ast"
	"spend-hq/ganymede/pkg/policy/currency"
)

// Parser parses serialized policy documents into the document model.
type Parser struct {
	maxFileSize int64 // maximum document size in bytes
}

// NewParser returns a parser with default limits (1MB documents).
func NewParser() *Parser {
	return &Parser{maxFileSize: 1 * 1024 * 1024}
}

// WithMaxFileSize sets the maximum document size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// Parse reads and parses the policy document at the given path.
func (p *Parser) Parse(path string) (*ast.Policy, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access document %q: %w", path, err)
	}
	if info.Size() > p.maxFileSize {
		return nil, fmt.Errorf("document %q is %d bytes, exceeds maximum %d", path, info.Size(), p.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %q: %w", path, err)
	}
	return p.ParseBytes(data)
}

// ParseBytes parses a policy document from a byte slice.
func (p *Parser) ParseBytes(data []byte) (*ast.Policy, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, fmt.Errorf("document is %d bytes, exceeds maximum %d", len(data), p.maxFileSize)
	}

	var doc ast.Policy
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("document parsing failed: %w", err)
	}

	if err := normalizeDocument(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode renders a policy document in its serialized YAML form.
func Encode(p *ast.Policy) ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("document encoding failed: %w", err)
	}
	return data, nil
}

// normalizeDocument validates structural invariants and fills in what the
// serialized form may legitimately omit: entity identifiers and canonical
// amount formatting.
func normalizeDocument(doc *ast.Policy) error {
	for i, c := range doc.Containers {
		if c == nil {
			return fmt.Errorf("container %d: empty entry", i)
		}
		if err := normalizeContainer(c); err != nil {
			return fmt.Errorf("container %d: %w", i, err)
		}
	}
	return nil
}

func normalizeContainer(c *ast.Container) error {
	if c.ID == "" {
		c.ID = ast.NewID()
	}
	if !ast.ValidContainerKind(c.Kind) {
		return fmt.Errorf("unknown kind %q", c.Kind)
	}
	if len(c.Conditions) == 0 {
		return fmt.Errorf("container has no conditions")
	}
	if len(c.Approvals) > 0 && len(c.AutoApprovals) > 0 {
		return fmt.Errorf("approval and auto-approve actions are mutually exclusive")
	}
	if len(c.Notifications) > 1 {
		return fmt.Errorf("at most one notification per container, got %d", len(c.Notifications))
	}
	if len(c.Approvals) > 1 {
		return fmt.Errorf("at most one approval group per container, got %d", len(c.Approvals))
	}

	for i, cond := range c.Conditions {
		if cond == nil {
			return fmt.Errorf("condition %d: empty entry", i)
		}
		if err := normalizeCondition(cond); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}

	for _, a := range c.Approvals {
		if a.ID == "" {
			a.ID = ast.NewID()
		}
		if err := checkApprovers(a.Approvers); err != nil {
			return fmt.Errorf("approval %s: %w", a.ID, err)
		}
		if a.Approvers == nil {
			a.Approvers = []string{}
		}
	}
	for _, n := range c.Notifications {
		if n.ID == "" {
			n.ID = ast.NewID()
		}
		if err := checkApprovers(n.Approvers); err != nil {
			return fmt.Errorf("notification %s: %w", n.ID, err)
		}
		if n.Approvers == nil {
			n.Approvers = []string{}
		}
	}
	for _, a := range c.AutoApprovals {
		if a.ID == "" {
			a.ID = ast.NewID()
		}
	}

	// Keep the action lists non-nil so serialization round trips cleanly.
	if c.Conditions == nil {
		c.Conditions = []*ast.Condition{}
	}
	if c.Approvals == nil {
		c.Approvals = []*ast.Approval{}
	}
	if c.Notifications == nil {
		c.Notifications = []*ast.Notification{}
	}
	if c.AutoApprovals == nil {
		c.AutoApprovals = []*ast.AutoApprove{}
	}
	return nil
}

func normalizeCondition(cond *ast.Condition) error {
	if cond.ID == "" {
		cond.ID = ast.NewID()
	}
	if !ast.ValidSubject(cond.Subject) {
		return fmt.Errorf("unknown subject %q", cond.Subject)
	}
	if !ast.ValidOperator(cond.Operator) {
		return fmt.Errorf("unknown operator %q", cond.Operator)
	}
	cond.Amount = currency.Normalize(cond.Amount)

	// A selector may only be set when the subject matches it.
	if cond.Team != "" && cond.Subject != ast.SubjectTeam {
		return fmt.Errorf("team selector set for subject %q", cond.Subject)
	}
	if cond.CardUser != "" && cond.Subject != ast.SubjectCardUser {
		return fmt.Errorf("cardUser selector set for subject %q", cond.Subject)
	}
	if cond.Card != "" && cond.Subject != ast.SubjectCard {
		return fmt.Errorf("card selector set for subject %q", cond.Subject)
	}
	return nil
}

// checkApprovers rejects duplicate entries in an approver set.
func checkApprovers(approvers []string) error {
	seen := make(map[string]bool, len(approvers))
	for _, id := range approvers {
		if seen[id] {
			return fmt.Errorf("duplicate approver %q", id)
		}
		seen[id] = true
	}
	return nil
}

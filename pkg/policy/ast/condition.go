package ast

// Subject identifies what a condition evaluates against.
type Subject string

const (
	SubjectTransaction Subject = "Transaction" // the transaction amount itself
	SubjectCardUser    Subject = "Card user"   // the user the card belongs to
	SubjectCard        Subject = "Card"        // the card the transaction was made on
	SubjectTeam        Subject = "Team"        // the team the spender belongs to
)

// Operator is the comparison applied to the condition amount.
type Operator string

const (
	OperatorEqual        Operator = "equal"
	OperatorGreater      Operator = "greater"
	OperatorLess         Operator = "less"
	OperatorGreaterEqual Operator = "greater-equal"
	OperatorLessEqual    Operator = "less-equal"
)

// Condition is a single predicate within a container.
//
// Exactly one of Team, CardUser, and Card is populated, and only when Subject
// is the matching non-transaction kind. Changing the subject clears all three
// selector fields so no stale cross-subject data survives.
type Condition struct {
	ID       string   `json:"id" yaml:"id"`
	Subject  Subject  `json:"subject" yaml:"subject"`
	Operator Operator `json:"operator" yaml:"operator"`

	// Amount is always in canonical currency form ("$X,XXX.XX").
	Amount string `json:"amount" yaml:"amount"`

	Team     string `json:"team,omitempty" yaml:"team,omitempty"`
	CardUser string `json:"cardUser,omitempty" yaml:"cardUser,omitempty"`
	Card     string `json:"card,omitempty" yaml:"card,omitempty"`
}

// NewDefaultCondition returns the condition every freshly created container
// or condition row starts with: a transaction predicate comparing equal to
// $0.00, with no selector.
func NewDefaultCondition() *Condition {
	return &Condition{
		ID:       NewID(),
		Subject:  SubjectTransaction,
		Operator: OperatorEqual,
		Amount:   "$0.00",
	}
}

// HasSelector returns true if any of the subject selector fields is set.
func (c *Condition) HasSelector() bool {
	return c.Team != "" || c.CardUser != "" || c.Card != ""
}

// Clone returns a deep copy of the condition.
func (c *Condition) Clone() *Condition {
	if c == nil {
		return nil
	}
	dup := *c
	return &dup
}

// ValidSubject reports whether s is one of the known condition subjects.
func ValidSubject(s Subject) bool {
	switch s {
	case SubjectTransaction, SubjectCardUser, SubjectCard, SubjectTeam:
		return true
	}
	return false
}

// ValidOperator reports whether op is one of the known comparison operators.
func ValidOperator(op Operator) bool {
	switch op {
	case OperatorEqual, OperatorGreater, OperatorLess, OperatorGreaterEqual, OperatorLessEqual:
		return true
	}
	return false
}

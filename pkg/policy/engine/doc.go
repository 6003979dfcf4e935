// Package engine implements the mutation operations over approval policy
// documents.
//
// Every operation is a pure transition: it takes the current document, deep
// copies it, applies the change to the copy, and returns the copy. The input
// document is never modified, so callers always observe either the full
// prior state or the full next state, never an in-progress mutation. An
// operation that cannot apply returns a nil document and an error before any
// field changes.
//
// Action additions are gated by the constraint predicates in this package
// (CanAddApproval, CanAddAutoApprove, CanAddNotification). A gated addition
// that would violate a predicate is signaled with ErrActionBlocked; this is
// a no-op outcome rather than a fault, and callers are expected to consult
// the same predicates before offering the action as available.
package engine

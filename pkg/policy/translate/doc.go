// Package translate turns a free-text rule description into a policy
// fragment: one container plus a human-readable explanation.
//
// Extraction is a deterministic fixed-lexicon heuristic, not a model. The
// amount, team, approver, outcome kind, and operator are pulled out of the
// text by keyword and regex matching; any signal that is absent simply falls
// through to a default. Translation is total: it never fails, regardless of
// input, and always produces exactly one container that satisfies the same
// structural invariants the engine package maintains.
//
// Client wraps the translator in the request/response boundary a generation
// backend would sit behind. Each request carries a monotonically increasing
// token; when requests overlap, only the newest request's response passes
// the Apply gate, so a stale result can never clobber a newer one.
package translate

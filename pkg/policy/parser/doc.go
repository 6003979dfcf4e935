// Package parser reads serialized approval policy documents back into the
// document model.
//
// The serialized form mirrors the model field for field (see the ast
// package); YAML is the primary encoding and, YAML being a superset of
// JSON, JSON documents parse through the same path. Parsing re-normalizes
// every amount to canonical currency text, mints identifiers for entities
// that arrive without one, and rejects documents that violate the
// structural invariants the engine maintains: unknown kinds, subjects, or
// operators, containers without conditions, coexisting approval and
// auto-approve actions, or selector fields inconsistent with the condition
// subject.
package parser

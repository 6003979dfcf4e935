// Package ast defines the approval policy document model.
//
// A policy is an ordered sequence of containers. Each container combines one
// or more conditions (predicates over a transaction, its team, card, or card
// user) with outcome actions: require approval, notify, or auto-approve. The
// order of containers is significant; the first container is evaluated first
// and is always a condition container.
//
// The package is organized around four entity kinds:
//
//   - Policy: the root document, an ordered list of containers
//   - Container: one rule block, either a condition or an exclusion
//   - Condition: a single predicate (subject, operator, amount, selector)
//   - Actions: Approval, Notification, and AutoApprove outcomes
//
// All entities carry an opaque unique identifier assigned at creation. The
// identifier is stable for the entity's lifetime and never reused.
//
// The types here expose read accessors and invariant predicates only. All
// writes happen through the engine package, which returns a new document for
// every transition. Serialized form (JSON or YAML) mirrors the in-memory
// shape field for field, with amounts always in canonical currency text.
package ast

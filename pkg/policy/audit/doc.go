// Package audit records policy mutations in an append-only log.
//
// Every command dispatched against a policy document produces one Entry:
// which operation ran, what it targeted, whether the engine applied or
// rejected it, and the document version that resulted. The log answers
// "who changed the policy to look like this" after the fact, so entries
// are never updated or deleted by the write path; retention is handled
// separately by Prune.
package audit

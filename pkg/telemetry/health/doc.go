// Package health provides liveness and readiness checks for the policy
// service.
//
// Components register CheckFuncs with a Checker; the readiness probe runs
// them all concurrently with a per-check timeout and aggregates the result.
// HTTP handlers for the standard probe endpoints are provided.
package health

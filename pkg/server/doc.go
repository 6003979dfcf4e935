// Package server provides the HTTP surface over the policy manager.
//
// The API is a thin embedding of the core: the document is readable at
// GET /api/v1/policy, mutations arrive as commands at
// POST /api/v1/policy/commands, free-form text goes through the translator
// at POST /api/v1/translate, and the fixed option catalogs back the builder
// at GET /api/v1/catalog. Version history and the audit trail are exposed
// read-only. Liveness, readiness, version, and metrics endpoints round out
// the operational surface.
package server

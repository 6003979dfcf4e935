package ast

import "github.com/google/uuid"

// NewID returns a new opaque entity identifier.
// Identifiers are unique, stable for the entity's lifetime, and never reused
// after deletion.
func NewID() string {
	return uuid.NewString()
}

package shared

import "github.com/google/uuid"

// Principal is the authenticated caller, resolved from the bearer token.
// Lives here to avoid import cycles between domains and middleware.
type Principal struct {
	UserID uuid.UUID
	Name   string
}

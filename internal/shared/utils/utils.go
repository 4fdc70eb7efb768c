package utils

import (
	"github.com/google/uuid"
)

// ParseID parses a path identifier. Malformed input reports false so callers
// can treat it the same as an unknown id.
func ParseID(s string) (uuid.UUID, bool) {
	if s == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

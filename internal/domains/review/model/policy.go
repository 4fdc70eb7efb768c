package model

import "bookreview-backend/internal/shared"

// CanModify reports whether p may update or delete r. Only the author can.
func CanModify(p *shared.Principal, r *Review) bool {
	if p == nil || r == nil {
		return false
	}
	return p.UserID == r.UserID
}

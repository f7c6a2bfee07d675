package model

import "github.com/google/uuid"

type Principal struct {
	UserID     uuid.UUID
	Role       string
	StationIDs []uuid.UUID
}

func (p Principal) IsAdmin() bool {
	return p.Role == "ADMIN"
}

func (p Principal) IsManager() bool {
	return p.Role == "MANAGER"
}

func (p Principal) IsAccountant() bool {
	return p.Role == "ACCOUNTANT"
}

// ManagesStation reports whether the principal's ownership set contains the
// station. Admins manage every station.
func (p Principal) ManagesStation(id uuid.UUID) bool {
	if p.IsAdmin() {
		return true
	}
	for _, s := range p.StationIDs {
		if s == id {
			return true
		}
	}
	return false
}

package services

import (
	"city-report-api/models"

	"gorm.io/gorm"
)

// AccessScope is the per-request view restriction computed from the
// authenticated actor. It is never persisted.
type AccessScope struct {
	Role   string
	OsbbID *string
}

// ResolveScope builds the access scope for an actor. Pure; no I/O.
func ResolveScope(role string, osbbID *string) AccessScope {
	return AccessScope{Role: role, OsbbID: osbbID}
}

// ReportFilter returns a gorm scope restricting report queries to what the
// actor may see. OSBB admins only see reports authored by members of their
// own association; an OSBB admin without an association sees nothing.
func (s AccessScope) ReportFilter() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.Role != models.RoleOsbbAdmin {
			return db
		}
		if s.OsbbID == nil || *s.OsbbID == "" {
			return db.Where("1 = 0")
		}
		return db.Where("author_id IN (SELECT id FROM users WHERE osbb_id = ?)", *s.OsbbID)
	}
}

// UserFilter is the same restriction applied to user queries.
func (s AccessScope) UserFilter() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.Role != models.RoleOsbbAdmin {
			return db
		}
		if s.OsbbID == nil || *s.OsbbID == "" {
			return db.Where("1 = 0")
		}
		return db.Where("osbb_id = ?", *s.OsbbID)
	}
}

// AllowsMember reports whether the actor may mutate an entity owned by a
// user of the given association. Global admins always may; OSBB admins only
// within their own association, and never without one.
func (s AccessScope) AllowsMember(osbbID *string) bool {
	if s.Role != models.RoleOsbbAdmin {
		return true
	}
	if s.OsbbID == nil || *s.OsbbID == "" {
		return false
	}
	if osbbID == nil {
		return false
	}
	return *osbbID == *s.OsbbID
}

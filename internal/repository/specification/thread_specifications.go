package specification

import "gorm.io/gorm"

// ByExternalID filters threads by the client-generated identifier.
type ByExternalID struct {
	ExternalID string
}

func (s ByExternalID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("external_id = ?", s.ExternalID)
}

// OwnedBy scopes rows to one identity (JWT subject or anonymous client id).
type OwnedBy struct {
	OwnerID string
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ?", s.OwnerID)
}

// PublicOnly restricts to shared threads.
type PublicOnly struct{}

func (s PublicOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_public = ?", true)
}

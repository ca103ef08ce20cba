package entity

// Track selects one of the two parallel storage partitions.
type Track string

const (
	// TrackPermanent backs authenticated users (threads/messages tables).
	TrackPermanent Track = "permanent"
	// TrackTemporary backs anonymous users, promoted on login.
	TrackTemporary Track = "temporary"
)

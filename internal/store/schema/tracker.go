package schema

import (
	"time"
)

// TripTracker represents the trip_trackers table - publicly shareable,
// access-counted pointers to a trip. The tracker id itself is the secret;
// the stored email optionally verifies the caller. Deletion is a soft
// disable via IsActive.
type TripTracker struct {
	// ID is an auto-incrementing sequence number
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TrackerID is the generated TR-prefixed code
	TrackerID string `gorm:"column:tracker_id;not null;uniqueIndex;type:varchar(50)"`
	// TripID references the tracked trip
	TripID string `gorm:"column:trip_id;not null;index;type:varchar(36)"`
	// Email is the address the tracker was issued to
	Email string `gorm:"column:email;not null;index;type:varchar(255)"`
	// TravelerName is an optional display name
	TravelerName string `gorm:"column:traveler_name;type:varchar(255)"`
	// Phone is an optional contact number
	Phone string `gorm:"column:phone;type:varchar(50)"`
	// IsActive gates all access; false means soft-deleted
	IsActive bool `gorm:"column:is_active;not null;default:true"`
	// AccessCount is the monotonic number of successful reads
	AccessCount int64 `gorm:"column:access_count;not null;default:0"`
	// LastAccessed is the timestamp of the most recent successful read
	LastAccessed *time.Time `gorm:"column:last_accessed;type:timestamptz"`
	// ExpiresAt is an optional absolute access deadline
	ExpiresAt *time.Time `gorm:"column:expires_at;type:timestamptz"`
	// CreatedAt is when the tracker was issued
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz;index"`
	// UpdatedAt is the timestamp of the last change
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the TripTracker model
func (TripTracker) TableName() string {
	return "trip_trackers"
}

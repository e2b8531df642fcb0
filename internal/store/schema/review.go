package schema

import (
	"time"
)

// Review represents the reviews table - destination reviews. Approved reviews
// are globally readable; moderation is admin-gated.
type Review struct {
	// ID is an auto-incrementing sequence number
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Destination is the reviewed destination's name
	Destination string `gorm:"column:destination;not null;index;type:varchar(255)"`
	// AuthorName is the reviewer's display name
	AuthorName string `gorm:"column:author_name;not null;type:varchar(255)"`
	// Email is the reviewer's contact address
	Email string `gorm:"column:email;type:varchar(255)"`
	// Rating is the 1..5 star rating
	Rating int `gorm:"column:rating;not null"`
	// Comment is the review body
	Comment string `gorm:"column:comment;type:text"`
	// Approved gates public visibility; new reviews start unapproved
	Approved bool `gorm:"column:approved;not null;default:false;index"`
	// CreatedAt is when the review was submitted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp of the last moderation change
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

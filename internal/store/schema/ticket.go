package schema

import (
	"time"

	"gorm.io/datatypes"
)

// GeneratedTicket represents the generated_tickets table - minted ticket
// codes with a one-way used/unused state
type GeneratedTicket struct {
	// ID is an auto-incrementing sequence number
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TicketID is the generated code; the unique constraint is the
	// authoritative backstop against generation races
	TicketID string `gorm:"column:ticket_id;not null;uniqueIndex;type:varchar(50)"`
	// TicketType is the code type tag (FLIGHT, BUS, ...)
	TicketType string `gorm:"column:ticket_type;not null;index;type:varchar(20)"`
	// UserID references the owning user, if any
	UserID *int64 `gorm:"column:user_id;index"`
	// SessionID is the owning anonymous session, if any
	SessionID *string `gorm:"column:session_id;index;type:varchar(255)"`
	// IsUsed flips false to true exactly once
	IsUsed bool `gorm:"column:is_used;not null;default:false"`
	// UsedAt is set on the false-to-true transition and never changes
	UsedAt *time.Time `gorm:"column:used_at;type:timestamptz"`
	// IncludeTimestamp records whether the code carries a timestamp fragment
	IncludeTimestamp bool `gorm:"column:include_timestamp;not null;default:true"`
	// Metadata is a free-form JSON payload supplied at generation time
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	// CreatedAt is when the code was minted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz;index"`
	// UpdatedAt is the timestamp of the last change
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the GeneratedTicket model
func (GeneratedTicket) TableName() string {
	return "generated_tickets"
}

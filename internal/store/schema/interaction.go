package schema

import (
	"time"

	"gorm.io/datatypes"
)

// InteractionEventType classifies audit log entries
type InteractionEventType string

const (
	// InteractionTrackerAccessed records a successful tracker read
	InteractionTrackerAccessed InteractionEventType = "tracker.accessed"
	// InteractionTicketGenerated records a minted ticket code
	InteractionTicketGenerated InteractionEventType = "ticket.generated"
	// InteractionTicketUsed records a ticket's used transition
	InteractionTicketUsed InteractionEventType = "ticket.used"
)

// Interaction represents the interactions table - an append-only, best-effort
// audit log. Writes are non-blocking and failures never affect the primary
// operation.
type Interaction struct {
	// ID is a ULID, sortable by creation time
	ID string `gorm:"column:id;primaryKey;type:varchar(26)"`
	// EventType classifies the interaction
	EventType InteractionEventType `gorm:"column:event_type;not null;index;type:varchar(50)"`
	// SubjectType names the kind of record acted on (tracker, ticket)
	SubjectType string `gorm:"column:subject_type;not null;type:varchar(50)"`
	// SubjectID is the public identifier of the record acted on
	SubjectID string `gorm:"column:subject_id;not null;index;type:varchar(50)"`
	// ActorUserID is the acting user, if authenticated
	ActorUserID *int64 `gorm:"column:actor_user_id"`
	// ActorSessionID is the acting anonymous session, if any
	ActorSessionID *string `gorm:"column:actor_session_id;type:varchar(255)"`
	// IPAddress is the caller's address, for audit only
	IPAddress string `gorm:"column:ip_address;type:varchar(45)"`
	// UserAgent is the caller's user agent, for audit only
	UserAgent string `gorm:"column:user_agent;type:varchar(255)"`
	// Payload carries event-specific details
	Payload datatypes.JSON `gorm:"column:payload;type:jsonb"`
	// CreatedAt is when the interaction happened
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Interaction model
func (Interaction) TableName() string {
	return "interactions"
}

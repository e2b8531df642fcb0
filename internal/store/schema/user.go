package schema

import (
	"time"
)

// User represents the users table - registered account holders
type User struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Username is the unique login name
	Username string `gorm:"column:username;not null;uniqueIndex;type:varchar(50)"`
	// Email is the unique contact address
	Email string `gorm:"column:email;not null;uniqueIndex;type:varchar(100)"`
	// PasswordHash is the argon2id digest of the password
	PasswordHash []byte `gorm:"column:password_hash;not null;type:bytea"`
	// PasswordSalt is the per-user salt used for hashing
	PasswordSalt []byte `gorm:"column:password_salt;not null;type:bytea"`
	// FirstName is an optional given name
	FirstName *string `gorm:"column:first_name;type:varchar(50)"`
	// LastName is an optional family name
	LastName *string `gorm:"column:last_name;type:varchar(50)"`
	// CreatedAt is the registration timestamp
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp of the last profile change
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Sessions []UserSession `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// UserSession represents the user_sessions table - server-side login sessions
type UserSession struct {
	// ID is an auto-incrementing sequence number
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// UserID references the owning user
	UserID int64 `gorm:"column:user_id;not null;index"`
	// SessionID is the opaque session identifier handed to the client
	SessionID string `gorm:"column:session_id;not null;uniqueIndex;type:varchar(255)"`
	// CreatedAt is when the session was opened
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// ExpiresAt is the absolute session deadline
	ExpiresAt time.Time `gorm:"column:expires_at;not null;type:timestamptz"`
}

// TableName specifies the table name for the UserSession model
func (UserSession) TableName() string {
	return "user_sessions"
}

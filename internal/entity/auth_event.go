package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuthAction string

const (
	CodeSent     AuthAction = "code_sent"
	SignInOK     AuthAction = "sign_in_success"
	SignInFailed AuthAction = "sign_in_failed"
	Recovered    AuthAction = "session_recovered"
	Logout       AuthAction = "logout"
)

// AuthEvent is an append-only audit record of the authentication flow.
type AuthEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID   *string   `gorm:"type:uuid;index"`
	PhoneNumber *string   `gorm:"type:varchar(32)"`

	Action   AuthAction     `gorm:"type:varchar(32);not null"`
	Metadata datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time
}

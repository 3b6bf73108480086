package entity

import (
	"time"
)

// AuthSession is one login attempt against Telegram. It is created pending by
// /auth/start, completed exactly once by /auth/verify, and eligible for removal
// 24 hours after creation whether or not verification ever happened.
type AuthSession struct {
	SessionID   string `gorm:"type:uuid;primaryKey"`
	PhoneNumber string `gorm:"type:varchar(32);not null"`

	// SessionBlob is the base64-encoded MTProto session. Pre-login while the
	// record is pending, rotated to the authorized session on verification.
	SessionBlob string `gorm:"type:text;not null"`

	// PhoneCodeHash is required by Telegram to complete sign-in. Only
	// meaningful while the record is pending.
	PhoneCodeHash string `gorm:"type:text"`

	IsPending bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"index"`
}

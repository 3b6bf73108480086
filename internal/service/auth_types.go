package service

import (
	"context"
	"time"

	"tgbridge/internal/telegram"
)

type AuthConfig struct {
	// SessionTTL bounds the lifetime of a persisted auth session record,
	// pending or not. Defaults to 24h.
	SessionTTL time.Duration
}

// PlatformConn is a live connection to the messaging platform. Implemented by
// *telegram.Conn; faked in tests.
type PlatformConn interface {
	SendCode(ctx context.Context, phoneNumber string) (string, error)
	SignIn(ctx context.Context, phoneNumber, code, codeHash, password string) (*telegram.User, error)
	Self(ctx context.Context) (*telegram.User, error)
	SessionBlob(ctx context.Context) (string, error)

	Messages(ctx context.Context, limit, offsetID int) ([]telegram.Message, error)
	MessageByID(ctx context.Context, id int) (*telegram.Message, error)
	SendText(ctx context.Context, text string) (*telegram.Message, error)
	DeleteMessage(ctx context.Context, id int) error

	SendFile(ctx context.Context, path, caption string) (*telegram.Message, error)
	DownloadMedia(ctx context.Context, messageID int, path string) error
	DownloadMediaBytes(ctx context.Context, messageID int) ([]byte, string, error)

	Close() error
}

// Dialer opens a platform connection from a serialized session blob. An empty
// blob dials a fresh, unauthenticated session.
type Dialer interface {
	Dial(ctx context.Context, sessionBlob string) (PlatformConn, error)
}

type DialerFunc func(ctx context.Context, sessionBlob string) (PlatformConn, error)

func (f DialerFunc) Dial(ctx context.Context, sessionBlob string) (PlatformConn, error) {
	return f(ctx, sessionBlob)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

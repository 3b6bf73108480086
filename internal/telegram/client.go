// Package telegram wraps the gotd MTProto client behind the small surface the
// rest of the service needs: dial a connection from a serialized session blob,
// run the code/sign-in exchange, and talk to Saved Messages.
package telegram

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
)

// connectionRetries bounds reconnect attempts inside gotd; the service layer
// never retries on top of this.
const connectionRetries = 5

var (
	ErrCodeInvalid      = errors.New("telegram: verification code rejected")
	ErrCodeExpired      = errors.New("telegram: verification code expired")
	ErrPasswordRequired = errors.New("telegram: two-factor password required")
	ErrPasswordInvalid  = errors.New("telegram: two-factor password rejected")

	ErrMessageNotFound = errors.New("telegram: message not found")
	ErrNoMedia         = errors.New("telegram: message has no media")
)

// IsSignInRejected reports whether err is a sign-in rejection the caller may
// correct and retry, as opposed to a transport or protocol failure.
func IsSignInRejected(err error) bool {
	return errors.Is(err, ErrCodeInvalid) ||
		errors.Is(err, ErrCodeExpired) ||
		errors.Is(err, ErrPasswordRequired) ||
		errors.Is(err, ErrPasswordInvalid)
}

type Credentials struct {
	APIID   int
	APIHash string
}

// Conn is a live MTProto connection. The gotd client runs in a background
// goroutine for the lifetime of the Conn; Close stops it and waits.
type Conn struct {
	client  *telegram.Client
	storage *session.StorageMemory
	cancel  context.CancelFunc
	done    chan error

	closeOnce sync.Once
	closeErr  error
}

// Dial connects to Telegram, restoring state from sessionBlob when non-empty.
// It returns once the connection is ready or fails.
func Dial(ctx context.Context, creds Credentials, sessionBlob string) (*Conn, error) {
	storage := &session.StorageMemory{}
	if sessionBlob != "" {
		raw, err := base64.StdEncoding.DecodeString(sessionBlob)
		if err != nil {
			return nil, fmt.Errorf("decode session blob: %w", err)
		}
		if err := storage.StoreSession(ctx, raw); err != nil {
			return nil, err
		}
	}

	client := telegram.NewClient(creds.APIID, creds.APIHash, telegram.Options{
		SessionStorage: storage,
		MaxRetries:     connectionRetries,
		NoUpdates:      true,
	})

	runCtx, cancel := context.WithCancel(context.Background())
	conn := &Conn{
		client:  client,
		storage: storage,
		cancel:  cancel,
		done:    make(chan error, 1),
	}

	ready := make(chan struct{})
	go func() {
		conn.done <- client.Run(runCtx, func(ctx context.Context) error {
			close(ready)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-ready:
		return conn, nil
	case err := <-conn.done:
		cancel()
		if err == nil {
			err = errors.New("telegram: client stopped before ready")
		}
		return nil, err
	case <-ctx.Done():
		cancel()
		<-conn.done
		return nil, ctx.Err()
	}
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		if err := <-c.done; err != nil && !errors.Is(err, context.Canceled) {
			c.closeErr = err
		}
	})
	return c.closeErr
}

func (c *Conn) api() *tg.Client {
	return c.client.API()
}

// SendCode asks Telegram to dispatch a login code to phoneNumber and returns
// the code hash required to complete sign-in.
func (c *Conn) SendCode(ctx context.Context, phoneNumber string) (string, error) {
	sent, err := c.client.Auth().SendCode(ctx, phoneNumber, auth.SendCodeOptions{})
	if err != nil {
		return "", fmt.Errorf("send code: %w", err)
	}
	code, ok := sent.(*tg.AuthSentCode)
	if !ok {
		return "", fmt.Errorf("telegram: unexpected sent code response %T", sent)
	}
	return code.PhoneCodeHash, nil
}

// SignIn completes login with the dispatched code, falling back to the
// two-factor password when Telegram demands one. Rejections come back as the
// sentinel errors above.
func (c *Conn) SignIn(ctx context.Context, phoneNumber, code, codeHash, password string) (*User, error) {
	if _, err := c.client.Auth().SignIn(ctx, phoneNumber, code, codeHash); err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordAuthNeeded):
			if password == "" {
				return nil, ErrPasswordRequired
			}
			if _, err := c.client.Auth().Password(ctx, password); err != nil {
				if errors.Is(err, auth.ErrPasswordInvalid) {
					return nil, ErrPasswordInvalid
				}
				return nil, fmt.Errorf("check password: %w", err)
			}
		case tgerr.Is(err, "PHONE_CODE_INVALID"):
			return nil, ErrCodeInvalid
		case tgerr.Is(err, "PHONE_CODE_EXPIRED"):
			return nil, ErrCodeExpired
		default:
			return nil, fmt.Errorf("sign in: %w", err)
		}
	}
	return c.Self(ctx)
}

func (c *Conn) Self(ctx context.Context) (*User, error) {
	me, err := c.client.Self(ctx)
	if err != nil {
		return nil, fmt.Errorf("get self: %w", err)
	}
	return userFromTG(me), nil
}

// SessionBlob serializes the current MTProto session. The blob rotates during
// sign-in, so callers re-read it after auth operations.
func (c *Conn) SessionBlob(ctx context.Context) (string, error) {
	raw, err := c.storage.LoadSession(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

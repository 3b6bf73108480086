package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tgbridge/internal/entity"
	"tgbridge/internal/repository"
	"tgbridge/internal/telegram"
	"tgbridge/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuthService owns the two-phase login state machine: start creates a pending
// session record and has Telegram dispatch a verification code; verify
// completes sign-in and exchanges the MTProto session for a bearer token.
type AuthService struct {
	sessions repository.AuthSessionRepository
	events   repository.AuthEventRepository

	dialer Dialer
	tokens *utils.TokenManager
	cache  *ClientCache
	clock  Clock
	config AuthConfig
}

func NewAuthService(
	sessions repository.AuthSessionRepository,
	events repository.AuthEventRepository,
	dialer Dialer,
	tokens *utils.TokenManager,
	cache *ClientCache,
	clock Clock,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		sessions: sessions,
		events:   events,
		dialer:   dialer,
		tokens:   tokens,
		cache:    cache,
		clock:    clock,
		config:   config,
	}
}

// Start opens a fresh platform connection and asks Telegram to dispatch a
// verification code. The record stores the phone number exactly as supplied;
// only the wire call gets the normalized form.
func (s *AuthService) Start(ctx context.Context, phoneNumber string) (*StartResult, error) {
	if strings.TrimSpace(phoneNumber) == "" {
		return nil, fmt.Errorf("%w: phone number is required", ErrInvalidInput)
	}
	normalized := utils.NormalizePhone(phoneNumber)
	if normalized == "" {
		return nil, fmt.Errorf("%w: phone number has no digits", ErrInvalidInput)
	}

	sessionID := uuid.NewString()

	conn, err := s.dialer.Dial(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer conn.Close()

	codeHash, err := conn.SendCode(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	blob, err := conn.SessionBlob(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	record := &entity.AuthSession{
		SessionID:     sessionID,
		PhoneNumber:   phoneNumber,
		SessionBlob:   blob,
		PhoneCodeHash: codeHash,
		IsPending:     true,
		CreatedAt:     s.now(),
	}
	if err := s.sessions.Create(ctx, record); err != nil {
		return nil, err
	}

	_ = s.logEvent(ctx, &sessionID, &phoneNumber, entity.CodeSent, map[string]any{"normalized": normalized})

	return &StartResult{
		SessionID: sessionID,
		Message:   "verification code sent",
		NextStep:  "verify",
	}, nil
}

// Verify completes sign-in for a pending session. A rejection by Telegram
// (wrong code or password) is returned as a result with SignInError set and
// leaves the record pending for retry; any success flips the record out of
// pending exactly once, so a second verify for the same id gets not-found.
func (s *AuthService) Verify(ctx context.Context, sessionID, code, password string) (*VerifyResult, error) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: session id and code are required", ErrInvalidInput)
	}

	record, err := s.sessions.FindPending(ctx, sessionID, s.expiryCutoff())
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrSessionNotFound
	}

	conn, err := s.dialer.Dial(ctx, record.SessionBlob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	user, err := conn.SignIn(ctx, utils.NormalizePhone(record.PhoneNumber), code, record.PhoneCodeHash, password)
	if err != nil {
		_ = conn.Close()
		if telegram.IsSignInRejected(err) {
			_ = s.logEvent(ctx, &sessionID, &record.PhoneNumber, entity.SignInFailed, map[string]any{"reason": err.Error()})
			return &VerifyResult{
				SessionID:   sessionID,
				SignInError: err.Error(),
				User:        &UserSummary{PhoneNumber: record.PhoneNumber},
			}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	blob, err := conn.SessionBlob(ctx)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	token, ttl, err := s.tokens.Issue(sessionID, record.PhoneNumber, blob)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := s.sessions.Complete(ctx, sessionID, blob); err != nil {
		_ = conn.Close()
		return nil, err
	}

	// Keep the freshly authenticated connection around for the requests the
	// new token is about to make.
	if s.cache != nil {
		s.cache.Put(sessionID, conn)
	} else {
		_ = conn.Close()
	}

	_ = s.logEvent(ctx, &sessionID, &record.PhoneNumber, entity.SignInOK, nil)

	summary := &UserSummary{PhoneNumber: record.PhoneNumber}
	if user != nil {
		summary.ID = user.ID
		summary.Username = user.Username
		summary.FirstName = user.FirstName
		summary.LastName = user.LastName
	}
	return &VerifyResult{
		Token:     token,
		ExpiresIn: int64(ttl.Seconds()),
		SessionID: sessionID,
		User:      summary,
	}, nil
}

// Recover rehydrates a platform connection for an already-issued token. Cache
// hit wins; a still-pending record's blob is preferred over the token's; the
// token blob alone is enough once the record has expired. Never writes the
// session record.
func (s *AuthService) Recover(ctx context.Context, claims *utils.SessionClaims) (PlatformConn, error) {
	if s.cache != nil {
		if conn, ok := s.cache.Get(claims.SessionID); ok {
			return conn, nil
		}
	}

	blob := claims.SessionBlob
	if record, err := s.sessions.FindPending(ctx, claims.SessionID, s.expiryCutoff()); err == nil && record != nil {
		blob = record.SessionBlob
	}

	conn, err := s.dialer.Dial(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if s.cache != nil {
		s.cache.Put(claims.SessionID, conn)
	}
	_ = s.logEvent(ctx, &claims.SessionID, &claims.PhoneNumber, entity.Recovered, nil)
	return conn, nil
}

// CurrentUser reports the authenticated Telegram account behind conn.
func (s *AuthService) CurrentUser(ctx context.Context, conn PlatformConn, phoneNumber string) (*UserSummary, error) {
	user, err := conn.Self(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	summary := &UserSummary{
		ID:          user.ID,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: phoneNumber,
	}
	if summary.PhoneNumber == "" {
		summary.PhoneNumber = user.Phone
	}
	return summary, nil
}

// Logout closes the cached connection and deletes the persisted record. The
// bearer token itself stays valid until expiry; it is stateless.
func (s *AuthService) Logout(ctx context.Context, sessionID, phoneNumber string) error {
	if s.cache != nil {
		s.cache.Evict(sessionID)
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	_ = s.logEvent(ctx, &sessionID, &phoneNumber, entity.Logout, nil)
	return nil
}

// CleanupExpired removes session records past their 24h window. Run
// periodically from main.
func (s *AuthService) CleanupExpired(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx, s.expiryCutoff())
}

func (s *AuthService) logEvent(
	ctx context.Context,
	sessionID *string,
	phoneNumber *string,
	action entity.AuthAction,
	metadata map[string]any,
) error {
	if s.events == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}
	return s.events.Log(ctx, &entity.AuthEvent{
		SessionID:   sessionID,
		PhoneNumber: phoneNumber,
		Action:      action,
		Metadata:    payload,
	})
}

func (s *AuthService) expiryCutoff() time.Time {
	return s.now().Add(-s.sessionTTL())
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.config.SessionTTL > 0 {
		return s.config.SessionTTL
	}
	return 24 * time.Hour
}

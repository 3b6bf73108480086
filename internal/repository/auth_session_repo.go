package repository

import (
	"context"
	"errors"
	"time"

	"tgbridge/internal/entity"

	"gorm.io/gorm"
)

type AuthSessionRepository interface {
	Create(ctx context.Context, session *entity.AuthSession) error
	// FindPending returns the pending, unexpired record for sessionID, or
	// (nil, nil) when none exists. createdAfter is the expiry cutoff.
	FindPending(ctx context.Context, sessionID string, createdAfter time.Time) (*entity.AuthSession, error)
	// Complete flips the record out of pending and stores the rotated blob.
	Complete(ctx context.Context, sessionID string, sessionBlob string) error
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context, createdBefore time.Time) error
}

type authSessionRepository struct {
	db *gorm.DB
}

func NewAuthSessionRepository(db *gorm.DB) AuthSessionRepository {
	return &authSessionRepository{db: db}
}

func (r *authSessionRepository) Create(ctx context.Context, s *entity.AuthSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *authSessionRepository) FindPending(
	ctx context.Context,
	sessionID string,
	createdAfter time.Time,
) (*entity.AuthSession, error) {
	var session entity.AuthSession
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND is_pending = true AND created_at > ?", sessionID, createdAfter).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *authSessionRepository) Complete(ctx context.Context, sessionID string, sessionBlob string) error {
	return r.db.WithContext(ctx).
		Model(&entity.AuthSession{}).
		Where("session_id = ? AND is_pending = true", sessionID).
		Updates(map[string]any{
			"session_blob": sessionBlob,
			"is_pending":   false,
		}).
		Error
}

func (r *authSessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&entity.AuthSession{}).
		Error
}

func (r *authSessionRepository) DeleteExpired(ctx context.Context, createdBefore time.Time) error {
	return r.db.WithContext(ctx).
		Where("created_at < ?", createdBefore).
		Delete(&entity.AuthSession{}).
		Error
}

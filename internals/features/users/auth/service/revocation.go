package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"educa_backend/internals/features/users/auth/model"
)

// RevocationStore keeps logged-out tokens until they would have expired anyway.
// Only an HMAC of the token is stored.
type RevocationStore struct {
	DB     *gorm.DB
	Secret string
	Now    func() time.Time
}

func NewRevocationStore(db *gorm.DB, secret string) *RevocationStore {
	return &RevocationStore{DB: db, Secret: secret, Now: time.Now}
}

func (r *RevocationStore) Migrate() error {
	return r.DB.AutoMigrate(&model.RevokedTokenModel{})
}

func (r *RevocationStore) hash(raw string) string {
	m := hmac.New(sha256.New, []byte(r.Secret))
	_, _ = m.Write([]byte(raw))
	return hex.EncodeToString(m.Sum(nil))
}

// Revoke marks raw as logged out until expiresAt. Re-revoking extends the entry.
func (r *RevocationStore) Revoke(ctx context.Context, raw string, expiresAt time.Time) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || r.Secret == "" {
		return nil
	}
	row := model.RevokedTokenModel{
		RevokedTokenHash:      r.hash(raw),
		RevokedTokenExpiresAt: expiresAt.UTC(),
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "revoked_token_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"revoked_token_expires_at"}),
	}).Create(&row).Error
}

func (r *RevocationStore) IsRevoked(ctx context.Context, raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || r.Secret == "" {
		return false, nil
	}
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.RevokedTokenModel{}).
		Where("revoked_token_hash = ? AND revoked_token_expires_at > ?", r.hash(raw), r.Now().UTC()).
		Count(&n).Error
	return n > 0, err
}

// PurgeExpired drops entries whose token has expired on its own.
func (r *RevocationStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("revoked_token_expires_at <= ?", r.Now().UTC()).
		Delete(&model.RevokedTokenModel{})
	return res.RowsAffected, res.Error
}

// RunPurger purges on every tick until ctx is done.
func (r *RevocationStore) RunPurger(ctx context.Context, every time.Duration, log *zap.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := r.PurgeExpired(ctx)
			if err != nil {
				log.Warn("purge revoked tokens", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("purged revoked tokens", zap.Int64("count", n))
			}
		}
	}
}

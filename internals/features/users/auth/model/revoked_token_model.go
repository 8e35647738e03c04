package model

import "time"

// RevokedTokenModel stores the HMAC of an access token that was logged out before it expired.
type RevokedTokenModel struct {
	RevokedTokenHash      string    `gorm:"column:revoked_token_hash;type:varchar(64);primaryKey" json:"revoked_token_hash"`
	RevokedTokenExpiresAt time.Time `gorm:"column:revoked_token_expires_at;not null;index" json:"revoked_token_expires_at"`
	RevokedTokenCreatedAt time.Time `gorm:"column:revoked_token_created_at;autoCreateTime" json:"revoked_token_created_at"`
}

func (RevokedTokenModel) TableName() string { return "revoked_tokens" }

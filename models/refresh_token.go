package models

import "time"

// RefreshToken backs the refresh/logout endpoints. Tokens are stored hashed
// by ID only; revocation flips RevokedAt.
type RefreshToken struct {
	TokenID   string     `gorm:"primaryKey;column:token_id" json:"token_id"`
	UserID    int        `gorm:"column:user_id;index" json:"user_id"`
	ExpiresAt time.Time  `gorm:"column:expires_at" json:"expires_at"`
	RevokedAt *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreateAt  time.Time  `gorm:"column:create_at" json:"create_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// Active reports whether the token can still be exchanged.
func (t *RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

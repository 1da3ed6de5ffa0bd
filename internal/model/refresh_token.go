package model

import "time"

// RefreshToken maps to refresh_tokens. Token is an opaque uuid handed to the client.
type RefreshToken struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"         json:"id"`
	Token      string    `gorm:"type:varchar(64);not null;unique" json:"token"`
	UserID     int64     `gorm:"not null;index"                   json:"user_id"`
	ExpiryDate time.Time `gorm:"not null"                         json:"expiry_date"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName table name
func (RefreshToken) TableName() string { return "refresh_tokens" }

// Expired reports whether the token is past its expiry at now
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiryDate.After(now)
}

package dto

import "time"

const timeLayout = "2006-01-02T15:04:05Z07:00"

// FormatTime RFC 3339 without sub-second noise
func FormatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// ── auth ──

// TokenResponse token pair
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // access token lifetime, seconds
	User         UserResponse `json:"user"`
}

// UserResponse public user fields
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

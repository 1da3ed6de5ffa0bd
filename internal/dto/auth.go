package dto

// ── auth ──

// RegisterRequest new account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Fullname string `json:"fullname" binding:"required,min=2,max=150"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

package auth

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type OperatorResponse struct {
	Subject   string `json:"subject"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

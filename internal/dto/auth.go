package dto

// LoginRequest authenticates the scheduling operator.
type LoginRequest struct {
	OperatorID string `json:"operatorId" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

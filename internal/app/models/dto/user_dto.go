package dto

// UserBasicResponse carries the fields needed to display a participant.
type UserBasicResponse struct {
	ID        int64  `json:"id" example:"1"`
	Email     string `json:"email" example:"ayse@example.org"`
	FirstName string `json:"firstName" example:"Ayşe"`
	LastName  string `json:"lastName" example:"Demir"`
}

// LoginRequest is the credential payload for token issuance.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string            `json:"accessToken"`
	TokenType   string            `json:"tokenType" example:"Bearer"`
	ExpiresIn   int               `json:"expiresIn" example:"43200"`
	User        UserBasicResponse `json:"user"`
}

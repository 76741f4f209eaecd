package auth

import (
	"strings"

	"github.com/abhay-gupta-199/kmrl-backend/internal"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() error {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Email == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// RefreshTokenDTO for refresh token requests. The token may also arrive via
// the refreshToken cookie; the body wins when both are present.
type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken"`
}

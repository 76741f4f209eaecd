package user

import (
	"strings"

	"github.com/abhay-gupta-199/kmrl-backend/internal"
)

// CreateUserDTO is the add-user request payload. The password is never part
// of the request; the service generates one and returns it exactly once.
type CreateUserDTO struct {
	Email      string     `json:"email"`
	Department Department `json:"department"`
	Role       Role       `json:"role"`
}

func (d *CreateUserDTO) Validate() error {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Email == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeValidationFailed)
	}
	if !strings.Contains(d.Email, "@") {
		return internal.NewValidationError("email is not valid", internal.ErrCodeValidationFailed)
	}
	if d.Department == "" {
		return internal.NewValidationError("department is required", internal.ErrCodeValidationFailed)
	}
	if d.Role == "" {
		return internal.NewValidationError("role is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// CreatedUserResponse carries the provisioned account's public fields plus the
// one-time generated password. Out-of-band delivery is the caller's problem.
type CreatedUserResponse struct {
	User              *User  `json:"user"`
	GeneratedPassword string `json:"generatedPassword"`
}

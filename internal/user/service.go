package user

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/abhay-gupta-199/kmrl-backend/internal"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotSuperAdmin = internal.NewForbiddenError("only SuperAdmin can add users", internal.ErrCodeNotSuperAdmin)
	ErrUserNotFound  = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrEmailTaken    = internal.NewConflictError("email is already registered", internal.ErrCodeEmailTaken)
)

type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
}

type Service struct {
	repo       Repository
	policy     RolePolicy
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, policy RolePolicy, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		policy:     policy,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Create provisions a new account. Only a SuperAdmin may call it; the role
// must be allowed for the department per the injected policy. The generated
// plaintext password is returned once and is not recoverable afterwards.
func (s *Service) Create(actor *User, dto CreateUserDTO) (*User, string, error) {
	if actor == nil || !actor.Role.IsSuperAdmin() {
		s.logger.Warn("add user denied: actor is not SuperAdmin", "actor_role", actorRole(actor))
		return nil, "", ErrNotSuperAdmin
	}

	if err := dto.Validate(); err != nil {
		return nil, "", err
	}

	if !s.policy.Allows(dto.Department, dto.Role) {
		s.logger.Warn("add user denied: role not allowed for department",
			"department", dto.Department,
			"role", dto.Role)
		return nil, "", internal.NewValidationError(
			fmt.Sprintf("role %s is not allowed for department %s", dto.Role, dto.Department),
			internal.ErrCodeRoleNotAllowed)
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, "", ErrEmailTaken
	}

	password, err := GeneratePassword()
	if err != nil {
		return nil, "", internal.NewInternalError("failed to generate password", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Email:        dto.Email,
		PasswordHash: string(hash),
		Department:   dto.Department,
		Role:         dto.Role,
		CreatedBy:    &actor.ID,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, "", internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created",
		"user_id", u.ID,
		"department", u.Department,
		"role", u.Role,
		"created_by", actor.ID)

	return u, password, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GeneratePassword returns a random 12-character hex password. Comfortably
// above the 8 URL-safe character policy minimum.
func GeneratePassword() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func actorRole(actor *User) Role {
	if actor == nil {
		return ""
	}
	return actor.Role
}

package auth

import (
	"log/slog"

	"github.com/abhay-gupta-199/kmrl-backend/internal"
	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	GetByEmail(email string) (*user.User, error)
	GetByID(id int64) (*user.User, error)
	UpdateRefreshToken(userID int64, token string) error
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*LoginResult, error)
	Refresh(refreshToken string) (*LoginResult, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserByID(id int64) (*user.User, error)
}

type Service struct {
	repo   Repository
	tokens TokenGeneratorAPI
	logger *slog.Logger
}

func NewService(repo Repository, tokens TokenGeneratorAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Authenticate verifies credentials and issues both tokens. The refresh token
// is persisted on the account, overwriting any prior one: a single active
// session per account.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(dto.Email)
	if err != nil || u == nil {
		s.logger.Warn("login failed: unknown email", "email", dto.Email)
		return nil, ErrUserNotFound
	}

	// bcrypt comparison is constant-time
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login failed: password mismatch", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

// Refresh rotates both tokens. The presented refresh token must match the one
// persisted on the account, so a rotated-away token is dead immediately.
func (s *Service) Refresh(refreshToken string) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, internal.NewValidationError("refresh token is required", internal.ErrCodeValidationFailed)
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(claims.UserID())
	if err != nil || u == nil {
		return nil, ErrInvalidToken
	}

	if u.RefreshToken != refreshToken {
		s.logger.Warn("refresh rejected: token does not match persisted session", "user_id", u.ID)
		return nil, ErrInvalidToken
	}

	return s.issueTokens(u)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

func (s *Service) GetUserByID(id int64) (*user.User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) issueTokens(u *user.User) (*LoginResult, error) {
	accessToken, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign refresh token", err)
	}

	if err := s.repo.UpdateRefreshToken(u.ID, refreshToken); err != nil {
		return nil, internal.NewInternalError("failed to persist refresh token", err)
	}
	u.RefreshToken = refreshToken

	s.logger.Info("session issued", "user_id", u.ID)

	return &LoginResult{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

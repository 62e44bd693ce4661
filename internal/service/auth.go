package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"horti-admin/internal/core/auth"
	"horti-admin/internal/domain"
	"horti-admin/pkg/utils"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

type AuthService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwt *auth.JWTer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, log: log}
}

// SignIn checks the credentials and issues an access token. Both failure
// modes carry USER_NOT_FOUND so clients cannot probe for accounts.
func (s *AuthService) SignIn(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	u, err := s.users.FindByEmail(ctx, email)
	if domain.IsCode(err, domain.CodeUserNotFound) {
		s.log.Debug("sign-in: unknown account", zap.String("email", email))
		return nil, domain.BadRequest(domain.CodeUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(in.Password, u.Password) {
		s.log.Debug("sign-in: wrong password", zap.Uint("user", u.ID))
		return nil, domain.Unauthorized(domain.CodeUserNotFound)
	}
	tok, err := s.jwt.Issue(*u)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return &LoginResult{ID: u.ID, Email: u.Email, AccessToken: tok}, nil
}

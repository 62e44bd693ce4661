package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"horti-admin/internal/domain"
	"horti-admin/pkg/utils"
)

type UserInput struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     domain.Role `json:"role" binding:"required,oneof=Admin User"`
}

type UserService struct {
	repo domain.UserRepository
	log  *zap.Logger
}

func NewUserService(repo domain.UserRepository, log *zap.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) build(in UserInput) (*domain.User, error) {
	if !in.Role.Valid() {
		return nil, domain.BadRequest(domain.CodeValidationFailed, "role must be Admin or User")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return &domain.User{Email: strings.ToLower(strings.TrimSpace(in.Email)), Password: hash, Role: in.Role}, nil
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	u, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Save creates the account or resets password and role of an existing one.
func (s *UserService) Save(ctx context.Context, in UserInput) (*domain.User, error) {
	u, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return s.repo.FindByEmail(ctx, u.Email)
}

func (s *UserService) List(ctx context.Context, page domain.Page) ([]domain.User, int64, error) {
	if page.Limit <= 0 || page.Limit > 100 {
		page.Limit = 20
	}
	return s.repo.List(ctx, page.Offset, page.Limit)
}

var defaultAccounts = []domain.User{
	{Email: "admin@test.com", Password: "$2a$10$cqMtJJFrc3l9.14oi2cNhegt7XNlJVJhgFC5OmkjcR7t2Dr3AMgne", Role: domain.RoleAdmin},
	{Email: "user@test.com", Password: "$2a$10$4YRjgnUw86k2/SZ5TXdHHOdSNsfRkbE7WAvmklyXS156un7ATXuFG", Role: domain.RoleUser},
	{Email: "vg_admin@test.com", Password: "$2a$10$cqMtJJFrc3l9.14oi2cNhegt7XNlJVJhgFC5OmkjcR7t2Dr3AMgne", Role: domain.RoleAdmin},
	{Email: "vg_user@test.com", Password: "$2a$10$4YRjgnUw86k2/SZ5TXdHHOdSNsfRkbE7WAvmklyXS156un7ATXuFG", Role: domain.RoleUser},
}

// Seed inserts the default accounts; existing ones are left untouched.
func (s *UserService) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, acc := range defaultAccounts {
		u := acc
		err := s.repo.Create(ctx, &u)
		if domain.IsCode(err, domain.CodeUserAlreadyExists) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
		s.log.Info("seeded account", zap.String("email", u.Email), zap.String("role", string(u.Role)))
	}
	return created, nil
}

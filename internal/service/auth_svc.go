package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/domain"
	"github.com/PragyeNawani/soloistanjali-sub000/pkg/auth"
)

type AuthSvc struct {
	users    UserStore
	tokenTTL time.Duration
}

func NewAuthSvc(users UserStore, tokenTTL time.Duration) *AuthSvc {
	return &AuthSvc{users: users, tokenTTL: tokenTTL}
}

func (s *AuthSvc) Register(ctx context.Context, email, password, name, phone string) (*domain.User, error) {
	existing, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Phone:        phone,
		Role:         domain.RoleStudent,
	}
	return u, s.users.Create(ctx, u)
}

func (s *AuthSvc) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := auth.CreateAccessToken(u.ID, string(u.Role), u.Email, u.Name, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

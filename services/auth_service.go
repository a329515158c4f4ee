package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// AuthService проверяет пароль организатора. Пользовательских аккаунтов
// нет: сервис обслуживает одного оператора турнира, пароль задаётся
// конфигурацией.
type AuthService interface {
	Login(ctx context.Context, password string) error
}

type authService struct {
	passwordHash []byte
}

func NewAuthService(organizerPassword string) (AuthService, error) {
	if organizerPassword == "" {
		return nil, errors.New("organizer password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(organizerPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash organizer password: %w", err)
	}
	return &authService{passwordHash: hash}, nil
}

func (s *authService) Login(ctx context.Context, password string) error {
	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrAuthInvalidCredentials
		}
		return fmt.Errorf("failed to compare password hash: %w", err)
	}
	return nil
}

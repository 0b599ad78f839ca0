package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"crew-match/internal/domain/account"
	"crew-match/internal/pkg/jwt"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidRefreshToken    = errors.New("invalid refresh token")
	ErrRefreshTokenExpired    = errors.New("refresh token expired")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (account.Account, string, string, error)
	Login(ctx context.Context, in LoginInput) (account.Account, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type Auth struct {
	accounts account.Repository
	jwt      jwt.Service
}

func NewAuthUsecase(accounts account.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{accounts: accounts, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in RegisterInput) (account.Account, string, string, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !isValidPassword(in.Password) {
		return account.Account{}, "", "", ErrInvalidInput
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = account.RoleCandidate
	}
	if role != account.RoleCandidate && role != account.RoleRecruiter {
		return account.Account{}, "", "", ErrInvalidInput
	}

	exists, err := u.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return account.Account{}, "", "", ErrInternal
	}
	if exists {
		return account.Account{}, "", "", ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return account.Account{}, "", "", ErrInternal
	}

	acc := account.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := u.accounts.Create(ctx, acc); err != nil {
		exists, exErr := u.accounts.ExistsByEmail(ctx, email)
		if exErr == nil && exists {
			return account.Account{}, "", "", ErrEmailAlreadyRegistered
		}
		return account.Account{}, "", "", ErrInternal
	}

	return u.issueTokens(acc)
}

func (u *Auth) Login(ctx context.Context, in LoginInput) (account.Account, string, string, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return account.Account{}, "", "", ErrInvalidCredentials
	}

	acc, err := u.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, "", "", ErrInvalidCredentials
		}
		return account.Account{}, "", "", ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.Password)) != nil {
		return account.Account{}, "", "", ErrInvalidCredentials
	}

	return u.issueTokens(acc)
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	acc, err := u.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", ErrInternal
	}

	_, access, refresh, err := u.issueTokens(acc)
	return access, refresh, err
}

func (u *Auth) issueTokens(acc account.Account) (account.Account, string, string, error) {
	access, err := u.jwt.GenerateAccessToken(acc.ID, acc.Email, acc.Role)
	if err != nil {
		return account.Account{}, "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(acc.ID)
	if err != nil {
		return account.Account{}, "", "", ErrInternal
	}
	acc.PasswordHash = ""
	return acc, access, refresh, nil
}

func normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") || len(email) < 5 {
		return ""
	}
	return email
}

func isValidPassword(pw string) bool {
	return len(pw) >= 8
}

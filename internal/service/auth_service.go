package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Marga-Ghale/softdesk-backend/internal/config"
	"github.com/Marga-Ghale/softdesk-backend/internal/repository"
)

// ============================================
// Auth Service
// ============================================

// Column widths of the users table. bcrypt rejects passwords over 72 bytes.
const (
	maxEmailLength    = 254
	maxNameLength     = 150
	maxPasswordLength = 72 // bytes
)

type AuthService interface {
	Signup(ctx context.Context, email, firstName, lastName, password, password2 string) (*repository.User, error)
	Login(ctx context.Context, email, password string) (*repository.User, string, string, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(token string) (*jwt.Token, error)
	GetUserIDFromToken(token *jwt.Token) (string, error)
}

type authService struct {
	cfg       *config.Config
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	now       func() time.Time
}

func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, tokenRepo repository.TokenRepository) AuthService {
	return &authService{cfg: cfg, userRepo: userRepo, tokenRepo: tokenRepo, now: time.Now}
}

func (s *authService) Signup(ctx context.Context, email, firstName, lastName, password, password2 string) (*repository.User, error) {
	email = strings.TrimSpace(email)
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email", "enter a valid email address")
	}
	if utf8.RuneCountInString(email) > maxEmailLength {
		return nil, invalid("email", fmt.Sprintf("must be at most %d characters", maxEmailLength))
	}
	if utf8.RuneCountInString(firstName) > maxNameLength {
		return nil, invalid("first_name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}
	if utf8.RuneCountInString(lastName) > maxNameLength {
		return nil, invalid("last_name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}
	if len(password) > maxPasswordLength {
		return nil, invalid("password", fmt.Sprintf("must be at most %d bytes", maxPasswordLength))
	}
	if password != password2 {
		return nil, invalid("password", "passwords do not match")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, invalid("email", "this email is already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &repository.User{
		Email:     email,
		Password:  string(hashedPassword),
		FirstName: firstName,
		LastName:  lastName,
	}

	// A concurrent signup with the same email loses on the unique index.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, mapStorageError(err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*repository.User, string, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", "", err
	}
	if user == nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.generateTokens(ctx, user.ID)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return user, accessToken, refreshToken, nil
}

// RefreshToken rotates a refresh token: the old one is revoked and a new pair issued.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	rt, err := s.tokenRepo.Find(ctx, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("failed to load refresh token: %w", err)
	}
	if rt == nil {
		return "", "", ErrInvalidToken
	}

	if err := s.tokenRepo.Delete(ctx, refreshToken); err != nil {
		return "", "", fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	if s.now().After(rt.ExpiresAt) {
		return "", "", ErrInvalidToken
	}

	accessToken, newRefreshToken, err := s.generateTokens(ctx, rt.UserID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return accessToken, newRefreshToken, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.Delete(ctx, refreshToken)
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return token, nil
}

func (s *authService) GetUserIDFromToken(token *jwt.Token) (string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func (s *authService) generateTokens(ctx context.Context, userID string) (string, string, error) {
	now := s.now()
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(time.Hour * time.Duration(s.cfg.JWTExpiry)).Unix(),
		"iat": now.Unix(),
	})

	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}

	rt := &repository.RefreshToken{
		Token:     uuid.New().String(),
		UserID:    userID,
		ExpiresAt: now.Add(time.Hour * 24 * time.Duration(s.cfg.RefreshExpiry)),
	}

	if err := s.tokenRepo.Save(ctx, rt); err != nil {
		return "", "", err
	}

	return accessTokenString, rt.Token, nil
}

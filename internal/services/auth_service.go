package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"todoapp/internal/models"
	"todoapp/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is how long an issued access token stays valid.
const DefaultTokenTTL = 30 * time.Minute

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService. An empty jwtSecret makes the
// service sign with a random secret generated here, so tokens do not survive a
// restart and cannot be checked by another instance.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	secret := []byte(jwtSecret)
	if len(secret) == 0 {
		log.Println("Warning: JWT_SECRET is not set, using a random per-process signing secret")
		secret = randomSecret()
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: secret,
		tokenTTL:  tokenTTL,
	}
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("failed to generate JWT secret: %v", err))
	}
	return []byte(hex.EncodeToString(buf))
}

// HashPassword returns the bcrypt hash of password.
func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func (s *AuthService) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// RegisterUser hashes the user's password and saves the user. Uniqueness is
// left to the store; a violated index comes back as ErrConflict.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	hashedPassword, err := s.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	user.IsActive = true

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("failed to register user %s: %w", user.Username, ErrConflict)
		}
		return fmt.Errorf("failed to register user: %w", err)
	}
	log.Printf("Registered user %s (ID: %d)", user.Username, user.ID)
	return nil
}

// LoginUser authenticates a user and returns a signed access token.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return "", fmt.Errorf("user %s: %w", username, ErrNotFound)
		}
		return "", err
	}

	if !s.VerifyPassword(password, user.Password) {
		return "", ErrInvalidCredential
	}

	return s.IssueToken(user.Username)
}

// IssueToken signs an HS256 token whose subject is username.
func (s *AuthService) IssueToken(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning its claims. Every
// failure wraps ErrUnauthorized.
func (s *AuthService) ValidateToken(tokenString string) (*jwt.StandardClaims, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v: %w", err, ErrUnauthorized)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject: %w", ErrUnauthorized)
	}
	if claims.ExpiresAt == 0 {
		return nil, fmt.Errorf("token has no expiry: %w", ErrUnauthorized)
	}
	return claims, nil
}

// CurrentUser resolves a bearer token to the stored user it names. Nothing is
// cached: each call validates the token and queries the store again.
func (s *AuthService) CurrentUser(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("token subject %s: %w", claims.Subject, ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns every user, or ErrNotFound when there are none.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("users: %w", ErrNotFound)
	}
	return users, nil
}

// DeleteUser removes a user together with all of its todos.
func (s *AuthService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return err
	}
	log.Printf("Deleted user %d and its todos", id)
	return nil
}

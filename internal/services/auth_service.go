package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"warbler/internal/models"
	"warbler/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// SignupRequest is the input for creating an account.
type SignupRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	ImageURL string `json:"image_url" form:"image_url" validate:"omitempty,url"`
}

// AuthService handles signup, credential checks and bearer tokens.
type AuthService struct {
	userRepo  repositories.UserRepository
	activity  *Activity
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, activity *Activity) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		activity:  activity,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Signup validates req, hashes the password and stores the new user.
// A taken username or email yields models.ErrConflict.
func (s *AuthService) Signup(req SignupRequest) (*models.User, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	if err := s.ensureFree(req.Username, req.Email, 0); err != nil {
		return nil, err
	}

	user, err := models.Signup(req.Username, req.Email, req.Password, req.ImageURL)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.activity.Emit(EventUserSignedUp, user.ID, user.ID)
	return user, nil
}

// ensureFree checks that username and email are not used by anyone except exceptID.
func (s *AuthService) ensureFree(username, email string, exceptID uint) error {
	existing, err := s.userRepo.GetByUsername(username)
	switch {
	case err == nil && existing != nil && existing.ID != exceptID:
		return fmt.Errorf("username '%s' already taken: %w", username, models.ErrConflict)
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return err
	}

	existing, err = s.userRepo.GetByEmail(email)
	switch {
	case err == nil && existing != nil && existing.ID != exceptID:
		return fmt.Errorf("email '%s' already registered: %w", email, models.ErrConflict)
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return err
	}
	return nil
}

// Authenticate returns the user whose username and password match.
// Unknown usernames and wrong passwords both yield models.ErrInvalidCredentials.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.activity.Emit(EventLoginFailed, 0, 0)
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to authenticate %s: %w", username, err)
	}

	if !user.CheckPassword(password) {
		s.activity.Emit(EventLoginFailed, 0, user.ID)
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken returns a signed bearer token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      now.Add(s.tokenTTL).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning its claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// UserIDFromToken validates tokenString and extracts the user ID claim.
func (s *AuthService) UserIDFromToken(tokenString string) (uint, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return 0, err
	}
	// JSON numbers decode as float64.
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, fmt.Errorf("invalid token: missing user_id")
	}
	return uint(id), nil
}

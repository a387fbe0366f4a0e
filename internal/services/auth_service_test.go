package services_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, models.ErrNotFound)
}

func TestAuthService_Signup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	rec := &recorder{}
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, services.NewActivity(nil, rec))

	req := services.SignupRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	// Test successful registration
	mockRepo.On("GetByUsername", req.Username).Return(nil, notFound("user")).Once()
	mockRepo.On("GetByEmail", req.Email).Return(nil, notFound("user")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = 7
	}).Return(nil).Once()

	user, err := authService.Signup(req)
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.NotEqual(t, req.Password, user.Password)
	assert.True(t, user.CheckPassword(req.Password))
	assert.Equal(t, []string{services.EventUserSignedUp}, rec.recorded())
	mockRepo.AssertExpectations(t)

	// Test username already taken
	mockRepo.On("GetByUsername", req.Username).Return(&models.User{ID: 1}, nil).Once()
	_, err = authService.Signup(req)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Contains(t, err.Error(), "username 'testuser' already taken")
	mockRepo.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByUsername", req.Username).Return(nil, notFound("user")).Once()
	mockRepo.On("GetByEmail", req.Email).Return(&models.User{ID: 1}, nil).Once()
	_, err = authService.Signup(req)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Contains(t, err.Error(), "email 'test@example.com' already registered")
	mockRepo.AssertExpectations(t)

	// Test the store rejecting a duplicate that slipped past the lookup
	mockRepo.On("GetByUsername", req.Username).Return(nil, notFound("user")).Once()
	mockRepo.On("GetByEmail", req.Email).Return(nil, notFound("user")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(fmt.Errorf("insert: %w", models.ErrConflict)).Once()
	_, err = authService.Signup(req)
	assert.ErrorIs(t, err, models.ErrConflict)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, nil)

	_, err := authService.Signup(services.SignupRequest{Username: "tttt", Email: "test@test.com"})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "Password")

	_, err = authService.Signup(services.SignupRequest{Username: "tttt", Email: "not-an-email", Password: "password"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "Email")

	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_Authenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	rec := &recorder{}
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, services.NewActivity(nil, rec))

	user, err := models.Signup("nnnn", "test@test.com", "pass", "")
	require.NoError(t, err)
	user.ID = 1

	mockRepo.On("GetByUsername", "nnnn").Return(user, nil)
	mockRepo.On("GetByUsername", "ssss").Return(nil, notFound("user"))

	got, err := authService.Authenticate("nnnn", "pass")
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.ID)

	_, wrongPassword := authService.Authenticate("nnnn", "fgdsgsdgsdg")
	_, wrongUsername := authService.Authenticate("ssss", "pass")
	assert.ErrorIs(t, wrongPassword, models.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongUsername, models.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), wrongUsername.Error(), "failures must be indistinguishable")

	assert.Equal(t, []string{services.EventLoginFailed, services.EventLoginFailed}, rec.recorded())
}

func TestAuthService_IssueAndValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, time.Hour, nil)

	token, err := authService.IssueToken(&models.User{ID: 123, Username: "testuser"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "testuser", claims["username"])

	id, err := authService.UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(123), id)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, time.Hour, nil)

	// Test invalid token
	_, err := authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test wrong secret
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	forgedString, _ := forged.SignedString([]byte("another secret"))
	_, err = authService.ValidateToken(forgedString)
	assert.ErrorContains(t, err, "invalid token")

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.UserIDFromToken(expiredTokenString)
	assert.ErrorContains(t, err, "invalid token")

	// Test missing user_id claim
	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	anonymousString, _ := anonymous.SignedString([]byte(testJWTSecret))
	_, err = authService.UserIDFromToken(anonymousString)
	assert.ErrorContains(t, err, "missing user_id")
}

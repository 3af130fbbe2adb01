package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/internal/repository"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

const tokenIssuer = "loan-tracker"

// Claims is the JWT payload issued at login.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo    repository.UserRepository
	secret      []byte
	tokenExpiry time.Duration
	validator   *validator.Validate
	logger      *logrus.Logger
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, secret string, tokenExpiry time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		secret:      []byte(secret),
		tokenExpiry: tokenExpiry,
		validator:   validator.New(),
		logger:      logger,
		now:         time.Now,
	}
}

// Login checks credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if errors.Is(err, customError.ErrUserNotFound) {
		s.logger.WithField("username", req.Username).Warn("Login for unknown user")
		return nil, customError.WrapInvalidCredentials()
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.WithField("username", req.Username).Warn("Login with wrong password")
		return nil, customError.WrapInvalidCredentials()
	}

	if !user.IsActive {
		s.logger.WithField("username", req.Username).Warn("Login for deactivated user")
		return nil, customError.WrapUnauthorized("account is deactivated")
	}

	token, expiresAt, err := s.issueToken(user)
	if err != nil {
		s.logger.WithError(err).Error("Failed to sign token")
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")
	return &domain.LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenExpiry)
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return signed, expiresAt, err
}

// ParseToken verifies a token and returns the identity it was issued to.
func (s *AuthService) ParseToken(tokenString string) (*domain.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.WithError(err).Debug("Rejected token")
		return nil, customError.WrapUnauthorized("invalid or expired token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, customError.WrapUnauthorized("invalid token subject")
	}
	return &domain.Identity{UserID: userID, Username: claims.Username}, nil
}

// Authenticate verifies a token and checks that its account still exists and
// is active, so a deactivation takes effect on the next request.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.Identity, error) {
	identity, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, identity.Username)
	if errors.Is(err, customError.ErrUserNotFound) {
		return nil, customError.WrapUnauthorized("account no longer exists")
	}
	if err != nil {
		return nil, err
	}
	if user.ID != identity.UserID {
		return nil, customError.WrapUnauthorized("account no longer exists")
	}
	if !user.IsActive {
		s.logger.WithField("username", user.Username).Warn("Request from deactivated user")
		return nil, customError.WrapUnauthorized("account is deactivated")
	}
	return identity, nil
}

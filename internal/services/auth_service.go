package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sabbirahmed/eventhub-backend/config"
	"github.com/sabbirahmed/eventhub-backend/internal/apperror"
	"github.com/sabbirahmed/eventhub-backend/internal/models"
	"github.com/sabbirahmed/eventhub-backend/internal/token"
)

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Login authenticates by email and password and issues a short-lived access
// token plus a long-lived refresh token, both carrying identity and email
// claims. Check order: unknown email, deactivated account, bad password.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.findByEmail(email)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.Forbidden("Your account has been deactivated. Please contact support.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	accessToken, err := token.Create(user.ID, user.Email, s.cfg.JWTAccessSecret, s.cfg.JWTAccessExpiresIn)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to generate token.", err)
	}
	refreshToken, err := token.Create(user.ID, user.Email, s.cfg.JWTRefreshSecret, s.cfg.JWTRefreshExpiresIn)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to generate token.", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh validates a refresh token, re-resolves the identity with the same
// active-account checks as Login, and issues a new access token only.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := token.Verify(refreshToken, s.cfg.JWTRefreshSecret)
	if err != nil {
		return "", apperror.Unauthorized("Invalid or expired refresh token")
	}

	user, err := s.findByEmail(claims.Email)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", apperror.Forbidden("Your account has been deactivated. Please contact support.")
	}

	accessToken, err := token.Create(user.ID, user.Email, s.cfg.JWTAccessSecret, s.cfg.JWTAccessExpiresIn)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, "Failed to generate token.", err)
	}
	return accessToken, nil
}

func (s *AuthService) findByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found!")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "Error retrieving user.", err)
	}
	return &user, nil
}

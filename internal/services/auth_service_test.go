package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sabbirahmed/eventhub-backend/config"
	"github.com/sabbirahmed/eventhub-backend/internal/apperror"
	"github.com/sabbirahmed/eventhub-backend/internal/token"
)

func newAuthTestConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:     "test-access-secret",
		JWTRefreshSecret:    "test-refresh-secret",
		JWTAccessExpiresIn:  time.Hour,
		JWTRefreshExpiresIn: 24 * time.Hour,
		BcryptCost:          bcrypt.MinCost,
	}
}

func registerAuthTestUser(t *testing.T, db *gorm.DB, email, password string) {
	t.Helper()

	users := NewUserService(db, bcrypt.MinCost)
	_, err := users.Register(RegisterUserInput{Name: "Auth User", Email: email, Password: password})
	require.NoError(t, err)
}

func Test_AuthService_Login(t *testing.T) {
	db := newTestDB(t)
	cfg := newAuthTestConfig()
	svc := NewAuthService(db, cfg)
	registerAuthTestUser(t, db, "login@example.com", "hunter22")

	t.Run("success_issues_both_credentials", func(t *testing.T) {
		result, err := svc.Login("login@example.com", "hunter22")
		require.NoError(t, err)
		require.NotEmpty(t, result.AccessToken)
		require.NotEmpty(t, result.RefreshToken)

		claims, err := token.Verify(result.AccessToken, cfg.JWTAccessSecret)
		require.NoError(t, err)
		assert.Equal(t, "login@example.com", claims.Email)
		assert.Equal(t, result.User.ID.String(), claims.UserID)

		// The refresh credential is signed with its own secret.
		_, err = token.Verify(result.RefreshToken, cfg.JWTAccessSecret)
		assert.Error(t, err)
		_, err = token.Verify(result.RefreshToken, cfg.JWTRefreshSecret)
		assert.NoError(t, err)
	})

	t.Run("unknown_email_is_not_found", func(t *testing.T) {
		_, err := svc.Login("ghost@example.com", "whatever")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("wrong_password_is_unauthorized", func(t *testing.T) {
		_, err := svc.Login("login@example.com", "hunter23")
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})

	t.Run("deactivated_account_is_forbidden", func(t *testing.T) {
		registerAuthTestUser(t, db, "inactive@example.com", "hunter22")
		require.NoError(t, db.Table("users").Where("email = ?", "inactive@example.com").
			Update("is_active", false).Error)

		_, err := svc.Login("inactive@example.com", "hunter22")
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})
}

func Test_AuthService_Refresh(t *testing.T) {
	db := newTestDB(t)
	cfg := newAuthTestConfig()
	svc := NewAuthService(db, cfg)
	registerAuthTestUser(t, db, "refresh@example.com", "hunter22")

	result, err := svc.Login("refresh@example.com", "hunter22")
	require.NoError(t, err)

	t.Run("valid_refresh_token_mints_new_access_token", func(t *testing.T) {
		accessToken, err := svc.Refresh(result.RefreshToken)
		require.NoError(t, err)

		claims, err := token.Verify(accessToken, cfg.JWTAccessSecret)
		require.NoError(t, err)
		assert.Equal(t, "refresh@example.com", claims.Email)
	})

	t.Run("access_token_is_not_a_refresh_token", func(t *testing.T) {
		_, err := svc.Refresh(result.AccessToken)
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})

	t.Run("garbage_token_is_unauthorized", func(t *testing.T) {
		_, err := svc.Refresh("definitely.not.ajwt")
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})

	t.Run("deactivated_account_is_forbidden", func(t *testing.T) {
		require.NoError(t, db.Table("users").Where("email = ?", "refresh@example.com").
			Update("is_active", false).Error)

		_, err := svc.Refresh(result.RefreshToken)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})
}

package repos

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/restbridge/restbridge/internal/auth"
	"github.com/restbridge/restbridge/internal/db/models"
	"github.com/restbridge/restbridge/internal/types"
)

// UserRepository resolves user identities for the auth dispatcher. Every
// lookup failure that must stay opaque (unknown login, wrong password,
// inactive account) surfaces as the same auth error.
type UserRepository struct {
	db *gorm.DB
}

var _ auth.Identity = (*UserRepository)(nil)

// NewUserRepository creates a user repository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// VerifyCredentials checks a login/password pair against the stored
// bcrypt hash.
func (r *UserRepository) VerifyCredentials(ctx context.Context, username, password string) (auth.Subject, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("login = ? AND active", username).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Same failure as a wrong password: the caller must not learn
		// whether the login exists.
		return auth.Subject{}, types.NewAuth(auth.ErrMsgAccessDenied)
	}
	if err != nil {
		return auth.Subject{}, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return auth.Subject{}, types.NewAuth(auth.ErrMsgAccessDenied)
	}
	return subjectOf(user), nil
}

// BySubject resolves the user behind a previously issued token.
func (r *UserRepository) BySubject(ctx context.Context, userID int64) (auth.Subject, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND active", userID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return auth.Subject{}, types.NewAuth(auth.ErrMsgInvalidToken)
	}
	if err != nil {
		return auth.Subject{}, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return subjectOf(user), nil
}

// ByOAuth resolves the user bound to an external identity.
func (r *UserRepository) ByOAuth(ctx context.Context, providerID int64, externalUID string) (auth.Subject, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("oauth_provider_id = ? AND oauth_uid = ? AND active", providerID, externalUID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return auth.Subject{}, types.NewAuth(auth.ErrMsgInvalidToken)
	}
	if err != nil {
		return auth.Subject{}, fmt.Errorf("failed to load oauth user: %w", err)
	}
	return subjectOf(user), nil
}

// StoreOAuthToken persists the provider access token on the user record.
func (r *UserRepository) StoreOAuthToken(ctx context.Context, userID int64, accessToken string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("oauth_access_token", accessToken).Error
	if err != nil {
		return fmt.Errorf("failed to store oauth token for user %d: %w", userID, err)
	}
	return nil
}

// EnsureUser creates the user if the login is free, hashing the password
// with bcrypt. Used to bootstrap an initial account.
func (r *UserRepository) EnsureUser(ctx context.Context, login, displayName, password string) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("login = ?", login).Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check login %q: %w", login, err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := models.User{
		Login:        login,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create user %q: %w", login, err)
	}
	return nil
}

func subjectOf(user models.User) auth.Subject {
	return auth.Subject{ID: int64(user.ID), Name: user.DisplayName}
}

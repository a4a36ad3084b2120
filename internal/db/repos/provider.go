package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/restbridge/restbridge/internal/auth"
	"github.com/restbridge/restbridge/internal/db/models"
	"github.com/restbridge/restbridge/internal/types"
)

// ProviderRepository resolves configured OAuth identity providers.
type ProviderRepository struct {
	db *gorm.DB
}

// NewProviderRepository creates a provider repository.
func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// ValidationURL returns the token validation endpoint of an enabled
// provider. Unknown or disabled providers are an auth failure, not a
// lookup fault.
func (r *ProviderRepository) ValidationURL(ctx context.Context, providerID int64) (string, error) {
	var provider models.OAuthProvider
	err := r.db.WithContext(ctx).
		Where("id = ? AND enabled", providerID).
		First(&provider).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", types.NewAuth(auth.ErrMsgInvalidProvider)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load provider %d: %w", providerID, err)
	}
	return provider.ValidationURL, nil
}

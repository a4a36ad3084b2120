package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/restbridge/restbridge/internal/auth"
	"github.com/restbridge/restbridge/internal/db/models"
	"github.com/restbridge/restbridge/internal/store"
	"github.com/restbridge/restbridge/internal/types"
)

// ErrMsgModelAccess is the 403 message for a denied operation.
const ErrMsgModelAccess = "You are not allowed to access the model '%s' and/or one or more of its relationships"

// AccessRepository evaluates per-user, per-model access rules. A model
// with no rules at all is open to any authenticated principal.
type AccessRepository struct {
	db *gorm.DB
}

var _ store.AccessChecker = (*AccessRepository)(nil)

// NewAccessRepository creates an access repository.
func NewAccessRepository(db *gorm.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

// Check reports whether the principal may run op on the model.
func (r *AccessRepository) Check(ctx context.Context, principal auth.Principal, model string, op store.Op) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ModelAccess{}).
		Where("model_name = ?", model).Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to count access rules for %q: %w", model, err)
	}
	if count == 0 {
		return nil
	}

	var rule models.ModelAccess
	err = r.db.WithContext(ctx).
		Where("model_name = ? AND user_id = ?", model, principal.UserID).
		First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NewPermission(ErrMsgModelAccess, model)
	}
	if err != nil {
		return fmt.Errorf("failed to load access rule for %q: %w", model, err)
	}

	if !permitted(rule, op) {
		return types.NewPermission(ErrMsgModelAccess, model)
	}
	return nil
}

func permitted(rule models.ModelAccess, op store.Op) bool {
	switch op {
	case store.OpBrowse:
		return rule.PermBrowse
	case store.OpRead:
		return rule.PermRead
	case store.OpAdd:
		return rule.PermAdd
	case store.OpEdit:
		return rule.PermEdit
	case store.OpDelete:
		return rule.PermDelete
	}
	return false
}

// Package repos implements the store collaborator interfaces on GORM.
package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/restbridge/restbridge/internal/db/models"
	"github.com/restbridge/restbridge/internal/types"
)

// RegistryRepository serves schema introspection from the registry
// tables.
type RegistryRepository struct {
	db *gorm.DB
}

// NewRegistryRepository creates a registry repository.
func NewRegistryRepository(db *gorm.DB) *RegistryRepository {
	return &RegistryRepository{db: db}
}

// ModelExists reports whether the named model is registered.
func (r *RegistryRepository) ModelExists(ctx context.Context, model string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RegistryModel{}).
		Where("name = ?", model).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up model %q: %w", model, err)
	}
	return count > 0, nil
}

// Fields returns the model's field descriptors in declaration order.
func (r *RegistryRepository) Fields(ctx context.Context, model string) ([]types.FieldDescriptor, error) {
	entry, err := r.entry(ctx, model)
	if err != nil {
		return nil, err
	}

	var rows []models.RegistryField
	err = r.db.WithContext(ctx).
		Where("model_id = ?", entry.ID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load fields of model %q: %w", model, err)
	}

	descriptors := make([]types.FieldDescriptor, 0, len(rows))
	for _, row := range rows {
		descriptors = append(descriptors, row.Descriptor())
	}
	return descriptors, nil
}

// TableFor resolves the physical table backing a model.
func (r *RegistryRepository) TableFor(ctx context.Context, model string) (string, error) {
	entry, err := r.entry(ctx, model)
	if err != nil {
		return "", err
	}
	return entry.Table, nil
}

func (r *RegistryRepository) entry(ctx context.Context, model string) (*models.RegistryModel, error) {
	var entry models.RegistryModel
	err := r.db.WithContext(ctx).Where("name = ?", model).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewNotFound("Model '%s' not found", model)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model %q: %w", model, err)
	}
	return &entry, nil
}

// Package models defines the persistence models of the reference store:
// the schema registry, access rules, users and OAuth providers.
package models

import (
	"gorm.io/gorm"

	"github.com/restbridge/restbridge/internal/types"
)

// UserModelName is the registry name of the built-in user model.
const UserModelName = "res.users"

// RegistryModel is one registered model: a public name mapped to the
// physical table holding its records.
type RegistryModel struct {
	gorm.Model
	Name   string          `json:"name" gorm:"not null;uniqueIndex"`
	Table  string          `json:"table" gorm:"column:table_name;not null"`
	Fields []RegistryField `json:"fields" gorm:"foreignKey:ModelID"`
}

// RegistryField describes one field of a registered model. The row order
// (primary key order) is the model's declaration order.
type RegistryField struct {
	gorm.Model
	ModelID  uint   `json:"model_id" gorm:"index;not null"`
	Name     string `json:"name" gorm:"not null"`
	Label    string `json:"label"`
	Type     string `json:"type" gorm:"not null"`
	Required bool   `json:"required"`
	Relation string `json:"relation"`
}

// Descriptor converts the row into the registry's wire-level descriptor.
func (f RegistryField) Descriptor() types.FieldDescriptor {
	return types.FieldDescriptor{
		Name:     f.Name,
		Label:    f.Label,
		Type:     types.FieldType(f.Type),
		Required: f.Required,
		Relation: f.Relation,
	}
}

// ModelAccess is one access rule. A model without any rules is open to
// every authenticated principal; once rules exist, a principal needs a
// rule granting the operation.
type ModelAccess struct {
	gorm.Model
	UserID     uint   `json:"user_id" gorm:"index;not null"`
	ModelName  string `json:"model_name" gorm:"index;not null"`
	PermBrowse bool   `json:"perm_browse"`
	PermRead   bool   `json:"perm_read"`
	PermAdd    bool   `json:"perm_add"`
	PermEdit   bool   `json:"perm_edit"`
	PermDelete bool   `json:"perm_delete"`
}

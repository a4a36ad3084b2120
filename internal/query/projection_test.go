package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restbridge/restbridge/internal/types"
)

var userFields = []types.FieldDescriptor{
	{Name: "id", Type: types.FieldInteger},
	{Name: "display_name", Type: types.FieldChar},
	{Name: "login", Type: types.FieldChar},
	{Name: "active", Type: types.FieldBoolean},
}

func TestProject(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		defaults  []string
		expect    []string
		expectErr string
	}{
		{
			name:     "absent_returns_defaults",
			defaults: DefaultBrowseFields,
			expect:   []string{"id", "display_name"},
		},
		{
			name:   "absent_with_nil_defaults_returns_all",
			expect: []string{"id", "display_name", "login", "active"},
		},
		{
			name:      "explicit_list_preserves_order",
			requested: "login,id",
			defaults:  DefaultBrowseFields,
			expect:    []string{"login", "id"},
		},
		{
			name:      "duplicates_collapse",
			requested: "id,id,login",
			defaults:  DefaultBrowseFields,
			expect:    []string{"id", "login"},
		},
		{
			name:      "spaces_tolerated",
			requested: " id , login ",
			defaults:  DefaultBrowseFields,
			expect:    []string{"id", "login"},
		},
		{
			name:      "unknown_field_rejected",
			requested: "id,password",
			defaults:  DefaultBrowseFields,
			expectErr: "Invalid field 'password' in model 'res.users'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Project("res.users", tt.requested, tt.defaults, userFields)
			if tt.expectErr != "" {
				require.Error(t, err)
				assert.True(t, types.IsValidation(err))
				assert.Equal(t, tt.expectErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}

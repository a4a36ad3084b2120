package query

import (
	"strings"

	"github.com/restbridge/restbridge/internal/types"
)

// DefaultBrowseFields is the projection applied when _fields is omitted
// on a browse request.
var DefaultBrowseFields = []string{"id", "display_name"}

// Project resolves the requested comma-separated field list against the
// model's fields. An empty request returns defaults unchanged; a nil
// defaults means "all fields", in declaration order. Requested order is
// preserved so response shaping stays stable.
func Project(model, requested string, defaults []string, fields []types.FieldDescriptor) ([]string, error) {
	if requested == "" {
		if defaults != nil {
			return defaults, nil
		}
		all := make([]string, 0, len(fields))
		for _, f := range fields {
			all = append(all, f.Name)
		}
		return all, nil
	}

	known := types.FieldMap(fields)
	var projected []string
	seen := make(map[string]bool)
	for _, name := range strings.Split(requested, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := known[name]; !ok {
			return nil, types.NewValidation("Invalid field '%s' in model '%s'", name, model)
		}
		if !seen[name] {
			projected = append(projected, name)
			seen[name] = true
		}
	}
	if len(projected) == 0 {
		if defaults != nil {
			return defaults, nil
		}
		return nil, types.NewValidation("Invalid field '%s' in model '%s'", requested, model)
	}
	return projected, nil
}

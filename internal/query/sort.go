package query

import (
	"strings"

	"github.com/restbridge/restbridge/internal/types"
)

// DefaultOrder is the sort applied when _order is omitted.
const DefaultOrder = "id desc"

// Sort directions.
const (
	Ascending  = "asc"
	Descending = "desc"
)

// ParseOrder validates a comma-separated `"field direction"` sort string
// against the model's fields and returns its normalized form (trimmed,
// lower-cased directions, comma-joined). The normalized string is echoed
// to clients and handed to the store verbatim.
func ParseOrder(model, raw string, fields map[string]types.FieldDescriptor) (string, error) {
	if raw == "" {
		raw = DefaultOrder
	}

	var normalized []string
	for _, part := range strings.Split(raw, ",") {
		tokens := strings.Fields(part)
		if len(tokens) != 2 {
			return "", types.NewValidation(
				"Missing order rule for '%s'. Please specify whether it's '%s' or '%s'",
				strings.TrimSpace(part), Descending, Ascending)
		}

		field := tokens[0]
		if _, ok := fields[field]; !ok {
			return "", types.NewValidation("Invalid field '%s' in model '%s'", field, model)
		}

		direction := strings.ToLower(tokens[1])
		if direction != Ascending && direction != Descending {
			return "", types.NewValidation(
				"Invalid order direction '%s' for the field '%s'", tokens[1], field)
		}

		normalized = append(normalized, field+" "+direction)
	}
	return strings.Join(normalized, ","), nil
}

package query

import (
	"net/url"
	"strings"

	"github.com/restbridge/restbridge/internal/types"
)

// Assemble parses every non-reserved key of rawQuery into a condition and
// returns their conjunction. Keys are walked in the order they appear in
// the raw query string so the resulting plan is deterministic.
//
// fields must hold every field of the model, keyed by name; a filter key
// resolving to an unknown field is a validation error.
func Assemble(model, rawQuery string, fields map[string]types.FieldDescriptor) (FilterSet, error) {
	var filter FilterSet
	for _, pair := range splitQuery(rawQuery) {
		key, value, err := decodePair(pair)
		if err != nil {
			return nil, types.NewValidation("Invalid query parameter '%s'", pair)
		}
		if IsReservedKey(key) || key == "" {
			continue
		}

		field, op := ParseKey(key)
		desc, ok := fields[field]
		if !ok {
			return nil, types.NewValidation("Invalid field '%s' in model '%s'", field, model)
		}
		cond, err := BuildCondition(desc, op, value)
		if err != nil {
			return nil, err
		}
		filter = append(filter, cond)
	}
	return filter, nil
}

func splitQuery(rawQuery string) []string {
	if rawQuery == "" {
		return nil
	}
	return strings.Split(rawQuery, "&")
}

func decodePair(pair string) (key, value string, err error) {
	key = pair
	if i := strings.IndexByte(pair, '='); i >= 0 {
		key, value = pair[:i], pair[i+1:]
	}
	if key, err = url.QueryUnescape(key); err != nil {
		return "", "", err
	}
	if value, err = url.QueryUnescape(value); err != nil {
		return "", "", err
	}
	return key, value, nil
}

package query

import (
	"strconv"
	"strings"

	"github.com/restbridge/restbridge/internal/types"
)

// Condition is one typed `(field, operator, value)` constraint. Value is
// a scalar for comparison operators and a non-empty []interface{} for
// OpIn/OpNotIn.
type Condition struct {
	Field    string
	Operator Operator
	Value    interface{}
}

// FilterSet is the conjunction of all conditions of one request, in
// first-seen query-parameter order. The order does not affect the result
// set but keeps query plans and logs reproducible.
type FilterSet []Condition

// typeRule describes which operators a field type accepts and how raw
// query values are coerced for it.
type typeRule struct {
	operators map[Operator]bool
	coerce    func(raw string) (interface{}, error)
}

var (
	comparisonOps = opSet(OpEqual, OpNotEqual, OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpIn, OpNotIn)
	textOps       = opSet(OpEqual, OpNotEqual, OpIn, OpNotIn, OpLike, OpNotLike)
	rangeOps      = opSet(OpEqual, OpNotEqual, OpGreater, OpLess, OpGreaterEqual, OpLessEqual)
	membershipOps = opSet(OpIn, OpNotIn)
	equalityOnly  = opSet(OpEqual)
)

// typeRules is the operator/value compatibility matrix, keyed by field
// type. Types absent from the matrix do not support filtering at all.
var typeRules = map[types.FieldType]typeRule{
	types.FieldInteger:           {comparisonOps, coerceInt},
	types.FieldMany2One:          {comparisonOps, coerceInt},
	types.FieldMany2OneReference: {comparisonOps, coerceInt},
	types.FieldFloat:             {comparisonOps, coerceFloat},
	types.FieldMonetary:          {comparisonOps, coerceFloat},
	types.FieldOne2Many:          {membershipOps, coerceInt},
	types.FieldMany2Many:         {membershipOps, coerceInt},
	types.FieldChar:              {textOps, coerceString},
	types.FieldSelection:         {textOps, coerceString},
	types.FieldText:              {textOps, coerceString},
	types.FieldDate:              {rangeOps, coerceString},
	types.FieldDatetime:          {rangeOps, coerceString},
	types.FieldBoolean:           {equalityOnly, coerceBool},
}

// BuildCondition validates operator/value compatibility for the field's
// type and returns the typed condition. The raw value of OpIn/OpNotIn is
// comma-split with no escaping support; a list that is empty after the
// split is rejected.
func BuildCondition(desc types.FieldDescriptor, op Operator, raw string) (Condition, error) {
	rule, ok := typeRules[desc.Type]
	if !ok {
		return Condition{}, types.NewValidation(
			"The field %s (%s) is of type %s which does not support filtering",
			label(desc), desc.Name, desc.Type)
	}
	if !rule.operators[op] {
		return Condition{}, types.NewValidation(
			"The field %s (%s) is of type %s which does not support the operator '%s'",
			label(desc), desc.Name, desc.Type, op)
	}

	if op == OpIn || op == OpNotIn {
		values, err := coerceList(desc, op, rule.coerce, raw)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Field: desc.Name, Operator: op, Value: values}, nil
	}

	value, err := rule.coerce(raw)
	if err != nil {
		return Condition{}, types.NewValidation(
			"Invalid value '%s' for the field %s (%s) of type %s",
			raw, label(desc), desc.Name, desc.Type)
	}
	return Condition{Field: desc.Name, Operator: op, Value: value}, nil
}

func coerceList(desc types.FieldDescriptor, op Operator, coerce func(string) (interface{}, error), raw string) ([]interface{}, error) {
	parts := strings.Split(raw, ",")
	values := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := coerce(p)
		if err != nil {
			return nil, types.NewValidation(
				"Invalid value '%s' for the field %s (%s) of type %s",
				p, label(desc), desc.Name, desc.Type)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, types.NewValidation(
			"The operator '%s' requires at least one value for the field %s (%s)",
			op, label(desc), desc.Name)
	}
	return values, nil
}

func label(desc types.FieldDescriptor) string {
	if desc.Label != "" {
		return desc.Label
	}
	return desc.Name
}

func coerceInt(raw string) (interface{}, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func coerceFloat(raw string) (interface{}, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func coerceString(raw string) (interface{}, error) { return raw, nil }

// coerceBool never fails: any value outside the truthy set is false.
func coerceBool(raw string) (interface{}, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "yes", "true", "on", "1", "ok":
		return true, nil
	}
	return false, nil
}

func opSet(ops ...Operator) map[Operator]bool {
	s := make(map[Operator]bool, len(ops))
	for _, op := range ops {
		s[op] = true
	}
	return s
}

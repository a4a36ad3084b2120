// Package query translates browse query strings into typed filter
// expressions plus pagination, sort and projection directives.
package query

import "strings"

// Operator is a comparison operator of a filter condition. Values match
// the query-key suffixes that select them.
type Operator string

// Supported operators.
const (
	OpEqual        Operator = "eq"
	OpNotEqual     Operator = "ne"
	OpIn           Operator = "in"
	OpNotIn        Operator = "nin"
	OpGreater      Operator = "gt"
	OpGreaterEqual Operator = "gte"
	OpLess         Operator = "lt"
	OpLessEqual    Operator = "lte"
	OpLike         Operator = "like"
	OpNotLike      Operator = "nlike"
)

// Reserved query keys consumed before filter parsing begins. They never
// reach ParseKey.
const (
	KeyPage   = "_page"
	KeySize   = "_size"
	KeyOrder  = "_order"
	KeyFields = "_fields"
)

// IsReservedKey reports whether key is one of the pagination/sort/
// projection directives.
func IsReservedKey(key string) bool {
	switch key {
	case KeyPage, KeySize, KeyOrder, KeyFields:
		return true
	}
	return false
}

// opSuffixes is ordered longest suffix first so `_nlike` is never read as
// `_like` and `_gte` never as a field ending in `e` with `_gt`.
var opSuffixes = []struct {
	suffix string
	op     Operator
}{
	{"_nlike", OpNotLike},
	{"_like", OpLike},
	{"_gte", OpGreaterEqual},
	{"_lte", OpLessEqual},
	{"_nin", OpNotIn},
	{"_gt", OpGreater},
	{"_lt", OpLess},
	{"_ne", OpNotEqual},
	{"_in", OpIn},
}

// ParseKey splits a query key into its field name and operator. A key
// without a recognized suffix is an equality test on the key verbatim.
//
// The grammar is ambiguous on purpose: a field literally named
// `discount_in` cannot be told apart from field `discount` with the `_in`
// operator, and the suffix reading always wins. Resolving this via schema
// lookahead would change observable behavior, so it is left as is.
func ParseKey(key string) (string, Operator) {
	for _, s := range opSuffixes {
		if strings.HasSuffix(key, s.suffix) && len(key) > len(s.suffix) {
			return strings.TrimSuffix(key, s.suffix), s.op
		}
	}
	return key, OpEqual
}

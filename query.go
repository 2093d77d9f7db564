package bright

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Filter constrains fields to exact values. Entries whose value is nil are
// skipped; zero values (0, false, "") are real constraints and are emitted.
type Filter map[string]FilterValue

// FilterValue is a single equality constraint, optionally boosted.
// Build values with Eq or Boosted rather than constructing the struct
// directly, so the boost flag is tracked correctly.
type FilterValue struct {
	Value any
	Boost float64

	boosted bool
}

// Eq builds an equality constraint on a field
func Eq(value any) FilterValue {
	return FilterValue{Value: value}
}

// Boosted builds an equality constraint whose relevance is weighted by boost
func Boosted(value any, boost float64) FilterValue {
	return FilterValue{Value: value, Boost: boost, boosted: true}
}

// Bounds describes comparison constraints on one field. A nil bound is
// absent; all set bounds are conjoined. Only meaningful for ordered
// (numeric or temporal) fields.
type Bounds struct {
	GT  any
	GTE any
	LT  any
	LTE any
}

// Range constrains fields to comparison bounds
type Range map[string]Bounds

// SortOrder is the direction of one sort field
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortField names one field to sort by. A bare field name sorts ascending;
// a "-" prefix on the field name and Order set to SortDesc are equivalent.
type SortField struct {
	Field string
	Order SortOrder
}

// Asc sorts a field in ascending order
func Asc(field string) SortField {
	return SortField{Field: field}
}

// Desc sorts a field in descending order
func Desc(field string) SortField {
	return SortField{Field: field, Order: SortDesc}
}

// compileQuery builds the textual query understood by the server: the free
// text first, then one clause per filter entry (field:value or
// field:value^boost), then the range clauses in gt, gte, lt, lte order.
// Clauses are space-separated; field order is sorted so the same inputs
// always produce the same query. Values are interpolated as-is: a value
// containing ':', '^', or whitespace is passed through to the server's
// parser unescaped.
func compileQuery(q string, filter Filter, rng Range) string {
	clauses := make([]string, 0, 1+len(filter)+len(rng))

	if q != "" {
		clauses = append(clauses, q)
	}

	for _, field := range sortedKeys(filter) {
		fv := filter[field]
		if fv.Value == nil {
			continue
		}
		clause := field + ":" + formatScalar(fv.Value)
		if fv.boosted {
			clause += "^" + formatScalar(fv.Boost)
		}
		clauses = append(clauses, clause)
	}

	for _, field := range sortedKeys(rng) {
		b := rng[field]
		if b.GT != nil {
			clauses = append(clauses, field+":>"+formatScalar(b.GT))
		}
		if b.GTE != nil {
			clauses = append(clauses, field+":>="+formatScalar(b.GTE))
		}
		if b.LT != nil {
			clauses = append(clauses, field+":<"+formatScalar(b.LT))
		}
		if b.LTE != nil {
			clauses = append(clauses, field+":<="+formatScalar(b.LTE))
		}
	}

	return strings.Join(clauses, " ")
}

// sortTokens serializes sort fields for the sort[] query parameter.
// Descending fields get a "-" prefix; blank entries are dropped.
func sortTokens(fields []SortField) []string {
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		name := strings.TrimSpace(f.Field)
		if name == "" {
			continue
		}
		desc := f.Order == SortDesc
		if strings.HasPrefix(name, "-") {
			name = strings.TrimPrefix(name, "-")
			desc = true
		}
		if desc {
			tokens = append(tokens, "-"+name)
		} else {
			tokens = append(tokens, name)
		}
	}
	return tokens
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

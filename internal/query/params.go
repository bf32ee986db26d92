package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Comparison operators accepted as bracket suffixes on filter keys,
// e.g. tuition[gte]=1000. A bare key filters on equality.
const (
	OpEq  = "eq"
	OpGt  = "gt"
	OpGte = "gte"
	OpLt  = "lt"
	OpLte = "lte"
	OpIn  = "in"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// Reserved query keys that shape the result set instead of filtering it.
var reservedKeys = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// Filter is a single field comparison. Values holds one element except
// for the "in" operator, where it holds the comma-separated set.
type Filter struct {
	Field  string
	Op     string
	Values []string
}

// Sort orders by a field, descending when the request prefixed it with "-".
type Sort struct {
	Field string
	Desc  bool
}

// Params is the parsed form of a listing request's query string.
type Params struct {
	Filters []Filter
	Sorts   []Sort
	Select  []string
	Page    int
	Limit   int
}

// Offset returns the row offset implied by Page and Limit.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Parse converts raw query parameters into Params. Reserved keys are
// excluded from the filter set; filters with an unknown operator are
// dropped rather than treated as equality on a garbled field name.
func Parse(values url.Values) Params {
	p := Params{Page: 1, Limit: DefaultLimit}

	for key := range values {
		field, op, ok := splitFilterKey(key)
		if !ok || reservedKeys[field] {
			continue
		}

		raw := values.Get(key)
		if raw == "" {
			continue
		}

		f := Filter{Field: field, Op: op, Values: []string{raw}}
		if op == OpIn {
			f.Values = splitList(raw)
			if len(f.Values) == 0 {
				continue
			}
		}
		p.Filters = append(p.Filters, f)
	}

	for _, field := range splitList(values.Get("sort")) {
		s := Sort{Field: field}
		if strings.HasPrefix(field, "-") {
			s = Sort{Field: field[1:], Desc: true}
		}
		if s.Field != "" {
			p.Sorts = append(p.Sorts, s)
		}
	}

	p.Select = splitList(values.Get("select"))

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		p.Limit = limit
		if p.Limit > MaxLimit {
			p.Limit = MaxLimit
		}
	}

	return p
}

// splitFilterKey parses "field" or "field[op]". ok is false for unknown
// operators or malformed brackets.
func splitFilterKey(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, true
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", false
	}

	field = key[:open]
	op = key[open+1 : len(key)-1]
	switch op {
	case OpGt, OpGte, OpLt, OpLte, OpIn:
		return field, op, true
	}
	return "", "", false
}

// splitList splits a comma-separated value, dropping empty elements.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

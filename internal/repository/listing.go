package repository

import (
	"fmt"
	"strings"

	"github.com/campdir/campdir-api/internal/query"
)

// whereClause translates parsed filters into a SQL WHERE fragment using a
// field→column whitelist. Filters on fields outside the whitelist are
// ignored; they never reach the query. Returns an empty string when no
// filter survives.
func whereClause(columns map[string]string, filters []query.Filter, extra []string, extraArgs []any) (string, []any) {
	conds := append([]string(nil), extra...)
	args := append([]any(nil), extraArgs...)

	for _, f := range filters {
		col, ok := columns[f.Field]
		if !ok {
			continue
		}

		switch f.Op {
		case query.OpEq:
			conds = append(conds, col+" = ?")
			args = append(args, coerceValue(f.Values[0]))
		case query.OpGt:
			conds = append(conds, col+" > ?")
			args = append(args, coerceValue(f.Values[0]))
		case query.OpGte:
			conds = append(conds, col+" >= ?")
			args = append(args, coerceValue(f.Values[0]))
		case query.OpLt:
			conds = append(conds, col+" < ?")
			args = append(args, coerceValue(f.Values[0]))
		case query.OpLte:
			conds = append(conds, col+" <= ?")
			args = append(args, coerceValue(f.Values[0]))
		case query.OpIn:
			placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.Values)), ",")
			conds = append(conds, fmt.Sprintf("%s IN (%s)", col, placeholders))
			for _, v := range f.Values {
				args = append(args, coerceValue(v))
			}
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause translates parsed sorts into ORDER BY, falling back to
// creation order when no whitelisted sort field is present.
func orderClause(columns map[string]string, sorts []query.Sort, fallback string) string {
	var parts []string
	for _, s := range sorts {
		col, ok := columns[s.Field]
		if !ok {
			continue
		}
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		parts = append(parts, col+dir)
	}
	if len(parts) == 0 {
		return " ORDER BY " + fallback
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// coerceValue maps the textual booleans clients send at MySQL's TINYINT
// columns. Numeric strings pass through untouched; the driver and server
// coerce those.
func coerceValue(v string) any {
	switch strings.ToLower(v) {
	case "true":
		return 1
	case "false":
		return 0
	}
	return v
}

package query

import "encoding/json"

// Project reduces an already-shaped response value to the requested
// fields. Rows are scanned and shaped in full; projection is applied
// here, at the edge, by round-tripping through JSON so the result keeps
// the response's wire field names. The id field always survives so
// clients can follow up on projected rows. Unknown field names select
// nothing and are simply absent from the output.
//
// With no fields requested the value passes through untouched.
func Project(v any, fields []string) any {
	if len(fields) == 0 {
		return v
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return v
	}

	keep := map[string]struct{}{"id": {}}
	for _, f := range fields {
		keep[f] = struct{}{}
	}
	return projectValue(decoded, keep)
}

func projectValue(v any, keep map[string]struct{}) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(keep))
		for k, field := range val {
			if _, ok := keep[k]; ok {
				out[k] = field
			}
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = projectValue(elem, keep)
		}
		return out
	default:
		return v
	}
}

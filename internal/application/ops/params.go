// Package ops declares every dispatchable operation: its input shape and
// the handler binding validated params to a service call. Registration is
// static; the dispatcher's startup check verifies the authority matrix
// covers everything registered here.
package ops

// Params come out of the schema validator, so accessors assume declared
// types and only normalize representation (float64 vs int, []any vs
// []string).

func getString(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func getBool(params map[string]any, key string) bool {
	b, _ := params[key].(bool)
	return b
}

func getInt(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func getMap(params map[string]any, key string) map[string]any {
	m, _ := params[key].(map[string]any)
	return m
}

func getStringList(params map[string]any, key string) []string {
	switch v := params[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func getStringMap(params map[string]any, key string) map[string]string {
	raw, ok := params[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// Package audit records every dispatch attempt: who, what, sanitized
// parameters, outcome, and latency.
package audit

import (
	"fmt"
	"strings"
)

// Redacted replaces values whose keys look sensitive.
const Redacted = "[REDACTED]"

// sensitiveWords are matched as case-insensitive substrings of the key.
var sensitiveWords = []string{
	"password", "token", "secret", "api_key", "private_key", "credentials",
}

func sensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, w := range sensitiveWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Sanitize returns a copy of params safe for logging: sensitive keys are
// redacted at every depth, lists are summarized rather than dumped, and
// unknown scalar types render as their type name. Sanitizing an already
// sanitized map is a no-op.
func Sanitize(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for key, value := range params {
		if sensitiveKey(key) {
			out[key] = Redacted
			continue
		}
		out[key] = sanitizeValue(value)
	}
	return out
}

func sanitizeValue(value any) any {
	switch v := value.(type) {
	case nil, string, bool, int, int32, int64, float32, float64:
		return v
	case map[string]any:
		return Sanitize(v)
	case []any:
		return fmt.Sprintf("<list: %d items>", len(v))
	case []string:
		return fmt.Sprintf("<list: %d items>", len(v))
	default:
		return fmt.Sprintf("<%T>", value)
	}
}

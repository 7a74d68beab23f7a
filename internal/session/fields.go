package session

import "strings"

// resolveField implements the single fallback chain used for every visitor
// field: an externally supplied identity value wins, then the metadata keys
// are tried left to right (primary key first, then its aliases), then the
// default. Keeping this in one place stops the per-endpoint copy-paste
// variants the dashboards accumulated.
func resolveField(identityValue string, meta map[string]any, fallback string, keys ...string) string {
	if trimmed := strings.TrimSpace(identityValue); trimmed != "" {
		return trimmed
	}
	for _, key := range keys {
		if value, ok := meta[key]; ok {
			if text, ok := value.(string); ok {
				if trimmed := strings.TrimSpace(text); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return fallback
}

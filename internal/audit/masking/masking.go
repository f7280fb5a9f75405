package masking

import "strings"

const maskToken = "****"

// sensitiveKeys lists metadata keys whose values never appear in full in
// an audit entry.
var sensitiveKeys = map[string]struct{}{
	"password": {},
	"token":    {},
	"secret":   {},
	"phone":    {},
	"email":    {},
}

// MaskSecret redacts a value while keeping a short suffix so operators
// can still correlate entries.
func MaskSecret(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 4 {
		return maskToken
	}
	return maskToken + trimmed[len(trimmed)-4:]
}

// MaskMetadata returns a copy of the metadata with sensitive keys
// redacted. Nested maps are walked; other values pass through unchanged.
func MaskMetadata(input map[string]any) map[string]any {
	if len(input) == 0 {
		return nil
	}

	masked := make(map[string]any, len(input))
	for key, value := range input {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			continue
		}
		masked[trimmedKey] = maskValue(trimmedKey, value)
	}

	if len(masked) == 0 {
		return nil
	}
	return masked
}

func maskValue(key string, value any) any {
	if nested, ok := value.(map[string]any); ok {
		return MaskMetadata(nested)
	}
	if _, sensitive := sensitiveKeys[strings.ToLower(key)]; !sensitive {
		return value
	}
	if cast, ok := value.(string); ok {
		return MaskSecret(cast)
	}
	return maskToken
}

package config

import "strings"

var placeholderKeys = map[string]struct{}{
	"":             {},
	"demo":         {},
	"your_api_key": {},
	"changeme":     {},
}

// IsPlaceholderKey reports whether key is absent or a known dummy value.
// Such keys are a supported setup: callers fall back to bundled data.
func IsPlaceholderKey(key string) bool {
	_, ok := placeholderKeys[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

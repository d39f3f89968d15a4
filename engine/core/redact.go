package core

import (
	"regexp"
	"strings"
)

const Masked = "[REDACTED]"

// Precompiled patterns for common secret shapes in serialized values.
var (
	kvSecretRe = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|password|pass|pwd|credential|auth)\s*[:=]\s*["']?[^"'\s]+["']?`,
	)
	genericKeyRe = regexp.MustCompile(
		`\b(sk-[A-Za-z0-9_\-]{16,}|pk-[A-Za-z0-9_\-]{16,}|api_[A-Za-z0-9_\-]{16,}|key-[A-Za-z0-9_\-]{16,})\b`,
	)
	bearerTokenRe = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-\._~\+\/]+=*`)
)

// RedactString trims, truncates, and scrubs common secret patterns.
func RedactString(s string) string {
	const maxLen = 256
	s = strings.TrimSpace(s)
	s = bearerTokenRe.ReplaceAllString(s, "$1"+Masked)
	s = kvSecretRe.ReplaceAllString(s, "$1="+Masked)
	s = genericKeyRe.ReplaceAllString(s, Masked)
	if len(s) > maxLen {
		s = s[:maxLen] + "…"
	}
	return s
}

// MaskKeys returns a copy of m with the listed keys replaced by the mask
// marker. Nested map[string]any values are masked recursively.
func MaskKeys(m map[string]any, keys []string) map[string]any {
	if m == nil {
		return nil
	}
	masked := make(map[string]bool, len(keys))
	for _, k := range keys {
		masked[k] = true
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if masked[k] {
			out[k] = Masked
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = MaskKeys(nested, keys)
			continue
		}
		out[k] = v
	}
	return out
}

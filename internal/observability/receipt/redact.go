package receipt

import (
	"regexp"
	"strings"
)

// sensitiveKeys are argument names whose values are always redacted.
var sensitiveKeys = map[string]bool{
	"token":         true,
	"key":           true,
	"password":      true,
	"secret":        true,
	"pat":           true,
	"api-key":       true,
	"api_key":       true,
	"apikey":        true,
	"auth":          true,
	"credential":    true,
	"credentials":   true,
	"bearer":        true,
	"access_token":  true,
	"refresh_token": true,
	"private_key":   true,
}

// sensitivePrefixes are value prefixes indicating secrets.
var sensitivePrefixes = []string{
	"sk-",         // OpenAI, Stripe
	"ghp_",        // GitHub PAT
	"github_pat_", // GitHub fine-grained PAT
	"gho_",        // GitHub OAuth
	"ghu_",        // GitHub user-to-server
	"ghs_",        // GitHub server-to-server
	"xoxb-",       // Slack bot
	"xoxp-",       // Slack user
	"AKIA",        // AWS access key
	"ya29.",       // Google OAuth
	"AIza",        // Google API key
	"npm_",        // npm token
	"pypi-",       // PyPI token
}

// jwtRegex matches JWT-like patterns (xxx.yyy.zzz where each part is base64-ish).
// This is a heuristic - may have false positives on dotted strings.
var jwtRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}$`)

// longSecretRegex matches long alphanumeric strings that look like secrets.
// 32+ chars of hex or base64 characters.
var longSecretRegex = regexp.MustCompile(`^[A-Za-z0-9+/=_-]{32,}$`)

const redactedValue = "[REDACTED]"

// RedactArgs sanitizes tool-call arguments before they land in a receipt.
// Returns the redacted copy and whether any redaction was applied.
func RedactArgs(args map[string]any) (map[string]any, bool) {
	if len(args) == 0 {
		return args, false
	}

	redacted := make(map[string]any, len(args))
	wasRedacted := false

	for key, value := range args {
		if sensitiveKeys[strings.ToLower(key)] {
			redacted[key] = redactedValue
			wasRedacted = true
			continue
		}
		if s, ok := value.(string); ok && isSensitiveValue(s) {
			redacted[key] = redactedValue
			wasRedacted = true
			continue
		}
		redacted[key] = value
	}

	return redacted, wasRedacted
}

// isSensitiveValue checks if a value looks like a secret by pattern matching.
func isSensitiveValue(value string) bool {
	for _, prefix := range sensitivePrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}

	if jwtRegex.MatchString(value) {
		return true
	}

	// Be conservative to avoid false positives on paths/globs
	if len(value) >= 32 && !strings.Contains(value, "/") && !strings.Contains(value, ".") {
		if longSecretRegex.MatchString(value) {
			return true
		}
	}

	return false
}

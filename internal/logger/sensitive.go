package logger

import (
	"regexp"
	"strings"
)

// SensitiveDataPatterns contains regex patterns for sensitive data that should be redacted in logs
var SensitiveDataPatterns = []*regexp.Regexp{
	// Bearer tokens and JWTs
	regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9-._~+/]+=*)`),
	regexp.MustCompile(`(?i)(eyJ[a-zA-Z0-9_-]{5,}\.eyJ[a-zA-Z0-9_-]{5,})\.[a-zA-Z0-9_-]{5,}`),

	// key=value credentials; an authorization scheme word stays readable
	regexp.MustCompile(`(?i)((api|access|auth|token|secret|key|passw(or)?d)[0-9a-z\-_\.]*[\s:=]+(?:(?:bearer|basic)\s+)?)([^;,\s]{5,})`),

	// Session cookies, including the server's sessionid cookie
	regexp.MustCompile(`(?i)((session(id)?|auth|token|csrf|sid)=)([^;,\s]{5,})`),
}

// SensitiveKeywords mark field keys whose values are never logged
var SensitiveKeywords = []string{
	"password", "passwd", "secret", "credential", "token", "auth", "api_key",
	"apikey", "authorization", "cookie", "session", "csrf",
}

const redacted = "[REDACTED]"

// RedactSensitiveData replaces sensitive information with "[REDACTED]"
func RedactSensitiveData(input string) string {
	if input == "" {
		return input
	}

	for _, pattern := range SensitiveDataPatterns {
		input = pattern.ReplaceAllString(input, "${1}"+redacted)
	}

	return input
}

// IsSensitiveKey reports whether a field key indicates a credential
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, sensitiveKey := range SensitiveKeywords {
		if strings.Contains(keyLower, sensitiveKey) {
			return true
		}
	}
	return false
}

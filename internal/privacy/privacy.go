// Package privacy provides privacy-focused utility functions for handling sensitive data
// such as URL anonymization, message scrubbing, and system ID generation.
package privacy

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

var (
	urlPattern = regexp.MustCompile(`\bhttps?://[^\s"'<>]+`)

	// Order matters: the cookie and bearer forms must run before the generic hex pattern.
	secretPatterns = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`(?i)(sessionid|session_id|sessionId)(["']?\s*[=:]\s*["']?)[^\s;,"']+`), "${1}${2}[REDACTED]"},
		{regexp.MustCompile(`(?i)(password|passwd)(["']?\s*[=:]\s*["']?)[^\s;,"']+`), "${1}${2}[REDACTED]"},
		{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/=-]+`), "Bearer [REDACTED]"},
		{regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), "[EMAIL]"},
		{regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`), "[UUID]"},
		{regexp.MustCompile(`\b[0-9a-zA-Z]{32,}\b`), "[TOKEN]"},
	}

	// Path segments of the triage API kept verbatim when anonymizing URLs.
	knownSegments = map[string]bool{
		"register": true, "login": true, "analyze": true,
		"analysis": true, "history": true, "resources": true,
	}
)

// ScrubMessage removes or anonymizes sensitive information from telemetry messages.
// URLs are replaced by anonymized forms, then session identifiers, passwords,
// emails and long tokens are redacted.
func ScrubMessage(message string) string {
	scrubbed := urlPattern.ReplaceAllStringFunc(message, AnonymizeURL)
	for _, p := range secretPatterns {
		scrubbed = p.re.ReplaceAllString(scrubbed, p.repl)
	}
	return scrubbed
}

// AnonymizeURL converts a URL to an anonymized form while preserving debugging value.
// Known API paths survive; hosts collapse to a category and everything else is hashed.
func AnonymizeURL(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Host == "" {
		hash := sha256.Sum256([]byte(rawURL))
		return fmt.Sprintf("url-hash-%x", hash[:8])
	}

	var b strings.Builder
	b.WriteString(parsedURL.Scheme)
	b.WriteString("://")
	b.WriteString(categorizeHost(parsedURL.Hostname()))
	if port := parsedURL.Port(); port != "" {
		b.WriteString(":")
		b.WriteString(port)
	}
	b.WriteString("/")
	b.WriteString(anonymizePath(parsedURL.Path))
	return b.String()
}

// categorizeHost anonymizes hostnames while preserving useful categorization
func categorizeHost(host string) string {
	if host == "localhost" {
		return "localhost"
	}
	if ip := net.ParseIP(host); ip != nil {
		switch {
		case ip.IsLoopback():
			return "localhost"
		case ip.IsPrivate(), ip.IsLinkLocalUnicast():
			return "private-ip"
		default:
			return "public-ip"
		}
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return "domain-" + parts[len(parts)-1]
	}
	return "unknown-host"
}

// anonymizePath keeps known API segments and hashes the rest
func anonymizePath(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return ""
	}

	segments := strings.Split(path, "/")
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		switch {
		case segment == "":
			continue
		case knownSegments[strings.ToLower(segment)]:
			out = append(out, strings.ToLower(segment))
		case isNumeric(segment):
			out = append(out, "numeric")
		default:
			hash := sha256.Sum256([]byte(segment))
			out = append(out, fmt.Sprintf("seg-%x", hash[:4]))
		}
	}
	return strings.Join(out, "/")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// GenerateSystemID creates a random installation identifier.
// Format: XXXX-XXXX-XXXX (14 chars total with hyphens)
func GenerateSystemID() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	id := hex.EncodeToString(bytes)
	formatted := fmt.Sprintf("%s-%s-%s", id[0:4], id[4:8], id[8:12])
	return strings.ToUpper(formatted), nil
}

// IsValidSystemID checks if a system ID has the correct format
func IsValidSystemID(id string) bool {
	if len(id) != 14 {
		return false
	}
	if id[4] != '-' || id[9] != '-' {
		return false
	}
	for i, char := range id {
		if i == 4 || i == 9 {
			continue
		}
		if !isHexChar(char) {
			return false
		}
	}
	return true
}

func isHexChar(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')
}

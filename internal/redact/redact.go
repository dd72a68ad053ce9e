// Package redact scrubs credentials and other sensitive fragments from
// strings before they are logged or echoed back to API clients.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactionPlaceholder = "[REDACTED]"
	HashPlaceholder      = "[REDACTED_HASH]"
	JWTPlaceholder       = "[REDACTED_JWT]"
	EmailPlaceholder     = "[REDACTED_EMAIL]"
	SQLPlaceholder       = "[REDACTED_SQL]"
	PathPlaceholder      = "[REDACTED_PATH]"
	StackPlaceholder     = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// rules run in order. Earlier rules consume fragments that later, broader
// rules would otherwise mangle (a JWT before the bearer rule, a DSN before
// the path rule).
var rules = []rule{
	{
		re:          regexp.MustCompile(`goroutine \d+ \[[^\]]*\]:[\s\S]*`),
		replacement: StackPlaceholder,
	},
	{
		// postgres and redis DSNs: keep the scheme, drop user info.
		re:          regexp.MustCompile(`(?i)\b(postgres(?:ql)?|rediss?)://[^\s@/]+@`),
		replacement: "${1}://" + RedactionPlaceholder + "@",
	},
	{
		re:          regexp.MustCompile(`\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}`),
		replacement: HashPlaceholder,
	},
	{
		re:          regexp.MustCompile(`eyJ[\w-]+\.eyJ[\w-]+\.[\w-]+`),
		replacement: JWTPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]+`),
		replacement: "Bearer [REDACTED_TOKEN]",
	},
	{
		re:          regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret)(['"]?\s*[=:]\s*['"]?)[^'"&\s,]+`),
		replacement: "${1}${2}" + RedactionPlaceholder,
	},
	{
		re:          regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: EmailPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?i)\b(?:SELECT\s.+?\sFROM|INSERT\s+INTO|UPDATE\s+\w+\s+SET|DELETE\s+FROM)\b.*`),
		replacement: SQLPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?:/[\w.-]+){2,}`),
		replacement: PathPlaceholder,
	},
}

// String redacts sensitive fragments from s.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.replacement)
	}
	return s
}

// Error redacts err.Error(). A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

package logger

import (
	"fmt"
	"regexp"
	"strings"
)

// Sanitizer masks sensitive data in statement parameters before they reach a
// log sink. Detection is based on column names appearing in the SQL text.
type Sanitizer struct {
	maskValue string
	patterns  []*regexp.Regexp
}

// NewSanitizer creates a sanitizer for the given sensitive column names.
// If no names are provided, a default set of common sensitive columns is used.
func NewSanitizer(sensitiveFields []string) *Sanitizer {
	if len(sensitiveFields) == 0 {
		sensitiveFields = []string{
			"password", "passwd", "pwd",
			"token", "api_key", "apikey", "api_token",
			"secret", "auth", "authorization",
			"credit_card", "card_number", "cvv", "cvc",
			"ssn", "private_key",
		}
	}

	patterns := make([]*regexp.Regexp, 0, len(sensitiveFields))
	for _, field := range sensitiveFields {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(field)+`\b`))
	}

	return &Sanitizer{
		maskValue: "***REDACTED***",
		patterns:  patterns,
	}
}

// MaskParams returns a copy of params with every value masked when the SQL
// text references a sensitive column. Original parameters are not modified.
//
// Parameter positions cannot be mapped back to columns reliably once a
// statement mixes SET and WHERE placeholders, so the whole list is masked as
// soon as one sensitive column appears.
func (s *Sanitizer) MaskParams(sql string, params []interface{}) []interface{} {
	if len(params) == 0 || !s.sensitive(sql) {
		return params
	}

	masked := make([]interface{}, len(params))
	for i := range params {
		masked[i] = s.maskValue
	}
	return masked
}

func (s *Sanitizer) sensitive(sql string) bool {
	for _, pattern := range s.patterns {
		if pattern.MatchString(sql) {
			return true
		}
	}
	return false
}

// FormatParams renders parameters for logging, truncating long values.
func (s *Sanitizer) FormatParams(params []interface{}) string {
	if len(params) == 0 {
		return "[]"
	}

	parts := make([]string, len(params))
	for i, p := range params {
		str := fmt.Sprintf("%v", p)
		if len(str) > 64 {
			str = str[:61] + "..."
		}
		parts[i] = str
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

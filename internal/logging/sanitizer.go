package logging

import (
	"regexp"
)

// Sanitizer redacts credentials from log messages. Analyzed text and URLs are
// logged, and both may embed keys for the upstream search and AI services.
type Sanitizer struct {
	patterns []*regexp.Regexp
	redacted string
}

// NewSanitizer creates a sanitizer with default patterns.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		patterns: defaultPatterns(),
		redacted: "[REDACTED]",
	}
}

func defaultPatterns() []*regexp.Regexp {
	patterns := []string{
		// Google AI (Gemini) keys
		`AIza[a-zA-Z0-9_-]{35}`,
		// OpenAI style keys
		`sk-[A-Za-z0-9-]{20,}`,
		// Credentials in URL userinfo
		`(?i)(?:https?://)[^/\s:@]+:[^/\s@]+@`,
		// Key-bearing query parameters (NewsAPI apiKey=, Google key=)
		`(?i)[?&](?:api_?key|key|token|access_token)=[^&\s"']{8,}`,
		// Serper and similar header keys
		`(?i)x-api-key["'\s:=]+[a-zA-Z0-9_-]{20,}`,
		// Bearer tokens
		`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`,
		// Generic assignments
		`(?i)api[_-]?key["'\s:=]+[a-zA-Z0-9_-]{20,}`,
		`(?i)secret["'\s:=]+[a-zA-Z0-9_-]{20,}`,
		`(?i)password["'\s:=]+[^\s"']{8,}`,
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Sanitize redacts sensitive information from a string.
func (s *Sanitizer) Sanitize(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, pattern := range s.patterns {
		result = pattern.ReplaceAllString(result, s.redacted)
	}
	return result
}

// AddPattern adds a custom pattern.
func (s *Sanitizer) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	s.patterns = append(s.patterns, re)
	return nil
}

package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"
)

// PIILevel controls how much visitor-supplied text reaches the logs.
type PIILevel string

const (
	// PIILevelNone drops visitor text entirely.
	PIILevelNone PIILevel = "none"
	// PIILevelHashed keeps text but replaces contact details with salted hashes.
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull logs text unchanged.
	PIILevelFull PIILevel = "full"
)

const maxLoggedRunes = 160

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}[\s.-]?)?(?:\(?\d{2,4}\)?[\s.-]?){2,4}\d{2,4}`)
	cardPattern  = regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`)
)

// Sanitizer redacts chat lines and inquiry contact details before they are logged.
type Sanitizer struct {
	level PIILevel
	salt  string
}

// ParseLevel maps a config value to a PIILevel, defaulting to hashed.
func ParseLevel(s string) PIILevel {
	switch PIILevel(strings.ToLower(strings.TrimSpace(s))) {
	case PIILevelNone:
		return PIILevelNone
	case PIILevelFull:
		return PIILevelFull
	default:
		return PIILevelHashed
	}
}

// NewSanitizer creates a sanitizer; salt keeps hashes stable per deployment.
func NewSanitizer(level PIILevel, salt string) *Sanitizer {
	return &Sanitizer{level: level, salt: salt}
}

// Text sanitizes free text such as a chat message and truncates it.
func (s *Sanitizer) Text(input string) string {
	switch s.level {
	case PIILevelNone:
		return "[REDACTED]"
	case PIILevelFull:
		return truncate(input)
	default:
		return truncate(s.hashPII(input))
	}
}

// Email sanitizes a single e-mail address.
func (s *Sanitizer) Email(email string) string {
	return s.identifier("EMAIL", strings.ToLower(strings.TrimSpace(email)))
}

// Phone sanitizes a single phone number.
func (s *Sanitizer) Phone(phone string) string {
	return s.identifier("PHONE", strings.TrimSpace(phone))
}

func (s *Sanitizer) identifier(kind, value string) string {
	if value == "" {
		return ""
	}
	switch s.level {
	case PIILevelNone:
		return "[REDACTED]"
	case PIILevelFull:
		return value
	default:
		return "[" + kind + ":" + s.hash(value) + "]"
	}
}

func (s *Sanitizer) hashPII(input string) string {
	result := cardPattern.ReplaceAllString(input, "[CC:REDACTED]")
	result = emailPattern.ReplaceAllStringFunc(result, func(match string) string {
		return "[EMAIL:" + s.hash(strings.ToLower(match)) + "]"
	})
	result = phonePattern.ReplaceAllStringFunc(result, func(match string) string {
		digits := 0
		for _, r := range match {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits < 7 {
			return match
		}
		return "[PHONE:" + s.hash(match) + "]"
	})
	return result
}

// hash returns 8 letters (no digits) so a hashed token never matches phonePattern.
func (s *Sanitizer) hash(data string) string {
	sum := sha256.Sum256([]byte(data + s.salt))
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return 'g' + (r - '0')
		}
		return r
	}, hex.EncodeToString(sum[:4]))
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxLoggedRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLoggedRunes]) + "…"
}

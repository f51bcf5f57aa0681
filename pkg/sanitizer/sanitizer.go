// Package sanitizer normalizes free-text input before validation and
// persistence. Strategies compose into pipelines; each strategy is a pure
// string transform.
package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reWhitespace   = regexp.MustCompile(`\s+`)
	reCodeAllowed  = regexp.MustCompile(`[^0-9A-Za-z\-]+`)
	reMultiHyphens = regexp.MustCompile(`-+`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func collapseWhitespace(s string) string {
	return reWhitespace.ReplaceAllString(s, " ")
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func clamp(limit int) Strategy {
	return func(s string) string {
		runes := []rune(s)
		if len(runes) <= limit {
			return s
		}
		return string(runes[:limit])
	}
}

// SanitizeTitle normalizes a reservation or notification title: control
// characters removed, whitespace collapsed, clamped to the column limit.
func SanitizeTitle(input string) string {
	p := Pipeline{
		stripControl,
		collapseWhitespace,
		trim,
		clamp(250),
	}
	return p.Apply(input)
}

// SanitizeText normalizes multi-line free text (descriptions, block reasons,
// notification messages). Newlines survive; other control characters do not.
func SanitizeText(input string) string {
	p := Pipeline{
		func(s string) string {
			return strings.Map(func(r rune) rune {
				if r == '\n' || r == '\t' {
					return r
				}
				if unicode.IsControl(r) {
					return -1
				}
				return r
			}, s)
		},
		trim,
	}
	return p.Apply(input)
}

// SanitizeCode normalizes a human-readable code (space codes, reservation
// codes): uppercase, alphanumerics and hyphens only.
func SanitizeCode(input string) string {
	p := Pipeline{
		trim,
		strings.ToUpper,
		func(s string) string { return reCodeAllowed.ReplaceAllString(s, "-") },
		func(s string) string { return reMultiHyphens.ReplaceAllString(s, "-") },
		func(s string) string { return strings.Trim(s, "-") },
	}
	return p.Apply(input)
}

package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	MinPosition = 1
	MaxPosition = 20
	MinLevel    = 1
	MaxLevel    = 4
)

// LocationCode addresses one storage slot: a row letter, a position in the row and a shelf level.
// Its canonical text is Row+Position/Level, e.g. "H9/1".
type LocationCode struct {
	Row      byte
	Position int
	Level    int
}

func (c LocationCode) String() string {
	return fmt.Sprintf("%c%d/%d", c.Row, c.Position, c.Level)
}

// IsZero reports whether c is the zero code
func (c LocationCode) IsZero() bool {
	return c.Row == 0
}

const (
	positionPattern = `([1-9]|1[0-9]|20)`
	levelPattern    = `([1-4])`
)

// locationRule recognises one textual shape and maps its captures onto a code
type locationRule struct {
	name    string
	pattern *regexp.Regexp
	build   func(row byte, m []string) LocationCode
}

// Rules are tried in order; the canonical shape wins when the text fits both.
var locationRules = []locationRule{
	{
		name:    "canonical",
		pattern: regexp.MustCompile(`^([A-Z])` + positionPattern + `/` + levelPattern + `$`),
		build: func(row byte, m []string) LocationCode {
			return LocationCode{Row: row, Position: atoi(m[2]), Level: atoi(m[3])}
		},
	},
	{
		name:    "legacy",
		pattern: regexp.MustCompile(`^([A-Z])` + levelPattern + `/` + positionPattern + `$`),
		build: func(row byte, m []string) LocationCode {
			return LocationCode{Row: row, Position: atoi(m[3]), Level: atoi(m[2])}
		},
	},
	{
		name:    "legacy-slashed",
		pattern: regexp.MustCompile(`^([A-Z])/` + levelPattern + `/` + positionPattern + `$`),
		build: func(row byte, m []string) LocationCode {
			return LocationCode{Row: row, Position: atoi(m[3]), Level: atoi(m[2])}
		},
	},
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// cleanLocation uppercases and drops all whitespace
func cleanLocation(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, raw)
}

// ParseLocation accepts canonical or legacy text and returns the slot it denotes
func ParseLocation(raw string) (LocationCode, error) {
	text := cleanLocation(raw)
	if text == "" {
		return LocationCode{}, &FormatError{Input: raw, Reason: "location is empty"}
	}

	for _, rule := range locationRules {
		if m := rule.pattern.FindStringSubmatch(text); m != nil {
			return rule.build(text[0], m), nil
		}
	}

	return LocationCode{}, &FormatError{
		Input:  raw,
		Reason: fmt.Sprintf("expected Row+Position/Level with row A-Z, position %d-%d and level %d-%d", MinPosition, MaxPosition, MinLevel, MaxLevel),
	}
}

// NormalizeLocation returns the canonical text of raw, or false when raw matches no known shape
func NormalizeLocation(raw string) (string, bool) {
	code, err := ParseLocation(raw)
	if err != nil {
		return "", false
	}
	return code.String(), true
}

// DisplayLocation renders raw in canonical form, or unchanged when it cannot be parsed
func DisplayLocation(raw string) string {
	if cleanLocation(raw) == "" {
		return ""
	}
	if normalized, ok := NormalizeLocation(raw); ok {
		return normalized
	}
	return raw
}

// SameLocation reports whether a and b denote the same slot.
// Text that parses to no slot is never equal to anything.
func SameLocation(a, b string) bool {
	na, okA := NormalizeLocation(a)
	nb, okB := NormalizeLocation(b)
	return okA && okB && na == nb
}

// LocationVariants lists the uppercase encodings under which the slot may have been stored
func LocationVariants(code LocationCode) []string {
	variants := []string{
		code.String(),
		fmt.Sprintf("%c%d/%d", code.Row, code.Level, code.Position),
		fmt.Sprintf("%c/%d/%d", code.Row, code.Level, code.Position),
	}
	// Dedupe so that e.g. A1/1 is listed once
	out := variants[:0]
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

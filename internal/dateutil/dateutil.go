// Package dateutil renders dates from token-based layouts such as
// "MMMM YYYY" so configuration files never need Go's reference time.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidLayout indicates a layout string that cannot be used.
var ErrInvalidLayout = errors.New("invalid date layout")

// MaxLayoutLength limits layout length.
const MaxLayoutLength = 50

// DefaultLayout renders "October 2026", the cover page footer style.
const DefaultLayout = "MMMM YYYY"

// tokens maps layout tokens to Go time layout fragments, longest first.
var tokens = [...]struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named shortcuts accepted wherever a layout is.
var Presets = map[string]string{
	"month": DefaultLayout,
	"iso":   "YYYY-MM-DD",
	"us":    "MM/DD/YYYY",
	"long":  "MMMM D, YYYY",
}

// GoLayout converts a token layout (or preset name) to a Go time layout.
// Text inside square brackets is copied literally: "[Updated] MMMM YYYY".
func GoLayout(layout string) (string, error) {
	if preset, ok := Presets[strings.ToLower(layout)]; ok {
		layout = preset
	}
	if layout == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidLayout)
	}
	if len(layout) > MaxLayoutLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidLayout, MaxLayoutLength)
	}

	var b strings.Builder
	rest := layout
	for rest != "" {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidLayout, layout)
			}
			b.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		n := matchToken(rest, &b)
		if n == 0 {
			b.WriteByte(rest[0])
			n = 1
		}
		rest = rest[n:]
	}
	return b.String(), nil
}

// matchToken writes the Go fragment for the token at the start of s and
// returns the number of bytes consumed, or 0 if s starts with no token.
func matchToken(s string, b *strings.Builder) int {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.goFmt)
			return len(t.token)
		}
	}
	return 0
}

// Format renders t using a token layout.
func Format(t time.Time, layout string) (string, error) {
	goFmt, err := GoLayout(layout)
	if err != nil {
		return "", err
	}
	return t.Format(goFmt), nil
}

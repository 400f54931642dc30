package mood

import (
	"fmt"
	"strings"
)

// Kind is one of the five fixed mood tags.
type Kind string

const (
	Great    Kind = "Great"
	Happy    Kind = "Happy"
	Neutral  Kind = "Neutral"
	Sad      Kind = "Sad"
	Terrible Kind = "Terrible"
)

// All lists every Kind in display order, best to worst.
var All = []Kind{Great, Happy, Neutral, Sad, Terrible}

// Color is an RGBA display color.
type Color struct {
	R, G, B uint8
	A       float64
}

// CSS renders the color as a CSS rgba() value.
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c.R, c.G, c.B, c.A)
}

var glyphs = map[Kind]string{
	Great:    "😊",
	Happy:    "🙂",
	Neutral:  "😐",
	Sad:      "😔",
	Terrible: "😢",
}

// Colors are a light grey whose opacity fades with the mood.
var colors = map[Kind]Color{
	Great:    {R: 204, G: 204, B: 204, A: 0.30},
	Happy:    {R: 204, G: 204, B: 204, A: 0.25},
	Neutral:  {R: 204, G: 204, B: 204, A: 0.20},
	Sad:      {R: 204, G: 204, B: 204, A: 0.15},
	Terrible: {R: 204, G: 204, B: 204, A: 0.10},
}

// Valid reports whether k is one of the five known tags.
func (k Kind) Valid() bool {
	_, ok := glyphs[k]
	return ok
}

// Glyph returns the emoji shown for k, or "" for an unknown kind.
func (k Kind) Glyph() string {
	return glyphs[k]
}

// Color returns the display color for k.
func (k Kind) Color() Color {
	return colors[k]
}

// Label returns a glyph-prefixed label, e.g. "🙂 Happy".
func (k Kind) Label() string {
	return k.Glyph() + " " + string(k)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown mood %q", string(k))
	}
	return []byte(k), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only exact tags are accepted.
func (k *Kind) UnmarshalText(b []byte) error {
	v := Kind(b)
	if !v.Valid() {
		return fmt.Errorf("unknown mood %q", string(b))
	}
	*k = v
	return nil
}

// ParseKind parses user input case-insensitively ("happy", " SAD ").
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for _, k := range All {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q (want one of: great, happy, neutral, sad, terrible)", s)
}

package models

import (
	"fmt"
	"strings"
)

// Color is an RGB triple. It crosses the persistence and API boundaries
// as a "#RRGGBB" hex string, written uppercase; reads accept either case.
type Color struct {
	R, G, B uint8
}

// ColorPalette is the fixed set of selection colors offered at creation.
var ColorPalette = []string{
	"#FD4C49", "#FF881E", "#007BFA", "#6E88F1", "#33CF69", "#E66DD4",
	"#F9D4D4", "#34A7FE", "#46E69D", "#35347C", "#FF674D", "#FF99CC",
	"#F6C48B", "#7994F5", "#832CF1", "#AD56DA", "#8D72E3", "#2FD058",
}

// EmojiPalette is the fixed set of selection emojis offered at creation.
var EmojiPalette = []string{
	"🙂", "😻", "🌺", "🐶", "❤️", "😱",
	"😇", "😡", "🥶", "🤔", "🙌", "🍔",
	"🥦", "🏓", "🥇", "🎸", "🏝", "😪",
}

// ColorToHex renders a color as "#RRGGBB" with uppercase digits.
func ColorToHex(c Color) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// HexToColor parses "#RRGGBB" with hex digits in either case.
func HexToColor(hex string) (Color, error) {
	var c Color
	s := strings.TrimSpace(hex)
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("invalid color %q: want #RRGGBB", hex)
	}
	n, err := fmt.Sscanf(strings.ToUpper(s), "#%02X%02X%02X", &c.R, &c.G, &c.B)
	if err != nil || n != 3 {
		return c, fmt.Errorf("invalid color %q: want #RRGGBB", hex)
	}
	return c, nil
}

// NormalizeHexColor validates a hex color string and returns its
// canonical uppercase form.
func NormalizeHexColor(hex string) (string, error) {
	c, err := HexToColor(hex)
	if err != nil {
		return "", err
	}
	return ColorToHex(c), nil
}

// InColorPalette reports whether hex names one of the palette colors,
// ignoring case.
func InColorPalette(hex string) bool {
	norm, err := NormalizeHexColor(hex)
	if err != nil {
		return false
	}
	for _, p := range ColorPalette {
		if p == norm {
			return true
		}
	}
	return false
}

// InEmojiPalette reports whether emoji is one of the palette glyphs.
func InEmojiPalette(emoji string) bool {
	for _, e := range EmojiPalette {
		if e == emoji {
			return true
		}
	}
	return false
}

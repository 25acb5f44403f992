package theme

import "fmt"

// Gradient returns n hex colors blended evenly from colorA to colorB.
func Gradient(colorA, colorB string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []string{colorA}
	}
	out := make([]string, n)
	for i := range out {
		out[i] = InterpolateColor(colorA, colorB, float64(i)/float64(n-1))
	}
	return out
}

// InterpolateColor blends between two hex colors based on position (0.0 to 1.0)
func InterpolateColor(colorA, colorB string, pos float64) string {
	r1, g1, b1 := ParseHexColor(colorA)
	r2, g2, b2 := ParseHexColor(colorB)

	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-pos) + float64(b)*pos + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(r1, r2), mix(g1, g2), mix(b1, b2))
}

// ParseHexColor extracts RGB values from a #RRGGBB string. Malformed input
// yields black.
func ParseHexColor(hex string) (uint8, uint8, uint8) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	var r, g, b uint8
	if len(hex) == 6 {
		_, _ = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	}
	return r, g, b
}

package scale

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultColorThreshold is the maximum RGB distance accepted for a palette match.
const DefaultColorThreshold = 30

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex renders c as lowercase #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Distance is the Euclidean distance in RGB space.
func (c RGB) Distance(o RGB) float64 {
	dr := float64(c.R) - float64(o.R)
	dg := float64(c.G) - float64(o.G)
	db := float64(c.B) - float64(o.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

var rgbFunc = regexp.MustCompile(`^rgba?\((.*)\)$`)

// ParseColor converts a hex or rgb()/rgba() string to RGB. The second result
// is false for unsupported formats and for fully transparent colors.
func ParseColor(value string) (RGB, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || v == "transparent" {
		return RGB{}, false
	}
	if strings.HasPrefix(v, "#") {
		return parseHex(v[1:])
	}
	m := rgbFunc.FindStringSubmatch(v)
	if m == nil {
		return RGB{}, false
	}
	parts := strings.FieldsFunc(m[1], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(parts) < 3 || len(parts) > 4 {
		return RGB{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		c, ok := channel(parts[i])
		if !ok {
			return RGB{}, false
		}
		ch[i] = c
	}
	if len(parts) == 4 {
		a, ok := alpha(parts[3])
		if !ok || a == 0 {
			return RGB{}, false
		}
	}
	return RGB{ch[0], ch[1], ch[2]}, true
}

func parseHex(h string) (RGB, bool) {
	switch len(h) {
	case 3, 4:
		if len(h) == 4 && h[3] == '0' {
			return RGB{}, false
		}
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	case 8:
		if h[6:] == "00" {
			return RGB{}, false
		}
		h = h[:6]
	default:
		return RGB{}, false
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{uint8(n >> 16), uint8(n >> 8), uint8(n)}, true
}

func channel(s string) (uint8, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clampByte(f / 100 * 255), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clampByte(f), true
}

func alpha(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return f / 100, err == nil
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func clampByte(f float64) uint8 {
	f = math.Round(f)
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f)
}

// Swatch is one named palette color.
type Swatch struct {
	Hex  string
	Name string
}

// Palette is an ordered color table with a rejection threshold.
type Palette struct {
	Swatches  []Swatch
	Threshold float64
}

// FindNearestColor maps a CSS color to a palette name. An exact hex match
// wins without consulting the threshold; otherwise the closest swatch is
// returned only when its distance is strictly below Threshold.
func (p Palette) FindNearestColor(value string) (string, bool) {
	c, ok := ParseColor(value)
	if !ok {
		return "", false
	}
	hex := c.Hex()
	for _, s := range p.Swatches {
		if strings.EqualFold(s.Hex, hex) {
			return s.Name, true
		}
	}

	best := ""
	bestDist := math.Inf(1)
	for _, s := range p.Swatches {
		sc, ok := parseHex(strings.TrimPrefix(strings.ToLower(s.Hex), "#"))
		if !ok {
			continue
		}
		if d := c.Distance(sc); d < bestDist {
			best, bestDist = s.Name, d
		}
	}
	if best == "" || bestDist >= p.Threshold {
		return "", false
	}
	return best, true
}

// DefaultPalette returns the built-in palette with the default threshold.
func DefaultPalette() Palette {
	return Palette{Swatches: defaultSwatches, Threshold: DefaultColorThreshold}
}

var defaultSwatches = []Swatch{
	{"#ffffff", "white"}, {"#000000", "black"},

	{"#f9fafb", "gray-50"}, {"#f3f4f6", "gray-100"}, {"#e5e7eb", "gray-200"},
	{"#d1d5db", "gray-300"}, {"#9ca3af", "gray-400"}, {"#6b7280", "gray-500"},
	{"#4b5563", "gray-600"}, {"#374151", "gray-700"}, {"#1f2937", "gray-800"},
	{"#111827", "gray-900"},

	{"#fef2f2", "red-50"}, {"#fee2e2", "red-100"}, {"#fecaca", "red-200"},
	{"#fca5a5", "red-300"}, {"#f87171", "red-400"}, {"#ef4444", "red-500"},
	{"#dc2626", "red-600"}, {"#b91c1c", "red-700"}, {"#991b1b", "red-800"},
	{"#7f1d1d", "red-900"},

	{"#fff7ed", "orange-50"}, {"#ffedd5", "orange-100"}, {"#fed7aa", "orange-200"},
	{"#fdba74", "orange-300"}, {"#fb923c", "orange-400"}, {"#f97316", "orange-500"},
	{"#ea580c", "orange-600"}, {"#c2410c", "orange-700"}, {"#9a3412", "orange-800"},
	{"#7c2d12", "orange-900"},

	{"#fefce8", "yellow-50"}, {"#fef9c3", "yellow-100"}, {"#fef08a", "yellow-200"},
	{"#fde047", "yellow-300"}, {"#facc15", "yellow-400"}, {"#eab308", "yellow-500"},
	{"#ca8a04", "yellow-600"}, {"#a16207", "yellow-700"}, {"#854d0e", "yellow-800"},
	{"#713f12", "yellow-900"},

	{"#f0fdf4", "green-50"}, {"#dcfce7", "green-100"}, {"#bbf7d0", "green-200"},
	{"#86efac", "green-300"}, {"#4ade80", "green-400"}, {"#22c55e", "green-500"},
	{"#16a34a", "green-600"}, {"#15803d", "green-700"}, {"#166534", "green-800"},
	{"#14532d", "green-900"},

	{"#eff6ff", "blue-50"}, {"#dbeafe", "blue-100"}, {"#bfdbfe", "blue-200"},
	{"#93c5fd", "blue-300"}, {"#60a5fa", "blue-400"}, {"#3b82f6", "blue-500"},
	{"#2563eb", "blue-600"}, {"#1d4ed8", "blue-700"}, {"#1e40af", "blue-800"},
	{"#1e3a8a", "blue-900"},

	{"#eef2ff", "indigo-50"}, {"#e0e7ff", "indigo-100"}, {"#c7d2fe", "indigo-200"},
	{"#a5b4fc", "indigo-300"}, {"#818cf8", "indigo-400"}, {"#6366f1", "indigo-500"},
	{"#4f46e5", "indigo-600"}, {"#4338ca", "indigo-700"}, {"#3730a3", "indigo-800"},
	{"#312e81", "indigo-900"},

	{"#faf5ff", "purple-50"}, {"#f3e8ff", "purple-100"}, {"#e9d5ff", "purple-200"},
	{"#d8b4fe", "purple-300"}, {"#c084fc", "purple-400"}, {"#a855f7", "purple-500"},
	{"#9333ea", "purple-600"}, {"#7e22ce", "purple-700"}, {"#6b21a8", "purple-800"},
	{"#581c87", "purple-900"},

	{"#fdf2f8", "pink-50"}, {"#fce7f3", "pink-100"}, {"#fbcfe8", "pink-200"},
	{"#f9a8d4", "pink-300"}, {"#f472b6", "pink-400"}, {"#ec4899", "pink-500"},
	{"#db2777", "pink-600"}, {"#be185d", "pink-700"}, {"#9d174d", "pink-800"},
	{"#831843", "pink-900"},
}

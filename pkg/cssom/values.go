package cssom

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dtnitsch/ninja-snatch/models"
)

const baseFontSize = 16.0

type lengthContext struct {
	fontSize     float64
	rootFontSize float64
	viewport     models.Viewport
}

// lengthPx resolves an absolute or font/viewport-relative length.
// Percentages and keywords are not lengths here.
func lengthPx(v string, lc lengthContext) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return 0, false
	}
	if v == "0" {
		return 0, true
	}

	num, unit := splitNumber(v)
	if num == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}

	vw := float64(lc.viewport.Width)
	vh := float64(lc.viewport.Height)
	switch unit {
	case "px":
		return f, true
	case "rem":
		return f * lc.rootFontSize, true
	case "em":
		return f * lc.fontSize, true
	case "pt":
		return f * 4 / 3, true
	case "pc":
		return f * 16, true
	case "in":
		return f * 96, true
	case "cm":
		return f * 96 / 2.54, true
	case "mm":
		return f * 96 / 25.4, true
	case "vw":
		return vw * f / 100, true
	case "vh":
		return vh * f / 100, true
	case "vmin":
		return math.Min(vw, vh) * f / 100, true
	case "vmax":
		return math.Max(vw, vh) * f / 100, true
	case "":
		return f, f == 0
	}
	return 0, false
}

func splitNumber(v string) (string, string) {
	i := 0
	if i < len(v) && (v[i] == '-' || v[i] == '+') {
		i++
	}
	for i < len(v) && (v[i] >= '0' && v[i] <= '9' || v[i] == '.') {
		i++
	}
	return v[:i], v[i:]
}

// formatPx renders a pixel value the way browsers serialize it.
func formatPx(f float64) string {
	f = math.Round(f*100) / 100
	return strconv.FormatFloat(f, 'f', -1, 64) + "px"
}

var fontSizeKeywords = map[string]float64{
	"xx-small":  9,
	"x-small":   10,
	"small":     13,
	"medium":    16,
	"large":     18,
	"x-large":   24,
	"xx-large":  32,
	"xxx-large": 48,
}

// resolveFontSize returns the font size in px given the parent's size.
func resolveFontSize(v string, parent float64, lc lengthContext) float64 {
	v = strings.ToLower(strings.TrimSpace(v))
	if px, ok := fontSizeKeywords[v]; ok {
		return px
	}
	switch v {
	case "smaller":
		return parent / 1.2
	case "larger":
		return parent * 1.2
	}
	if strings.HasSuffix(v, "%") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64); err == nil {
			return parent * f / 100
		}
		return parent
	}
	lc.fontSize = parent
	if px, ok := lengthPx(v, lc); ok {
		return px
	}
	return parent
}

// resolveLineHeight keeps "normal" and unitless ratios, which children
// inherit as the number. Percentages and lengths become px against fontSize.
func resolveLineHeight(v string, fontSize float64, lc lengthContext) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" || v == "normal" {
		return "normal"
	}
	if strings.HasSuffix(v, "%") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64); err == nil {
			return formatPx(fontSize * f / 100)
		}
		return "normal"
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return strconv.FormatFloat(math.Round(f*1000)/1000, 'f', -1, 64)
	}
	lc.fontSize = fontSize
	if px, ok := lengthPx(v, lc); ok {
		return formatPx(px)
	}
	return "normal"
}

var fontWeightKeywords = map[string]int{
	"normal": 400,
	"bold":   700,
}

func resolveFontWeight(v string, parent int) int {
	v = strings.ToLower(strings.TrimSpace(v))
	if w, ok := fontWeightKeywords[v]; ok {
		return w
	}
	switch v {
	case "bolder":
		switch {
		case parent < 350:
			return 400
		case parent < 550:
			return 700
		default:
			return 900
		}
	case "lighter":
		switch {
		case parent < 550:
			return 100
		case parent < 750:
			return 400
		default:
			return 700
		}
	}
	if w, err := strconv.Atoi(v); err == nil && w >= 1 && w <= 1000 {
		return w
	}
	return parent
}

type rgba struct {
	r, g, b uint8
	a       float64
}

func (c rgba) String() string {
	if c.a >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.r, c.g, c.b)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.r, c.g, c.b, strconv.FormatFloat(c.a, 'f', -1, 64))
}

var colorFunc = regexp.MustCompile(`^(rgba?|hsla?)\((.*)\)$`)

// parseColor understands hex, rgb(a), hsl(a), named colors and transparent.
func parseColor(v string) (rgba, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "transparent" {
		return rgba{a: 0}, true
	}
	if hex, ok := namedColors[v]; ok {
		v = hex
	}
	if strings.HasPrefix(v, "#") {
		return parseHexColor(v[1:])
	}
	m := colorFunc.FindStringSubmatch(v)
	if m == nil {
		return rgba{}, false
	}
	parts := strings.FieldsFunc(m[2], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(parts) < 3 {
		return rgba{}, false
	}
	alpha := 1.0
	if len(parts) >= 4 {
		a, ok := parseAlpha(parts[3])
		if !ok {
			return rgba{}, false
		}
		alpha = a
	}

	if strings.HasPrefix(m[1], "hsl") {
		h, err1 := strconv.ParseFloat(strings.TrimSuffix(parts[0], "deg"), 64)
		s, err2 := strconv.ParseFloat(strings.TrimSuffix(parts[1], "%"), 64)
		l, err3 := strconv.ParseFloat(strings.TrimSuffix(parts[2], "%"), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return rgba{}, false
		}
		r, g, b := hslToRGB(h, s/100, l/100)
		return rgba{r, g, b, alpha}, true
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		p := parts[i]
		var f float64
		var err error
		if strings.HasSuffix(p, "%") {
			f, err = strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
			f = f * 255 / 100
		} else {
			f, err = strconv.ParseFloat(p, 64)
		}
		if err != nil {
			return rgba{}, false
		}
		ch[i] = clamp8(f)
	}
	return rgba{ch[0], ch[1], ch[2], alpha}, true
}

func parseHexColor(h string) (rgba, bool) {
	alpha := 1.0
	switch len(h) {
	case 3, 4:
		expanded := make([]byte, 0, 8)
		for i := 0; i < len(h); i++ {
			expanded = append(expanded, h[i], h[i])
		}
		h = string(expanded)
	case 6, 8:
	default:
		return rgba{}, false
	}
	n, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return rgba{}, false
	}
	if len(h) == 8 {
		alpha = math.Round(float64(n&0xff)/255*100) / 100
		n >>= 8
	}
	return rgba{uint8(n >> 16), uint8(n >> 8), uint8(n), alpha}, true
}

func parseAlpha(p string) (float64, bool) {
	if strings.HasSuffix(p, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
		return math.Min(math.Max(f/100, 0), 1), err == nil
	}
	f, err := strconv.ParseFloat(p, 64)
	return math.Min(math.Max(f, 0), 1), err == nil
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	h = math.Mod(math.Mod(h, 360)+360, 360) / 360
	if s == 0 {
		v := clamp8(l * 255)
		return v, v, v
	}
	q := l * (1 + s)
	if l >= 0.5 {
		q = l + s - l*s
	}
	p := 2*l - q
	hue := func(t float64) float64 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		switch {
		case t < 1.0/6:
			return p + (q-p)*6*t
		case t < 0.5:
			return q
		case t < 2.0/3:
			return p + (q-p)*(2.0/3-t)*6
		}
		return p
	}
	return clamp8(hue(h+1.0/3) * 255), clamp8(hue(h) * 255), clamp8(hue(h-1.0/3) * 255)
}

func clamp8(f float64) uint8 {
	f = math.Round(f)
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f)
}

var namedColors = map[string]string{
	"black": "#000000", "white": "#ffffff", "red": "#ff0000", "green": "#008000",
	"blue": "#0000ff", "yellow": "#ffff00", "orange": "#ffa500", "purple": "#800080",
	"gray": "#808080", "grey": "#808080", "silver": "#c0c0c0", "maroon": "#800000",
	"olive": "#808000", "lime": "#00ff00", "aqua": "#00ffff", "cyan": "#00ffff",
	"teal": "#008080", "navy": "#000080", "fuchsia": "#ff00ff", "magenta": "#ff00ff",
	"pink": "#ffc0cb", "brown": "#a52a2a", "gold": "#ffd700", "indigo": "#4b0082",
	"violet": "#ee82ee", "coral": "#ff7f50", "salmon": "#fa8072", "tomato": "#ff6347",
	"crimson": "#dc143c", "khaki": "#f0e68c", "beige": "#f5f5dc", "ivory": "#fffff0",
	"lavender": "#e6e6fa", "plum": "#dda0dd", "orchid": "#da70d6", "tan": "#d2b48c",
	"chocolate": "#d2691e", "sienna": "#a0522d", "peru": "#cd853f", "wheat": "#f5deb3",
	"turquoise": "#40e0d0", "skyblue": "#87ceeb", "steelblue": "#4682b4",
	"royalblue": "#4169e1", "dodgerblue": "#1e90ff", "slategray": "#708090",
	"slategrey": "#708090", "darkgray": "#a9a9a9", "darkgrey": "#a9a9a9",
	"lightgray": "#d3d3d3", "lightgrey": "#d3d3d3", "gainsboro": "#dcdcdc",
	"whitesmoke": "#f5f5f5", "dimgray": "#696969", "dimgrey": "#696969",
	"darkred": "#8b0000", "darkgreen": "#006400", "darkblue": "#00008b",
	"lightblue": "#add8e6", "lightgreen": "#90ee90", "forestgreen": "#228b22",
	"seagreen": "#2e8b57", "limegreen": "#32cd32", "firebrick": "#b22222",
	"hotpink": "#ff69b4", "deeppink": "#ff1493", "goldenrod": "#daa520",
	"rebeccapurple": "#663399", "aliceblue": "#f0f8ff", "ghostwhite": "#f8f8ff",
	"snow": "#fffafa", "linen": "#faf0e6", "mintcream": "#f5fffa",
}

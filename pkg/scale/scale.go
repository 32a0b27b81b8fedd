// Package scale holds the fixed utility-class vocabularies and the
// nearest-value and nearest-color lookups over them.
package scale

// Entry maps one numeric key to an output token.
type Entry struct {
	Key   float64
	Token string
}

// Table is a scale sorted ascending by Key.
type Table []Entry

// Lookup returns the token for an exact key.
func (t Table) Lookup(value float64) (string, bool) {
	for _, e := range t {
		if e.Key == value {
			return e.Token, true
		}
	}
	return "", false
}

// FindNearestInScale returns the token whose key is closest to value.
// Keys are scanned in ascending order and only a strictly smaller distance
// replaces the current best, so ties resolve to the lower key.
// An empty table yields "".
func FindNearestInScale(value float64, table Table) string {
	if len(table) == 0 {
		return ""
	}
	best := table[0]
	bestDist := abs(value - best.Key)
	for _, e := range table[1:] {
		if d := abs(value - e.Key); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best.Token
}

// NearestStep snaps value to the closest candidate, ties toward the earlier one.
func NearestStep(value float64, steps []int) int {
	if len(steps) == 0 {
		return 0
	}
	best := steps[0]
	bestDist := abs(value - float64(best))
	for _, s := range steps[1:] {
		if d := abs(value - float64(s)); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Spacing is the margin/padding/gap scale in px.
var Spacing = Table{
	{0, "0"}, {1, "px"}, {2, "0.5"}, {4, "1"}, {6, "1.5"}, {8, "2"}, {10, "2.5"},
	{12, "3"}, {14, "3.5"}, {16, "4"}, {20, "5"}, {24, "6"}, {28, "7"}, {32, "8"},
	{36, "9"}, {40, "10"}, {44, "11"}, {48, "12"}, {56, "14"}, {64, "16"},
	{80, "20"}, {96, "24"}, {112, "28"}, {128, "32"}, {144, "36"}, {160, "40"},
	{176, "44"}, {192, "48"}, {208, "52"}, {224, "56"}, {240, "60"}, {256, "64"},
	{288, "72"}, {320, "80"}, {384, "96"},
}

// FontSize is the font-size scale in px.
var FontSize = Table{
	{12, "text-xs"}, {14, "text-sm"}, {16, "text-base"}, {18, "text-lg"},
	{20, "text-xl"}, {24, "text-2xl"}, {30, "text-3xl"}, {36, "text-4xl"},
	{48, "text-5xl"}, {60, "text-6xl"}, {72, "text-7xl"}, {96, "text-8xl"},
	{128, "text-9xl"},
}

// Radius is the border-radius scale in px.
var Radius = Table{
	{0, "rounded-none"}, {2, "rounded-sm"}, {4, "rounded"}, {6, "rounded-md"},
	{8, "rounded-lg"}, {12, "rounded-xl"}, {16, "rounded-2xl"}, {24, "rounded-3xl"},
	{9999, "rounded-full"},
}

// LineHeight is keyed by the unitless line-height / font-size ratio.
var LineHeight = Table{
	{1, "leading-none"}, {1.25, "leading-tight"}, {1.375, "leading-snug"},
	{1.5, "leading-normal"}, {1.625, "leading-relaxed"}, {2, "leading-loose"},
}

// Package normalize maps computed style onto a fixed utility-class
// vocabulary.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/dom"
	"github.com/dtnitsch/ninja-snatch/pkg/scale"
)

// Result is the normalized form of one element's style.
type Result struct {
	ClassList []string          `json:"class_list"`
	Details   map[string]string `json:"details"`
}

// Normalizer is read-only after construction and safe for concurrent use.
type Normalizer struct {
	Mode         models.Mode
	Spacing      scale.Table
	FontSize     scale.Table
	Radius       scale.Table
	LineHeight   scale.Table
	Palette      scale.Palette
	OpacitySteps []int
	ZIndexSteps  []int
}

// New builds a Normalizer with the default vocabularies.
func New(cfg models.Config) *Normalizer {
	palette := scale.DefaultPalette()
	palette.Threshold = cfg.ColorThreshold
	return &Normalizer{
		Mode:         cfg.Mode,
		Spacing:      scale.Spacing,
		FontSize:     scale.FontSize,
		Radius:       scale.Radius,
		LineHeight:   scale.LineHeight,
		Palette:      palette,
		OpacitySteps: cfg.OpacitySteps,
		ZIndexSteps:  cfg.ZIndexSteps,
	}
}

// ExtractStyles reads el's computed style and normalizes it.
func (n *Normalizer) ExtractStyles(el dom.Element) (Result, error) {
	if dom.IsNil(el) {
		return Result{}, fmt.Errorf("failed to extract styles: %w", dom.ErrNoComputedStyle)
	}
	st, err := el.ComputedStyle()
	if err != nil {
		return Result{}, fmt.Errorf("failed to extract styles: %w", err)
	}
	return n.Normalize(st), nil
}

// Normalize is ExtractStyles for an already resolved style.
func (n *Normalizer) Normalize(st dom.Style) Result {
	b := &builder{details: make(map[string]string), seen: make(map[string]struct{})}

	display := strings.TrimSpace(st.Get("display"))
	n.layout(b, st, display)
	n.spacing(b, st, marginSides)
	n.spacing(b, st, paddingSides)
	n.sizing(b, st)
	n.typography(b, st)
	n.colors(b, st)
	n.borders(b, st)
	n.effects(b, st)
	n.position(b, st)

	return Result{ClassList: b.classes, Details: b.details}
}

type builder struct {
	classes []string
	seen    map[string]struct{}
	details map[string]string
}

func (b *builder) add(detail, token string) {
	if token == "" {
		return
	}
	if detail != "" {
		b.details[detail] = token
	}
	if _, ok := b.seen[token]; ok {
		return
	}
	b.seen[token] = struct{}{}
	b.classes = append(b.classes, token)
}

func (n *Normalizer) layout(b *builder, st dom.Style, display string) {
	b.add("display", displayTokens[display])

	switch display {
	case "flex", "inline-flex":
		b.add("flexDirection", flexDirectionTokens[st.Get("flex-direction")])
		b.add("flexWrap", flexWrapTokens[st.Get("flex-wrap")])
		b.add("justifyContent", justifyTokens[st.Get("justify-content")])
		b.add("alignItems", alignItemsTokens[st.Get("align-items")])
		n.gap(b, st)
	case "grid", "inline-grid":
		if cols := gridColumnCount(st.Get("grid-template-columns")); cols > 0 {
			cols = min(max(cols, 1), 12)
			b.add("gridCols", "grid-cols-"+strconv.Itoa(cols))
		}
		n.gap(b, st)
	}
}

// gap always rounds to the scale, regardless of mode.
func (n *Normalizer) gap(b *builder, st dom.Style) {
	raw := st.Get("gap")
	if raw == "" {
		raw = st.Get("row-gap")
	}
	px, ok := parseInt(firstField(raw))
	if !ok || px <= 0 {
		return
	}
	b.add("gap", "gap-"+scale.FindNearestInScale(float64(px), n.Spacing))
}

func (n *Normalizer) spacing(b *builder, st dom.Style, sides []side) {
	for _, s := range sides {
		px, ok := parseInt(st.Get(s.prop))
		if !ok || px == 0 {
			continue
		}
		b.add(s.detail, n.spacingToken(s.prefix, px))
	}
}

func (n *Normalizer) spacingToken(prefix string, px int) string {
	abs := px
	sign := ""
	if px < 0 {
		abs = -px
		sign = "-"
	}
	if n.Mode == models.ModeStrict {
		if _, exact := n.Spacing.Lookup(float64(abs)); !exact {
			return fmt.Sprintf("%s-[%dpx]", prefix, px)
		}
	}
	return sign + prefix + "-" + scale.FindNearestInScale(float64(abs), n.Spacing)
}

// sizing only recognizes keywords; pixel sizes are left alone.
func (n *Normalizer) sizing(b *builder, st dom.Style) {
	if kw, ok := sizeKeywords[strings.TrimSpace(st.Get("width"))]; ok {
		b.add("width", "w-"+kw)
	}
	h := strings.TrimSpace(st.Get("height"))
	if h == "100vh" {
		b.add("height", "h-screen")
	} else if kw, ok := sizeKeywords[h]; ok {
		b.add("height", "h-"+kw)
	}
}

func (n *Normalizer) typography(b *builder, st dom.Style) {
	fontSize, hasSize := parseFloat(st.Get("font-size"))
	if hasSize && fontSize > 0 {
		b.add("fontSize", scale.FindNearestInScale(fontSize, n.FontSize))
	}

	if w, err := strconv.Atoi(strings.TrimSpace(st.Get("font-weight"))); err == nil {
		b.add("fontWeight", fontWeightTokens[w])
	}

	b.add("textAlign", textAlignTokens[strings.TrimSpace(st.Get("text-align"))])

	lh := strings.TrimSpace(st.Get("line-height"))
	if lh == "" || lh == "normal" {
		return
	}
	v, ok := parseFloat(lh)
	if !ok || v <= 0 {
		return
	}
	ratio := v
	if strings.HasSuffix(lh, "px") {
		if !hasSize || fontSize <= 0 {
			return
		}
		ratio = v / fontSize
	}
	b.add("lineHeight", scale.FindNearestInScale(ratio, n.LineHeight))
}

func (n *Normalizer) colors(b *builder, st dom.Style) {
	if name, ok := n.Palette.FindNearestColor(st.Get("color")); ok {
		b.add("textColor", "text-"+name)
	}
	if name, ok := n.Palette.FindNearestColor(st.Get("background-color")); ok {
		b.add("backgroundColor", "bg-"+name)
	}
}

func (n *Normalizer) borders(b *builder, st dom.Style) {
	radius := st.Get("border-radius")
	if radius == "" {
		radius = st.Get("border-top-left-radius")
	}
	radius = firstField(radius)
	if strings.HasSuffix(radius, "%") {
		if pct, ok := parseFloat(radius); ok && pct >= 50 {
			b.add("borderRadius", "rounded-full")
		}
	} else if r, ok := parseFloat(radius); ok && r > 0 {
		b.add("borderRadius", scale.FindNearestInScale(r, n.Radius))
	}

	switch st.Get("border-top-style") {
	case "none", "hidden":
		return
	}
	width, ok := parseInt(st.Get("border-top-width"))
	if !ok || width <= 0 {
		return
	}
	b.add("borderWidth", borderWidthTokens[width])
	if name, ok := n.Palette.FindNearestColor(st.Get("border-top-color")); ok {
		b.add("borderColor", "border-"+name)
	}
}

func (n *Normalizer) effects(b *builder, st dom.Style) {
	if op, ok := parseFloat(st.Get("opacity")); ok && op >= 0 && op < 1 {
		step := scale.NearestStep(op*100, n.OpacitySteps)
		if step < 100 {
			b.add("opacity", "opacity-"+strconv.Itoa(step))
		}
	}

	if shadow := strings.TrimSpace(st.Get("box-shadow")); shadow != "" && shadow != "none" {
		b.add("boxShadow", "shadow")
	}

	b.add("overflow", overflowTokens[strings.TrimSpace(st.Get("overflow"))])
}

func (n *Normalizer) position(b *builder, st dom.Style) {
	b.add("position", positionTokens[strings.TrimSpace(st.Get("position"))])

	z, err := strconv.Atoi(strings.TrimSpace(st.Get("z-index")))
	if err != nil {
		return
	}
	if step := scale.NearestStep(float64(z), n.ZIndexSteps); step != 0 {
		b.add("zIndex", "z-"+strconv.Itoa(step))
	}
}

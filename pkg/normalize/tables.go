package normalize

var displayTokens = map[string]string{
	"block":        "block",
	"inline":       "inline",
	"inline-block": "inline-block",
	"flex":         "flex",
	"inline-flex":  "inline-flex",
	"grid":         "grid",
	"inline-grid":  "inline-grid",
	"table":        "table",
	"table-row":    "table-row",
	"table-cell":   "table-cell",
	"flow-root":    "flow-root",
	"contents":     "contents",
	"list-item":    "list-item",
	"none":         "hidden",
}

var flexDirectionTokens = map[string]string{
	"row-reverse":    "flex-row-reverse",
	"column":         "flex-col",
	"column-reverse": "flex-col-reverse",
}

var flexWrapTokens = map[string]string{
	"wrap":         "flex-wrap",
	"wrap-reverse": "flex-wrap-reverse",
}

var justifyTokens = map[string]string{
	"flex-start":    "justify-start",
	"start":         "justify-start",
	"center":        "justify-center",
	"flex-end":      "justify-end",
	"end":           "justify-end",
	"space-between": "justify-between",
	"space-around":  "justify-around",
	"space-evenly":  "justify-evenly",
}

var alignItemsTokens = map[string]string{
	"flex-start": "items-start",
	"start":      "items-start",
	"center":     "items-center",
	"flex-end":   "items-end",
	"end":        "items-end",
	"baseline":   "items-baseline",
	"stretch":    "items-stretch",
}

var fontWeightTokens = map[int]string{
	100: "font-thin",
	200: "font-extralight",
	300: "font-light",
	400: "font-normal",
	500: "font-medium",
	600: "font-semibold",
	700: "font-bold",
	800: "font-extrabold",
	900: "font-black",
}

var textAlignTokens = map[string]string{
	"left":    "text-left",
	"center":  "text-center",
	"right":   "text-right",
	"justify": "text-justify",
	"end":     "text-end",
}

var borderWidthTokens = map[int]string{
	1: "border",
	2: "border-2",
	4: "border-4",
	8: "border-8",
}

var overflowTokens = map[string]string{
	"hidden": "overflow-hidden",
	"auto":   "overflow-auto",
	"scroll": "overflow-scroll",
}

var positionTokens = map[string]string{
	"relative": "relative",
	"absolute": "absolute",
	"fixed":    "fixed",
	"sticky":   "sticky",
}

// sizing keywords shared by width and height
var sizeKeywords = map[string]string{
	"100%":        "full",
	"auto":        "auto",
	"fit-content": "fit",
	"max-content": "max",
	"min-content": "min",
}

type side struct {
	prop   string
	prefix string
	detail string
}

var marginSides = []side{
	{"margin-top", "mt", "marginTop"},
	{"margin-right", "mr", "marginRight"},
	{"margin-bottom", "mb", "marginBottom"},
	{"margin-left", "ml", "marginLeft"},
}

var paddingSides = []side{
	{"padding-top", "pt", "paddingTop"},
	{"padding-right", "pr", "paddingRight"},
	{"padding-bottom", "pb", "paddingBottom"},
	{"padding-left", "pl", "paddingLeft"},
}

// Properties lists every computed property the normalizer reads.
// Live capture collects exactly these.
var Properties = []string{
	"display", "flex-direction", "flex-wrap", "justify-content", "align-items",
	"gap", "row-gap", "column-gap", "grid-template-columns",
	"margin-top", "margin-right", "margin-bottom", "margin-left",
	"padding-top", "padding-right", "padding-bottom", "padding-left",
	"width", "height",
	"font-size", "font-weight", "text-align", "line-height",
	"color", "background-color",
	"border-radius", "border-top-left-radius",
	"border-top-width", "border-top-style", "border-top-color",
	"opacity", "box-shadow", "overflow", "position", "z-index",
}

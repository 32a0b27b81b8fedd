package cssom

import (
	"strings"

	"github.com/dtnitsch/ninja-snatch/models"
)

// MediaActive evaluates a media query list against a screen viewport.
// Unknown features are assumed to match.
func MediaActive(prelude string, vp models.Viewport) bool {
	if strings.TrimSpace(prelude) == "" {
		return true
	}

	for _, raw := range strings.Split(prelude, ",") {
		query := strings.ToLower(strings.TrimSpace(raw))
		if query == "" {
			continue
		}

		negate := false
		if strings.HasPrefix(query, "not ") {
			negate = true
			query = strings.TrimSpace(strings.TrimPrefix(query, "not "))
		}
		query = strings.TrimSpace(strings.TrimPrefix(query, "only "))

		mediaType := ""
		rest := query
		if !strings.HasPrefix(query, "(") {
			fields := strings.Fields(query)
			mediaType = fields[0]
			rest = strings.TrimSpace(strings.TrimPrefix(query, mediaType))
			rest = strings.TrimSpace(strings.TrimPrefix(rest, "and"))
		}

		ok := false
		switch mediaType {
		case "", "all", "screen":
			ok = mediaFeatures(rest, vp)
		}
		if ok != negate {
			return true
		}
	}
	return false
}

func mediaFeatures(expr string, vp models.Viewport) bool {
	width := float64(vp.Width)
	height := float64(vp.Height)

	for _, clause := range strings.Split(expr, " and ") {
		c := strings.TrimSpace(clause)
		if c == "" {
			continue
		}
		c = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(c, "("), ")"))
		feature, value, _ := strings.Cut(c, ":")
		feature = strings.TrimSpace(feature)
		value = strings.TrimSpace(value)

		px, hasPx := lengthPx(value, lengthContext{fontSize: baseFontSize, rootFontSize: baseFontSize, viewport: vp})
		switch feature {
		case "min-width":
			if hasPx && width < px {
				return false
			}
		case "max-width":
			if hasPx && width > px {
				return false
			}
		case "min-height":
			if hasPx && height < px {
				return false
			}
		case "max-height":
			if hasPx && height > px {
				return false
			}
		case "orientation":
			orientation := "portrait"
			if width > height {
				orientation = "landscape"
			}
			if value != "" && value != orientation {
				return false
			}
		case "prefers-color-scheme":
			if value != "" && value != "light" {
				return false
			}
		case "prefers-reduced-motion":
			if value != "" && value != "no-preference" {
				return false
			}
		case "hover":
			if value != "" && value != "hover" {
				return false
			}
		}
	}
	return true
}

package snatch

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/emitter"
)

// Format is an output rendering of a snapshot.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
	FormatJSX  Format = "jsx"
)

// ParseFormat validates a user-supplied output format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatHTML, FormatJSX:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q: must be json, yaml, html or jsx", s)
}

// RenderHTML renders snap as a standalone page with its relevant CSS
// embedded. sanitize runs the markup through the output policy.
func RenderHTML(snap *models.Snapshot, sanitize bool) (string, error) {
	if sanitize {
		// the policy drops <style>, so only the fragment is sanitized
		fragment, err := emitter.HTML(snap.Root, emitter.Options{Lang: snap.Metadata.Language})
		if err != nil {
			return "", err
		}
		return emitter.Sanitize(fragment), nil
	}
	return emitter.HTML(snap.Root, emitter.Options{
		Lang:       snap.Metadata.Language,
		Standalone: true,
		Title:      snap.Metadata.Title,
		CSS:        snap.CSS,
	})
}

// Render encodes snap in the requested format.
func Render(snap *models.Snapshot, f Format, sanitize bool) (string, error) {
	switch f {
	case FormatYAML:
		out, err := yaml.Marshal(snap)
		if err != nil {
			return "", fmt.Errorf("failed to encode yaml: %w", err)
		}
		return string(out), nil
	case FormatHTML:
		return RenderHTML(snap, sanitize)
	case FormatJSX:
		return emitter.JSX(snap.Root, emitter.DefaultComponentName), nil
	default:
		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode json: %w", err)
		}
		return string(out) + "\n", nil
	}
}

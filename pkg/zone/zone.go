// Package zone defines the template binding for card personalization:
// which rectangular regions of a template document get erased and refilled
// with recipient content, and how.
//
// A template binding is a Config holding an ordered list of Zones. Each Zone
// names one rectangle on one page in template coordinate space (typographic
// points), together with a MaskConfig describing how pre-printed placeholder
// content inside the rectangle is removed and a TextConfig describing how
// recipient text is rendered into it. Configs are built once per template
// and stay immutable for the duration of a batch run.
//
// The package also provides the pixel-space geometry: mapping a Zone onto a
// rasterized page image at a given resolution (PixelRect) and building the
// binary coverage mask that bounds every edit to the zone.
package zone

import (
	"fmt"
	"image/color"
	"strings"
)

// MaskMode selects the erasure strategy for a zone.
type MaskMode string

const (
	MaskModeSolid      MaskMode = "solid"       // Fill with a manually chosen color
	MaskModeAuto       MaskMode = "auto"        // Infer solid fill vs. inpainting from the surroundings
	MaskModeMagicErase MaskMode = "magic-erase" // Remove detected ink strokes only, keep background texture
	MaskModeNone       MaskMode = "none"        // Never erase; content may still be drawn over the original
)

// Align is the horizontal placement of rendered content inside a zone.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// VAlign is the vertical placement of rendered content inside a zone.
type VAlign string

const (
	VAlignTop    VAlign = "top"
	VAlignMiddle VAlign = "middle"
	VAlignBottom VAlign = "bottom"
)

// Kind selects what a zone renders for a recipient value.
type Kind string

const (
	KindText Kind = "text" // Fitted text (default)
	KindQR   Kind = "qr"   // QR code encoding the raw value
)

// MaskConfig controls how existing content inside a zone is removed.
type MaskConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`                     // Erase at all; false leaves original pixels
	Mode    MaskMode `json:"mode" yaml:"mode"`                           // Strategy; empty defaults to auto
	Color   string   `json:"color,omitempty" yaml:"color,omitempty"`     // Manual fill override as #RRGGBB; wins over Mode
	Padding int      `json:"padding,omitempty" yaml:"padding,omitempty"` // Advisory extra pixels around the rect
}

// DefaultMaskConfig returns the mask settings used when a zone does not
// specify its own: erasure on, strategy inferred from the background.
func DefaultMaskConfig() MaskConfig {
	return MaskConfig{
		Enabled: true,
		Mode:    MaskModeAuto,
	}
}

// TextConfig controls how recipient text is rendered into a zone.
type TextConfig struct {
	Font   string  `json:"font_family,omitempty" yaml:"font_family,omitempty"` // Font family name; empty picks any registered face
	Size   float64 `json:"font_size" yaml:"font_size"`                         // Nominal size in template points
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`             // Text color as #RRGGBB; empty is black
	Align  Align   `json:"align,omitempty" yaml:"align,omitempty"`             // Horizontal placement; empty is center
	VAlign VAlign  `json:"valign,omitempty" yaml:"valign,omitempty"`           // Vertical placement; empty is middle
}

// DefaultTextConfig returns the text settings used when a zone does not
// specify its own.
func DefaultTextConfig() TextConfig {
	return TextConfig{
		Size:   16,
		Color:  "#000000",
		Align:  AlignCenter,
		VAlign: VAlignMiddle,
	}
}

// Zone is one personalized rectangle on one template page. The rectangle is
// expressed in template coordinate space (points, origin top-left). A zone
// with zero width or height is inert: it never modifies pixels.
type Zone struct {
	ID   string  `json:"id" yaml:"id"`     // Unique within the template
	Page int     `json:"page" yaml:"page"` // 1-based page number
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	W    float64 `json:"width" yaml:"width"`
	H    float64 `json:"height" yaml:"height"`
	Kind Kind    `json:"kind,omitempty" yaml:"kind,omitempty"` // Content kind; empty is text

	Mask MaskConfig `json:"mask" yaml:"mask"`
	Text TextConfig `json:"text" yaml:"text"`
}

// Config binds a template document to its zones and output naming rules.
type Config struct {
	TemplateID     string `json:"template_id" yaml:"template_id"`
	DocPath        string `json:"doc_path" yaml:"doc_path"`
	Zones          []Zone `json:"zones" yaml:"zones"`
	OutputTemplate string `json:"output_template,omitempty" yaml:"output_template,omitempty"` // Filename template; {name} is replaced per row
	NameColumn     string `json:"name_column,omitempty" yaml:"name_column,omitempty"`         // Column used to derive the output name
}

// DefaultOutputTemplate names each output document after the derived
// recipient name.
const DefaultOutputTemplate = "{name}.pdf"

// ZoneByID looks up a zone by identifier.
func (c *Config) ZoneByID(id string) (*Zone, bool) {
	for i := range c.Zones {
		if c.Zones[i].ID == id {
			return &c.Zones[i], true
		}
	}
	return nil, false
}

// Normalize fills defaulted fields in place: empty mask modes become auto,
// empty alignments become center/middle, empty kinds become text, and a
// missing output template becomes DefaultOutputTemplate.
func (c *Config) Normalize() {
	if c.OutputTemplate == "" {
		c.OutputTemplate = DefaultOutputTemplate
	}
	for i := range c.Zones {
		z := &c.Zones[i]
		if z.Kind == "" {
			z.Kind = KindText
		}
		if z.Mask.Mode == "" {
			z.Mask.Mode = MaskModeAuto
		}
		if z.Text.Align == "" {
			z.Text.Align = AlignCenter
		}
		if z.Text.VAlign == "" {
			z.Text.VAlign = VAlignMiddle
		}
		if z.Text.Size <= 0 {
			z.Text.Size = DefaultTextConfig().Size
		}
	}
}

// Validate checks structural soundness of the binding: non-empty unique zone
// identifiers, positive page numbers, non-negative extents and parseable
// colors. It does not check page numbers against the actual document; that
// happens per row once the page count is known.
func (c *Config) Validate() error {
	if len(c.Zones) == 0 {
		return fmt.Errorf("config %q has no zones", c.TemplateID)
	}
	seen := make(map[string]struct{}, len(c.Zones))
	for i := range c.Zones {
		z := &c.Zones[i]
		if z.ID == "" {
			return fmt.Errorf("zone %d has an empty id", i)
		}
		if _, dup := seen[z.ID]; dup {
			return fmt.Errorf("duplicate zone id %q", z.ID)
		}
		seen[z.ID] = struct{}{}
		if z.Page < 1 {
			return fmt.Errorf("zone %q: page must be 1-based, got %d", z.ID, z.Page)
		}
		if z.W < 0 || z.H < 0 {
			return fmt.Errorf("zone %q: negative extent %gx%g", z.ID, z.W, z.H)
		}
		switch z.Mask.Mode {
		case MaskModeSolid, MaskModeAuto, MaskModeMagicErase, MaskModeNone, "":
		default:
			return fmt.Errorf("zone %q: unknown mask mode %q", z.ID, z.Mask.Mode)
		}
		if z.Mask.Color != "" {
			if _, err := ParseHexColor(z.Mask.Color); err != nil {
				return fmt.Errorf("zone %q: %w", z.ID, err)
			}
		}
		if z.Text.Color != "" {
			if _, err := ParseHexColor(z.Text.Color); err != nil {
				return fmt.Errorf("zone %q: %w", z.ID, err)
			}
		}
	}
	return nil
}

// ParseHexColor parses a #RRGGBB or #RGB color string. The leading '#' is
// optional and hex digits are case-insensitive.
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	switch len(h) {
	case 6:
		if _, err := fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
	case 3:
		if _, err := fmt.Sscanf(h, "%1x%1x%1x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
		r, g, b = r*17, g*17, b*17
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

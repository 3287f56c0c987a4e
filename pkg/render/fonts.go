package render

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FontCache loads TrueType/OpenType fonts from disk, resolves family names
// against their name tables and hands out cached faces at requested pixel
// sizes. Lookups that resolve nothing degrade to a built-in bitmap face so
// text rendering never fails outright.
//
// Safe for concurrent use.
type FontCache struct {
	mu       sync.RWMutex
	fonts    map[string]*loadedFont // keyed by lowercase family name
	faces    map[faceKey]font.Face
	fallback string // family used when a requested one is unknown
}

type loadedFont struct {
	font   *opentype.Font
	family string
}

type faceKey struct {
	family string
	sizePx int
}

// NewFontCache returns an empty cache.
func NewFontCache() *FontCache {
	return &FontCache{
		fonts: make(map[string]*loadedFont),
		faces: make(map[faceKey]font.Face),
	}
}

// RegisterData parses raw TTF/OTF bytes and registers the font under its
// family name from the name table.
func (c *FontCache) RegisterData(data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	family, err := f.Name(nil, sfnt.NameIDFamily)
	if err != nil || family == "" {
		family, err = f.Name(nil, sfnt.NameIDFull)
		if err != nil || family == "" {
			return fmt.Errorf("font has no usable family name")
		}
	}
	key := strings.ToLower(family)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.fonts[key]; !exists {
		c.fonts[key] = &loadedFont{font: f, family: family}
		if c.fallback == "" {
			c.fallback = key
		}
	}
	return nil
}

// LoadDir walks a directory tree and registers every .ttf and .otf file it
// can parse, returning how many fonts were added. Unreadable or malformed
// files are skipped.
func (c *FontCache) LoadDir(dir string) int {
	added := 0
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ttf", ".otf":
		default:
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if c.RegisterData(data) == nil {
			added++
		}
		return nil
	})
	return added
}

// LoadSystemFonts registers every font found in the platform's usual font
// directories and returns the count.
func (c *FontCache) LoadSystemFonts() int {
	added := 0
	for _, dir := range systemFontDirs() {
		added += c.LoadDir(dir)
	}
	return added
}

// Families lists the registered family names.
func (c *FontCache) Families() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.fonts))
	for _, lf := range c.fonts {
		out = append(out, lf.family)
	}
	return out
}

// Face returns a face for the family at the given pixel size. Resolution
// order: exact family match, substring match, the first registered family,
// and finally the built-in bitmap face.
func (c *FontCache) Face(family string, sizePx int) font.Face {
	if sizePx < 1 {
		sizePx = 1
	}
	resolved := c.resolve(family)
	if resolved == "" {
		return basicfont.Face7x13
	}
	key := faceKey{family: resolved, sizePx: sizePx}

	c.mu.RLock()
	if face, ok := c.faces[key]; ok {
		c.mu.RUnlock()
		return face
	}
	lf := c.fonts[resolved]
	c.mu.RUnlock()

	face, err := opentype.NewFace(lf.font, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72, // 1pt == 1px, sizes are pixels
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	c.mu.Lock()
	c.faces[key] = face
	c.mu.Unlock()
	return face
}

func (c *FontCache) resolve(family string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.fonts) == 0 {
		return ""
	}
	want := strings.ToLower(strings.TrimSpace(family))
	if want != "" {
		if _, ok := c.fonts[want]; ok {
			return want
		}
		for key := range c.fonts {
			if strings.Contains(key, want) || strings.Contains(want, key) {
				return key
			}
		}
	}
	return c.fallback
}

func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/System/Library/Fonts",
			"/Library/Fonts",
			filepath.Join(home, "Library", "Fonts"),
		}
	case "windows":
		return []string{`C:\Windows\Fonts`}
	default:
		return []string{
			"/usr/share/fonts",
			"/usr/local/share/fonts",
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
		}
	}
}

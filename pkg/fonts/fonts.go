// Package fonts provides the font used for atom labels.
//
// The Go Regular face ships with golang.org/x/image, so labels render the
// same everywhere without system fonts. The SVG renderer can embed it as a
// base64 data URL; the PNG renderer rasterizes it through freetype.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family name of the embedded face.
const FontFamily = "Go Regular"

// FallbackFontFamily lists fallbacks for viewers that ignore @font-face.
const FallbackFontFamily = `'Go Regular', Helvetica, Arial, sans-serif`

// RegularTTF returns the TTF font data.
func RegularTTF() []byte {
	return goregular.TTF
}

// Cache for the base64-encoded font (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// RegularTTFBase64 returns the TTF font data as a base64 string.
// The result is cached after first computation.
func RegularTTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

var (
	parsed     *truetype.Font
	parsedErr  error
	parsedOnce sync.Once
)

// Regular returns the parsed font.
func Regular() (*truetype.Font, error) {
	parsedOnce.Do(func() {
		parsed, parsedErr = truetype.Parse(goregular.TTF)
		if parsedErr != nil {
			parsedErr = fmt.Errorf("parse go regular: %w", parsedErr)
		}
	})
	return parsed, parsedErr
}

// Face returns a font face of the given size in points at 72 DPI, so one
// point equals one layout unit.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

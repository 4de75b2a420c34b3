package label

import (
	"fmt"
	"html"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// barHeight is the symbol height in modules; the page scales it to fit.
const barHeight = 40

// BarcodeSVG renders value as a Code 128 symbol, one rect per dark bar run.
// Values outside the Code 128 character set return an error.
func BarcodeSVG(value string) (string, error) {
	symbol, err := code128.Encode(value)
	if err != nil {
		return "", fmt.Errorf("label: encode barcode %q: %w", value, err)
	}
	return symbolSVG(symbol, value), nil
}

func symbolSVG(symbol barcode.Barcode, value string) string {
	width := symbol.Bounds().Dx()

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="barcode-symbol" viewBox="0 0 %d %d" preserveAspectRatio="none" shape-rendering="crispEdges" role="img" aria-label="%s" data-modules="%d">`,
		width, barHeight, html.EscapeString(value), width)
	for x := 0; x < width; {
		if !dark(symbol, x) {
			x++
			continue
		}
		start := x
		for x < width && dark(symbol, x) {
			x++
		}
		fmt.Fprintf(&b, `<rect x="%d" y="0" width="%d" height="%d"/>`, start, x-start, barHeight)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func dark(symbol barcode.Barcode, x int) bool {
	r, g, bl, _ := symbol.At(x, 0).RGBA()
	return r+g+bl < 3*0x8000
}

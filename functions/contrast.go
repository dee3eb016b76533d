package functions

import (
	"math"
	"strconv"
	"strings"

	"brandscrape/models"
)

func srgbToLinear(c float64) float64 {
	c = c / 255.0
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// RelativeLuminance implements the WCAG 2.x formula.
func RelativeLuminance(rgb [3]int) float64 {
	return 0.2126*srgbToLinear(float64(rgb[0])) +
		0.7152*srgbToLinear(float64(rgb[1])) +
		0.0722*srgbToLinear(float64(rgb[2]))
}

// ContrastRatio is (lighter + 0.05) / (darker + 0.05); ranges 1 to 21.
func ContrastRatio(a, b [3]int) float64 {
	l1 := RelativeLuminance(a)
	l2 := RelativeLuminance(b)
	lighter := math.Max(l1, l2)
	darker := math.Min(l1, l2)
	return (lighter + 0.05) / (darker + 0.05)
}

// HexToRGB accepts #rgb and #rrggbb forms.
func HexToRGB(hexColor string) ([3]int, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hexColor), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return [3]int{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return [3]int{}, false
	}
	return [3]int{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}, true
}

// BuildContrastChecks tests black and white text against the leading
// palette colors as candidate backgrounds. Pass/fail uses the exact
// ratio; the reported ratio is rounded to two decimals.
func BuildContrastChecks(paletteHex []string) []models.ContrastCheck {
	checks := []models.ContrastCheck{}
	foregrounds := []string{"#000000", "#FFFFFF"}

	if len(paletteHex) > 8 {
		paletteHex = paletteHex[:8]
	}
	for _, bg := range paletteHex {
		bgRGB, ok := HexToRGB(bg)
		if !ok {
			continue
		}
		for _, fg := range foregrounds {
			fgRGB, _ := HexToRGB(fg)
			ratio := ContrastRatio(fgRGB, bgRGB)
			checks = append(checks, models.ContrastCheck{
				FG:        fg,
				BG:        bg,
				Ratio:     math.Round(ratio*100) / 100,
				PassesAA:  ratio >= 4.5,
				PassesAAA: ratio >= 7.0,
			})
		}
	}
	return checks
}

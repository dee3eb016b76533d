package functions

import (
	"regexp"
	"strings"

	"brandscrape/models"
	"brandscrape/utils"
)

var (
	cssVarRe     = regexp.MustCompile(`(--[\w-]+)\s*:\s*([^;}{]+)\s*;`)
	fontFamilyRe = regexp.MustCompile(`(?i)font-family\s*:\s*([^;}{]+)\s*;`)
	fontSizeRe   = regexp.MustCompile(`(?i)font-size\s*:\s*([^;}{]+)\s*;`)
	fontWeightRe = regexp.MustCompile(`(?i)font-weight\s*:\s*([^;}{]+)\s*;`)
	lineHeightRe = regexp.MustCompile(`(?i)line-height\s*:\s*([^;}{]+)\s*;`)
	hexColorRe   = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b`)
	rgbColorRe   = regexp.MustCompile(`(?i)rgba?\([^)]+\)`)
)

const (
	maxCSSVars     = 500
	maxFontTokens  = 200
	maxColorTokens = 500
)

// ParseCSSTokens harvests custom properties, typography declarations
// and color literals from one stylesheet body.
func ParseCSSTokens(cssText string) models.CSSTokens {
	vars := make(map[string]string)
	for _, m := range cssVarRe.FindAllStringSubmatch(cssText, -1) {
		if _, seen := vars[m[1]]; !seen && len(vars) >= maxCSSVars {
			break
		}
		vars[m[1]] = strings.TrimSpace(m[2])
	}

	colors := append(hexColorRe.FindAllString(cssText, -1), rgbColorRe.FindAllString(cssText, -1)...)

	return models.CSSTokens{
		CSSVars:       vars,
		FontFamilies:  capList(utils.Dedupe(submatches(fontFamilyRe, cssText)), maxFontTokens),
		FontSizes:     capList(utils.Dedupe(submatches(fontSizeRe, cssText)), maxFontTokens),
		FontWeights:   capList(utils.Dedupe(submatches(fontWeightRe, cssText)), maxFontTokens),
		LineHeights:   capList(utils.Dedupe(submatches(lineHeightRe, cssText)), maxFontTokens),
		ColorLiterals: capList(utils.Dedupe(colors), maxColorTokens),
	}
}

// MergeTypography folds per-stylesheet tokens into one deduplicated
// summary; stylesheets that failed to fetch contribute nothing.
func MergeTypography(tokens []models.CSSTokens) models.Typography {
	var families, sizes, weights, lines []string
	for _, t := range tokens {
		if t.Error != "" {
			continue
		}
		families = append(families, t.FontFamilies...)
		sizes = append(sizes, t.FontSizes...)
		weights = append(weights, t.FontWeights...)
		lines = append(lines, t.LineHeights...)
	}
	return models.Typography{
		FontFamilies: capList(utils.Dedupe(families), maxFontTokens),
		FontSizes:    capList(utils.Dedupe(sizes), maxFontTokens),
		FontWeights:  capList(utils.Dedupe(weights), maxFontTokens),
		LineHeights:  capList(utils.Dedupe(lines), maxFontTokens),
	}
}

func submatches(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

func capList(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}

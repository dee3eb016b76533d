package functions

import (
	"reflect"
	"testing"

	"brandscrape/models"
)

func TestParseCSSTokens(t *testing.T) {
	css := `
	:root {
		--brand-primary: #0057ff;
		--brand-secondary: rgb(240, 240, 240);
	}
	h1 {
		font-family: "Inter", sans-serif;
		font-size: 2.5rem;
		font-weight: 700;
		line-height: 1.2;
		color: #0057ff;
	}
	p {
		font-size: 1rem;
		color: rgba(0, 0, 0, 0.8);
	}`

	tokens := ParseCSSTokens(css)

	if got := tokens.CSSVars["--brand-primary"]; got != "#0057ff" {
		t.Errorf("expected var value #0057ff, got %q", got)
	}
	if got := tokens.CSSVars["--brand-secondary"]; got != "rgb(240, 240, 240)" {
		t.Errorf("expected rgb var value, got %q", got)
	}

	if want := []string{`"Inter", sans-serif`}; !reflect.DeepEqual(tokens.FontFamilies, want) {
		t.Errorf("font families: expected %v, got %v", want, tokens.FontFamilies)
	}
	if want := []string{"2.5rem", "1rem"}; !reflect.DeepEqual(tokens.FontSizes, want) {
		t.Errorf("font sizes: expected %v, got %v", want, tokens.FontSizes)
	}
	if want := []string{"700"}; !reflect.DeepEqual(tokens.FontWeights, want) {
		t.Errorf("font weights: expected %v, got %v", want, tokens.FontWeights)
	}
	if want := []string{"1.2"}; !reflect.DeepEqual(tokens.LineHeights, want) {
		t.Errorf("line heights: expected %v, got %v", want, tokens.LineHeights)
	}

	wantColors := []string{"#0057ff", "rgb(240, 240, 240)", "rgba(0, 0, 0, 0.8)"}
	if !reflect.DeepEqual(tokens.ColorLiterals, wantColors) {
		t.Errorf("colors: expected %v, got %v", wantColors, tokens.ColorLiterals)
	}
}

func TestParseCSSTokens_DedupesRepeats(t *testing.T) {
	css := `a { color: #fff; } b { color: #fff; } c { font-size: 1rem; } d { font-size: 1rem; }`

	tokens := ParseCSSTokens(css)
	if len(tokens.ColorLiterals) != 1 {
		t.Errorf("expected one color, got %v", tokens.ColorLiterals)
	}
	if len(tokens.FontSizes) != 1 {
		t.Errorf("expected one size, got %v", tokens.FontSizes)
	}
}

func TestMergeTypography_SkipsFailedStylesheets(t *testing.T) {
	tokens := []models.CSSTokens{
		{
			CSSURL:       "https://a.example/main.css",
			FontFamilies: []string{"Inter"},
			FontSizes:    []string{"1rem", "2rem"},
		},
		{
			CSSURL: "https://a.example/broken.css",
			Error:  "fetch failed",
			// stale values must not leak into the summary
			FontFamilies: []string{"Comic Sans"},
		},
		{
			CSSURL:       "https://a.example/theme.css",
			FontFamilies: []string{"Inter", "Georgia"},
			FontWeights:  []string{"400"},
		},
	}

	typ := MergeTypography(tokens)

	if want := []string{"Inter", "Georgia"}; !reflect.DeepEqual(typ.FontFamilies, want) {
		t.Errorf("families: expected %v, got %v", want, typ.FontFamilies)
	}
	if want := []string{"1rem", "2rem"}; !reflect.DeepEqual(typ.FontSizes, want) {
		t.Errorf("sizes: expected %v, got %v", want, typ.FontSizes)
	}
	if want := []string{"400"}; !reflect.DeepEqual(typ.FontWeights, want) {
		t.Errorf("weights: expected %v, got %v", want, typ.FontWeights)
	}
}

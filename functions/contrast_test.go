package functions

import (
	"math"
	"testing"
)

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		hex  string
		want [3]int
		ok   bool
	}{
		{"#000000", [3]int{0, 0, 0}, true},
		{"#FFFFFF", [3]int{255, 255, 255}, true},
		{"#0057ff", [3]int{0, 87, 255}, true},
		{"#fff", [3]int{255, 255, 255}, true},
		{" #abc ", [3]int{170, 187, 204}, true},
		{"#12345", [3]int{}, false},
		{"red", [3]int{}, false},
	}

	for _, tt := range tests {
		got, ok := HexToRGB(tt.hex)
		if ok != tt.ok {
			t.Errorf("HexToRGB(%q): expected ok=%v, got %v", tt.hex, tt.ok, ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("HexToRGB(%q): expected %v, got %v", tt.hex, tt.want, got)
		}
	}
}

func TestContrastRatio_BlackOnWhite(t *testing.T) {
	black := [3]int{0, 0, 0}
	white := [3]int{255, 255, 255}

	ratio := ContrastRatio(black, white)
	if math.Abs(ratio-21.0) > 0.001 {
		t.Fatalf("expected 21.0, got %v", ratio)
	}
	// symmetric
	if ContrastRatio(white, black) != ratio {
		t.Fatal("ratio must not depend on argument order")
	}
}

func TestContrastRatio_SameColorIsOne(t *testing.T) {
	gray := [3]int{128, 128, 128}
	if ratio := ContrastRatio(gray, gray); math.Abs(ratio-1.0) > 0.001 {
		t.Fatalf("expected 1.0, got %v", ratio)
	}
}

func TestBuildContrastChecks(t *testing.T) {
	checks := BuildContrastChecks([]string{"#FFFFFF", "#0057ff", "not-a-color"})

	// two foregrounds per parseable background
	if len(checks) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(checks))
	}

	byPair := map[[2]string]int{}
	for i, c := range checks {
		byPair[[2]string{c.FG, c.BG}] = i
	}

	blackOnWhite := checks[byPair[[2]string{"#000000", "#FFFFFF"}]]
	if blackOnWhite.Ratio != 21.0 {
		t.Errorf("black on white: expected 21.0, got %v", blackOnWhite.Ratio)
	}
	if !blackOnWhite.PassesAA || !blackOnWhite.PassesAAA {
		t.Errorf("black on white must pass both levels: %+v", blackOnWhite)
	}

	whiteOnWhite := checks[byPair[[2]string{"#FFFFFF", "#FFFFFF"}]]
	if whiteOnWhite.PassesAA || whiteOnWhite.PassesAAA {
		t.Errorf("white on white must fail both levels: %+v", whiteOnWhite)
	}
	if whiteOnWhite.Ratio != 1.0 {
		t.Errorf("white on white: expected 1.0, got %v", whiteOnWhite.Ratio)
	}
}

func TestBuildContrastChecks_CapsBackgrounds(t *testing.T) {
	var palette []string
	for i := 0; i < 12; i++ {
		palette = append(palette, "#336699")
	}
	checks := BuildContrastChecks(palette)
	if len(checks) != 16 {
		t.Fatalf("expected 8 backgrounds x 2 foregrounds, got %d", len(checks))
	}
}

func TestBuildContrastChecks_EmptyPalette(t *testing.T) {
	checks := BuildContrastChecks(nil)
	if checks == nil {
		t.Fatal("expected non-nil slice")
	}
	if len(checks) != 0 {
		t.Fatalf("expected no checks, got %d", len(checks))
	}
}

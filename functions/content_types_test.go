package functions

import "testing"

func TestResolveExtension(t *testing.T) {
	tests := []struct {
		contentType string
		url         string
		want        string
	}{
		{"image/png", "https://a.example/x", "png"},
		{"image/jpeg", "https://a.example/x", "jpg"},
		{"IMAGE/PNG", "https://a.example/x", "png"},
		{"image/png; charset=binary", "https://a.example/x", "png"},
		{"video/mp4", "https://a.example/x", "mp4"},
		{"application/vnd.apple.mpegurl", "https://a.example/x", "m3u8"},
		{"application/x-mpegurl", "https://a.example/x", "m3u8"},
		// unknown type, URL suffix decides
		{"", "https://a.example/photo.jpeg", "jpg"},
		{"application/octet-stream", "https://a.example/hero.webp?v=2", "webp"},
		{"binary/data", "https://a.example/clip.webm", "webm"},
		// nothing to go on
		{"text/html", "https://a.example/page", ""},
		{"", "https://a.example/page", ""},
	}

	for _, tt := range tests {
		if got := ResolveExtension(tt.contentType, tt.url); got != tt.want {
			t.Errorf("ResolveExtension(%q, %q): expected %q, got %q", tt.contentType, tt.url, tt.want, got)
		}
	}
}

func TestIsRasterExt(t *testing.T) {
	for _, ext := range []string{"png", "jpg", "jpeg", "webp", "gif", "PNG"} {
		if !isRasterExt(ext) {
			t.Errorf("expected %q to be raster", ext)
		}
	}
	for _, ext := range []string{"mp4", "webm", "m3u8", "svg", ""} {
		if isRasterExt(ext) {
			t.Errorf("expected %q not to be raster", ext)
		}
	}
}

func TestIsRasterPath(t *testing.T) {
	if !isRasterPath("/out/acme.com/assets/img_0.png") {
		t.Error("expected png path to be raster")
	}
	if isRasterPath("/out/acme.com/assets/acme.com_logo.svg") {
		t.Error("expected svg path not to be raster")
	}
}

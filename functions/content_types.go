package functions

import (
	"path/filepath"
	"strings"
)

// mimeExtensions maps declared content types to file extensions.
var mimeExtensions = map[string]string{
	"image/png":                     "png",
	"image/jpeg":                    "jpg",
	"image/jpg":                     "jpg",
	"image/webp":                    "webp",
	"image/gif":                     "gif",
	"video/mp4":                     "mp4",
	"video/webm":                    "webm",
	"application/vnd.apple.mpegurl": "m3u8",
	"application/x-mpegurl":         "m3u8",
}

// URL-suffix fallback, in probe order; jpeg normalizes to jpg.
var urlExtensions = []string{"png", "jpg", "jpeg", "webp", "gif", "mp4", "webm", "m3u8"}

var rasterExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"webp": true,
	"gif":  true,
}

// ResolveExtension maps a declared content type to a file extension,
// falling back to the URL suffix when the type is absent or unknown.
// "" means unsupported: callers keep the raw bytes under a generic
// name but skip type-specific processing.
func ResolveExtension(contentType, fallbackURL string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ext, ok := mimeExtensions[ct]; ok {
		return ext
	}

	ul := strings.ToLower(fallbackURL)
	for _, ext := range urlExtensions {
		if strings.Contains(ul, "."+ext) {
			if ext == "jpeg" {
				return "jpg"
			}
			return ext
		}
	}
	return ""
}

func isRasterExt(ext string) bool {
	return rasterExtensions[strings.ToLower(ext)]
}

func isRasterPath(path string) bool {
	return isRasterExt(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

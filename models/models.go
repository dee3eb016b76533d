package models

import "encoding/json"

// VideoEmbed describes a video reference that is not itself a
// downloadable file: either a third-party player embed or a meta-tag
// declaration. Type tells which fields are set.
type VideoEmbed struct {
	Type     string `json:"type"`
	UUID     string `json:"uuid,omitempty"`
	EmbedURL string `json:"embedUrl,omitempty"`
	ThumbURL string `json:"thumbUrl,omitempty"`
	Property string `json:"property,omitempty"`
	URL      string `json:"url,omitempty"`
}

// AssetBundle is the result of one extraction pass over rendered HTML.
type AssetBundle struct {
	Title          string       `json:"title"`
	H1             string       `json:"h1"`
	LogoURL        string       `json:"logo_url"`
	LogoInlineSVG  string       `json:"logo_inline_svg"`
	ImageURLs      []string     `json:"image_urls"`
	StylesheetURLs []string     `json:"stylesheet_urls"`
	ScriptURLs     []string     `json:"script_urls"`
	VideoURLs      []string     `json:"video_urls"`
	VideoEmbeds    []VideoEmbed `json:"video_embeds"`
	IframeURLs     []string     `json:"iframe_urls"`
}

// FetchResult records one HTTP retrieval. Bytes never exceeds MaxBytes
// when Capped is set.
type FetchResult struct {
	RequestedURL string `json:"requested_url"`
	FinalURL     string `json:"final_url,omitempty"`
	Status       int    `json:"status,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
	Bytes        int64  `json:"bytes"`
	Capped       bool   `json:"capped,omitempty"`
	MaxBytes     int64  `json:"max_bytes,omitempty"`
	Path         string `json:"path,omitempty"`
}

// DownloadOutcome ties a requested asset URL to exactly one result.
// Failed requests carry Reason or Error; they are never dropped.
type DownloadOutcome struct {
	FetchResult
	OK        bool   `json:"ok"`
	Extension string `json:"extension,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ImagePalette pairs a downloaded image with its vibrant color set.
type ImagePalette struct {
	DownloadedPath string          `json:"downloadedPath"`
	Vibrant        json.RawMessage `json:"vibrant"`
}

// CSSTokens holds what the regex harvest found in one stylesheet.
type CSSTokens struct {
	CSSURL        string            `json:"css_url"`
	Error         string            `json:"error,omitempty"`
	CSSVars       map[string]string `json:"css_vars,omitempty"`
	FontFamilies  []string          `json:"fontFamilies,omitempty"`
	FontSizes     []string          `json:"fontSizes,omitempty"`
	FontWeights   []string          `json:"fontWeights,omitempty"`
	LineHeights   []string          `json:"lineHeights,omitempty"`
	ColorLiterals []string          `json:"colorLiterals,omitempty"`
}

// Typography is the merged, deduplicated view across stylesheets.
type Typography struct {
	FontFamilies []string `json:"fontFamilies"`
	FontSizes    []string `json:"fontSizes"`
	FontWeights  []string `json:"fontWeights"`
	LineHeights  []string `json:"lineHeights"`
}

type ContrastCheck struct {
	FG        string  `json:"fg"`
	BG        string  `json:"bg"`
	Ratio     float64 `json:"ratio"`
	PassesAA  bool    `json:"passesAA"`
	PassesAAA bool    `json:"passesAAA"`
}

type ReportMeta struct {
	Engine    string `json:"engine"`
	ScrapedAt string `json:"scrapedAt"`
	URL       string `json:"url"`
	Host      string `json:"host"`
}

type ReportPage struct {
	Title string `json:"title"`
	H1    string `json:"h1"`
}

type ReportAssets struct {
	PageHTMLPath      string            `json:"pageHtmlPath"`
	ScreenshotPath    string            `json:"screenshotPath"`
	ScreenshotSha256  string            `json:"screenshotSha256,omitempty"`
	LogoURL           string            `json:"logoUrl,omitempty"`
	LogoPath          string            `json:"logoPath,omitempty"`
	LogoMeta          *DownloadOutcome  `json:"logoMeta,omitempty"`
	LogoInlineSVGPath string            `json:"logoInlineSvgPath,omitempty"`
	Images            []DownloadOutcome `json:"images"`
	Videos            []string          `json:"videos"`
	DownloadedVideos  []DownloadOutcome `json:"downloadedVideos"`
	VideoEmbeds       []VideoEmbed      `json:"videoEmbeds"`
	Iframes           []string          `json:"iframes"`
	Stylesheets       []string          `json:"stylesheets"`
	Scripts           []string          `json:"scripts"`
}

type ReportPalette struct {
	FromScreenshot json.RawMessage `json:"fromScreenshot,omitempty"`
	FromLogo       json.RawMessage `json:"fromLogo,omitempty"`
}

type CSSSection struct {
	Tokens []CSSTokens `json:"tokens"`
}

// ZenrowsSection carries the raw render-service JSON envelope for
// debugging, or the error that prevented capturing it.
type ZenrowsSection struct {
	RawJSONResponse json.RawMessage `json:"raw_json_response,omitempty"`
	Error           string          `json:"error,omitempty"`
}

// BrandReport is the full report written to report.json per run.
type BrandReport struct {
	Meta            ReportMeta              `json:"meta"`
	Page            ReportPage              `json:"page"`
	Assets          ReportAssets            `json:"assets"`
	Palette         ReportPalette           `json:"palette"`
	PalettesByImage map[string]ImagePalette `json:"palettesByImageUrl"`
	CSS             CSSSection              `json:"css"`
	Typography      Typography              `json:"typography"`
	ContrastChecks  []ContrastCheck         `json:"contrastChecks"`
	Zenrows         ZenrowsSection          `json:"zenrows"`
}

package functions

import (
	"fmt"
	"net/url"
	"strings"

	"brandscrape/models"
	"brandscrape/utils"

	"github.com/PuerkitoBio/goquery"
)

// Lazy-loading attributes seen on <video> elements in the wild; the
// data-d*/data-t*/data-m* names are responsive-breakpoint variants.
var videoLazyAttrs = []string{
	"data-src",
	"data-source",
	"data-video",
	"data-video-src",
	"data-mp4",
	"data-webm",
	"data-d1600",
	"data-t768",
	"data-m521",
	"data-m415",
	"data-m",
}

var videoExtensions = []string{".mp4", ".webm", ".m3u8", ".mov"}

var videoMetaProps = map[string]bool{
	"og:video":              true,
	"og:video:url":          true,
	"twitter:player":        true,
	"twitter:player:stream": true,
}

type embedProvider struct {
	Name        string
	Attr        string
	URLTemplate string
}

// embedProviders maps a marker attribute to the public player URL its
// token plugs into. Adding a provider is a new table entry.
var embedProviders = []embedProvider{
	{Name: "vidyard", Attr: "data-vid-uuid", URLTemplate: "https://play.vidyard.com/%s.html"},
}

// collectVideos merges four discovery strategies: <video> elements and
// their lazy attributes, anchor hrefs, provider embed markers, and
// meta-tag declarations. Direct URLs are deduplicated across all four;
// embed entries accumulate as found.
func collectVideos(doc *goquery.Document, base *url.URL) ([]string, []models.VideoEmbed) {
	var direct []string
	embeds := []models.VideoEmbed{}

	addDirect := func(raw string) {
		full := utils.ResolveURL(raw, base)
		if full == "" || !hasVideoExtension(full) {
			return
		}
		direct = append(direct, full)
	}

	doc.Find("video").Each(func(_ int, v *goquery.Selection) {
		addDirect(v.AttrOr("src", ""))
		for _, attr := range videoLazyAttrs {
			addDirect(v.AttrOr(attr, ""))
		}
		// any other data-* attribute whose value names a video file
		for _, node := range v.Nodes {
			for _, attr := range node.Attr {
				if strings.HasPrefix(attr.Key, "data-") && looksLikeVideoValue(attr.Val) {
					addDirect(attr.Val)
				}
			}
		}
		v.Find("source").Each(func(_ int, src *goquery.Selection) {
			for _, attr := range []string{"src", "data-src", "data-source"} {
				addDirect(src.AttrOr(attr, ""))
			}
		})
	})

	// video links not wrapped in a <video> element
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		addDirect(a.AttrOr("href", ""))
	})

	for _, p := range embedProviders {
		doc.Find("[" + p.Attr + "]").Each(func(_ int, el *goquery.Selection) {
			token := strings.TrimSpace(el.AttrOr(p.Attr, ""))
			if token == "" {
				return
			}
			thumb := el.AttrOr("data-src", "")
			if thumb == "" {
				thumb = el.AttrOr("src", "")
			}
			embeds = append(embeds, models.VideoEmbed{
				Type:     p.Name,
				UUID:     token,
				EmbedURL: fmt.Sprintf(p.URLTemplate, token),
				ThumbURL: utils.ResolveURL(thumb, base),
			})
		})
	}

	doc.Find("meta").Each(func(_ int, m *goquery.Selection) {
		prop := strings.ToLower(m.AttrOr("property", ""))
		if prop == "" {
			prop = strings.ToLower(m.AttrOr("name", ""))
		}
		if !videoMetaProps[prop] {
			return
		}
		full := utils.ResolveURL(m.AttrOr("content", ""), base)
		if full == "" {
			return
		}
		if hasVideoExtension(full) {
			direct = append(direct, full)
		} else {
			embeds = append(embeds, models.VideoEmbed{Type: "meta", Property: prop, URL: full})
		}
	})

	return utils.Dedupe(direct), embeds
}

func hasVideoExtension(u string) bool {
	ul := strings.ToLower(u)
	for _, ext := range videoExtensions {
		if strings.Contains(ul, ext) {
			return true
		}
	}
	return false
}

// looksLikeVideoValue gates the free-form data-* scan. Narrower than
// hasVideoExtension: bare .mov values don't qualify an attribute.
func looksLikeVideoValue(v string) bool {
	vl := strings.ToLower(v)
	return strings.Contains(vl, ".mp4") || strings.Contains(vl, ".webm") || strings.Contains(vl, ".m3u8")
}

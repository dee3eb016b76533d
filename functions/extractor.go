package functions

import (
	"fmt"
	"net/url"
	"strings"

	"brandscrape/models"
	"brandscrape/utils"

	"github.com/PuerkitoBio/goquery"
)

// ExtractAssets runs one pass over rendered HTML and collects every
// asset candidate for the page. It is pure: no network or file I/O,
// and malformed markup just yields empty fields.
func ExtractAssets(htmlContent, baseURL string) (*models.AssetBundle, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("can't parse base url: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("can't parse html: %w", err)
	}

	bundle := &models.AssetBundle{
		Title:         strings.TrimSpace(doc.Find("title").First().Text()),
		H1:            strings.TrimSpace(doc.Find("h1").First().Text()),
		LogoURL:       pickLogoImage(doc, base, utils.BrandHint(base)),
		LogoInlineSVG: pickInlineLogoSVG(doc),
	}

	var images []string
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := imageSource(img)
		if src == "" {
			return
		}
		full := utils.ResolveURL(src, base)
		if full == "" || utils.IsTracker(full) {
			return
		}
		images = append(images, full)
	})
	bundle.ImageURLs = utils.Dedupe(images)

	var stylesheets []string
	doc.Find("link[href]").Each(func(_ int, link *goquery.Selection) {
		rel := strings.ToLower(link.AttrOr("rel", ""))
		if !strings.Contains(rel, "stylesheet") {
			return
		}
		if full := utils.ResolveURL(link.AttrOr("href", ""), base); full != "" {
			stylesheets = append(stylesheets, full)
		}
	})
	bundle.StylesheetURLs = utils.Dedupe(stylesheets)

	var scripts []string
	doc.Find("script[src]").Each(func(_ int, script *goquery.Selection) {
		if full := utils.ResolveURL(script.AttrOr("src", ""), base); full != "" {
			scripts = append(scripts, full)
		}
	})
	bundle.ScriptURLs = utils.Dedupe(scripts)

	var iframes []string
	doc.Find("iframe[src]").Each(func(_ int, frame *goquery.Selection) {
		if full := utils.ResolveURL(frame.AttrOr("src", ""), base); full != "" {
			iframes = append(iframes, full)
		}
	})
	bundle.IframeURLs = utils.Dedupe(iframes)

	bundle.VideoURLs, bundle.VideoEmbeds = collectVideos(doc, base)

	return bundle, nil
}

// imageSource returns the effective source of an img element, trying
// the plain src before the common lazy-loading attributes.
func imageSource(img *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
		if v := strings.TrimSpace(img.AttrOr(attr, "")); v != "" {
			return v
		}
	}
	return ""
}

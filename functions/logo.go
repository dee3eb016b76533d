package functions

import (
	"net/url"
	"strings"

	"brandscrape/utils"

	"github.com/PuerkitoBio/goquery"
)

// A winning logo candidate must reach this score; below it the page is
// reported as having no logo at all. Downstream palette-from-logo work
// relies on "no logo" rather than a low-confidence guess.
const logoScoreFloor = 0

const disqualified = -999

// Substrings that mark review/award badge imagery, not the brand.
var badgeSubstrings = []string{
	"pcmag",
	"nerdwallet",
	"cybernews",
	"award",
	"badge",
	"review",
	"trustpilot",
}

// pickLogoImage scores every img on the page and returns the resolved
// URL of the best candidate. Ties keep the first element in document
// order. Returns "" when nothing reaches the floor.
func pickLogoImage(doc *goquery.Document, base *url.URL, brandHint string) string {
	bestScore := disqualified
	bestURL := ""

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		score, full := scoreLogoCandidate(img, base, brandHint)
		if score > bestScore {
			bestScore = score
			bestURL = full
		}
	})

	if bestScore < logoScoreFloor {
		return ""
	}
	return bestURL
}

// scoreLogoCandidate returns the additive heuristic score for one img
// and its resolved URL. Empty sources and tracker URLs disqualify.
func scoreLogoCandidate(img *goquery.Selection, base *url.URL, brandHint string) (int, string) {
	src := imageSource(img)
	if src == "" {
		return disqualified, ""
	}
	full := utils.ResolveURL(src, base)
	if full == "" || utils.IsTracker(full) {
		return disqualified, ""
	}

	alt := strings.ToLower(img.AttrOr("alt", ""))
	title := strings.ToLower(img.AttrOr("title", ""))
	class := strings.ToLower(img.AttrOr("class", ""))
	fullLower := strings.ToLower(full)

	score := 0
	if img.ParentsFiltered("header, nav").Length() > 0 {
		score += 50
	}
	if brandHint != "" &&
		(strings.Contains(alt, brandHint) || strings.Contains(title, brandHint) || strings.Contains(fullLower, brandHint)) {
		score += 40
	}
	if strings.Contains(alt, "logo") || strings.Contains(title, "logo") ||
		strings.Contains(class, "logo") || strings.Contains(fullLower, "logo") {
		score += 20
	}
	for _, bad := range badgeSubstrings {
		if strings.Contains(fullLower, bad) {
			score -= 25
		}
	}
	if utils.SameDomain(full, base) {
		score += 10
	}
	return score, full
}

// pickInlineLogoSVG returns the serialized markup of the best inline
// SVG logo: candidates carry "logo" in class/id/aria-label, header/nav
// placement and a descriptive <title> raise the score.
func pickInlineLogoSVG(doc *goquery.Document) string {
	var best *goquery.Selection
	bestScore := -1

	doc.Find("svg").Each(func(_ int, svg *goquery.Selection) {
		class := strings.ToLower(svg.AttrOr("class", ""))
		id := strings.ToLower(svg.AttrOr("id", ""))
		aria := strings.ToLower(svg.AttrOr("aria-label", ""))
		if !strings.Contains(class, "logo") && !strings.Contains(id, "logo") && !strings.Contains(aria, "logo") {
			return
		}

		score := 0
		if svg.ParentsFiltered("header, nav").Length() > 0 {
			score += 50
		}
		if svg.Find("title").Length() > 0 {
			score += 10
		}
		if score > bestScore {
			bestScore = score
			best = svg
		}
	})

	if best == nil {
		return ""
	}
	markup, err := goquery.OuterHtml(best)
	if err != nil {
		return ""
	}
	return markup
}

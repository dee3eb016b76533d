package functions

import (
	"sort"
	"strings"
)

// Keyword tables for the download ranking. This scorer decides which
// already-discovered assets are worth fetching; it is deliberately
// separate from the logo heuristics.
var (
	heroKeywords        = []string{"hero", "banner", "masthead", "header", "main", "home", "slide", "carousel"}
	boilerplateKeywords = []string{"logo", "icon", "sprite", "badge", "award", "pixel", "tracking"}
	rasterSuffixes      = []string{".jpg", ".jpeg", ".png", ".webp"}
	videoHeroKeywords   = []string{"hero", "ambient", "banner", "masthead"}
)

// ChooseTopImages ranks hero/banner imagery above icons and badges and
// trims to limit. Equal scores keep first-seen order.
func ChooseTopImages(imageURLs []string, limit int) []string {
	return topN(imageURLs, limit, scoreHeroImage)
}

func scoreHeroImage(u string) int {
	ul := strings.ToLower(u)
	score := 0
	for _, k := range heroKeywords {
		if strings.Contains(ul, k) {
			score += 20
		}
	}
	for _, k := range boilerplateKeywords {
		if strings.Contains(ul, k) {
			score -= 20
		}
	}
	for _, ext := range rasterSuffixes {
		if strings.HasSuffix(ul, ext) {
			score += 5
			break
		}
	}
	return score
}

// ChooseTopVideos prefers direct mp4/webm over streaming manifests.
func ChooseTopVideos(videoURLs []string, limit int) []string {
	return topN(videoURLs, limit, scoreVideo)
}

func scoreVideo(u string) int {
	ul := strings.ToLower(u)
	score := 0
	if strings.Contains(ul, ".mp4") {
		score += 50
	}
	if strings.Contains(ul, ".webm") {
		score += 30
	}
	if strings.Contains(ul, ".m3u8") {
		score -= 10
	}
	for _, k := range videoHeroKeywords {
		if strings.Contains(ul, k) {
			score += 10
		}
	}
	return score
}

// topN is a stable rank-and-trim over precomputed scores.
func topN(urls []string, limit int, score func(string) int) []string {
	scores := make(map[string]int, len(urls))
	for _, u := range urls {
		scores[u] = score(u)
	}

	ranked := make([]string, len(urls))
	copy(ranked, urls)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

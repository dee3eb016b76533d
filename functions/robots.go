package functions

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

var (
	robotsCache   = make(map[string]*robotstxt.RobotsData)
	robotsCacheMu sync.RWMutex
)

// checkRobots reports whether an asset URL may be fetched under its
// host's robots.txt, caching parsed files per origin. A missing or
// unreachable robots.txt allows the fetch.
func (s *Scraper) checkRobots(assetURL string) error {
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return fmt.Errorf("invalid asset url: %w", err)
	}
	origin := parsed.Scheme + "://" + parsed.Host

	robotsCacheMu.RLock()
	robotsData, exists := robotsCache[origin]
	robotsCacheMu.RUnlock()

	if exists {
		if !robotsData.FindGroup("*").Test(parsed.Path) {
			return fmt.Errorf("blocked by robots.txt: %s", parsed.Path)
		}
		return nil
	}

	resp, err := s.httpClient.Get(origin + "/robots.txt")
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}

	robotsData, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}

	robotsCacheMu.Lock()
	robotsCache[origin] = robotsData
	robotsCacheMu.Unlock()

	if !robotsData.FindGroup("*").Test(parsed.Path) {
		return fmt.Errorf("not allowed to fetch %s (blocked by robots.txt)", parsed.Path)
	}
	return nil
}

package functions

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"
)

// NewScraper builds a scraper rooted at outRoot. The render-service API
// key comes from the caller so nothing here reads the environment and
// tests can run without setup.
func NewScraper(apiKey, outRoot, paletteScript string) (*Scraper, error) {
	zen, err := NewZenrowsClient(apiKey)
	if err != nil {
		return nil, err
	}

	if outRoot == "" {
		outRoot = "out"
	}
	if err := os.MkdirAll(outRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output folder: %w", err)
	}

	if paletteScript == "" {
		paletteScript = "palette.cjs"
	}

	// shared http client for all asset downloads
	httpClient := &http.Client{
		Timeout:   60 * time.Second,
		Transport: AssetTransport(),
	}

	return &Scraper{
		Zenrows:       zen,
		httpClient:    httpClient,
		outRoot:       outRoot,
		paletteScript: paletteScript,
		Mu:            &sync.Mutex{},
	}, nil
}

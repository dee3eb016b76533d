package functions

import (
	"net/http"
	"sync"
)

// Scraper holds the shared state for brand report runs: the rendering
// collaborator client, the plain HTTP client used for asset downloads,
// and the output layout.
type Scraper struct {
	Zenrows       *ZenrowsClient
	httpClient    *http.Client
	outRoot       string
	paletteScript string
	Mu            *sync.Mutex
}

var (
	userAgent           = "Mozilla/5.0"
	maxImagesToDownload = 10
	maxVideosToDownload = 2
	downloadWorkers     = 4
	videoMaxBytes       = int64(35 * 1024 * 1024) // cap so hero videos can't fill the disk
)

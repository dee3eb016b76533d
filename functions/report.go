package functions

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"brandscrape/db"
	"brandscrape/models"
	"brandscrape/utils"
)

const maxStylesheetsToHarvest = 10

// ScrapeBrandReport runs the whole pipeline for one target URL and
// writes out/<host>/<stamp>/{page.html, report.json, assets/*}. Only
// the HTML fetch and the screenshot are fatal; every other failure is
// recorded per asset and the run keeps going.
func (s *Scraper) ScrapeBrandReport(targetURL string) (*models.BrandReport, error) {
	host := utils.HostSlug(targetURL)
	stamp := time.Now().Format("20060102_150405")

	outDir := filepath.Join(s.outRoot, host, stamp)
	assetsDir := filepath.Join(outDir, "assets")
	videosDir := filepath.Join(assetsDir, "videos")
	if err := os.MkdirAll(videosDir, 0755); err != nil {
		return nil, fmt.Errorf("can't create output folders: %w", err)
	}

	log.Printf("[1/8] Fetching rendered HTML: %s", targetURL)
	appendLog("Fetching rendered HTML: " + targetURL)
	htmlContent, err := s.Zenrows.FetchRenderedHTML(targetURL, "body", "image,media,font")
	if err != nil {
		return nil, fmt.Errorf("rendered HTML fetch failed: %w", err)
	}
	pageHTMLPath := filepath.Join(outDir, "page.html")
	if err := os.WriteFile(pageHTMLPath, []byte(htmlContent), 0644); err != nil {
		return nil, fmt.Errorf("can't save page.html: %w", err)
	}

	log.Printf("[2/8] Extracting DOM assets (logo/images/videos/embeds)")
	bundle, err := ExtractAssets(htmlContent, targetURL)
	if err != nil {
		return nil, fmt.Errorf("asset extraction failed: %w", err)
	}

	log.Printf("[3/8] Capturing full-page screenshot")
	screenshotPath, err := s.Zenrows.FetchScreenshot(targetURL, "body", filepath.Join(assetsDir, host+"_page.png"), true)
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	screenshotSha, err := utils.Sha256File(screenshotPath)
	if err != nil {
		log.Printf("can't hash screenshot: %v", err)
	}

	log.Printf("[4/8] Running palette on screenshot")
	paletteFromScreenshot, err := s.PaletteFromFile(screenshotPath)
	if err != nil {
		log.Printf("Palette on screenshot failed: %v", err)
	}

	logoPath, logoMeta := s.downloadLogo(bundle, assetsDir, host)

	var logoSVGPath string
	if bundle.LogoInlineSVG != "" {
		log.Printf("[5/8] Saving inline SVG logo")
		logoSVGPath = filepath.Join(assetsDir, host+"_logo.svg")
		if err := os.WriteFile(logoSVGPath, []byte(bundle.LogoInlineSVG), 0644); err != nil {
			log.Printf("Can't save inline SVG logo: %v", err)
			logoSVGPath = ""
		}
	}

	var paletteFromLogo json.RawMessage
	if logoPath != "" && isRasterPath(logoPath) {
		if doc, err := s.PaletteFromFile(logoPath); err == nil {
			paletteFromLogo = doc
		} else {
			log.Printf("Palette on logo failed: %v", err)
		}
	}

	log.Printf("[6/8] Downloading top images + palettes")
	topImages := ChooseTopImages(bundle.ImageURLs, maxImagesToDownload)
	downloadedImages, palettesByImage := s.downloadImages(topImages, assetsDir)

	log.Printf("[7/8] Processing video URLs (direct + embeds)")
	topVideos := ChooseTopVideos(bundle.VideoURLs, maxVideosToDownload)
	downloadedVideos := s.downloadVideos(topVideos, videosDir)

	cssTokens := s.harvestCSSTokens(bundle.StylesheetURLs)
	typography := MergeTypography(cssTokens)
	contrastChecks := BuildContrastChecks(rankedHexFrom(paletteFromScreenshot))

	log.Printf("[8/8] Fetching render-service JSON response")
	var zenrows models.ZenrowsSection
	if raw, err := s.Zenrows.FetchJSONResponse(targetURL, "body"); err != nil {
		zenrows.Error = err.Error()
	} else {
		zenrows.RawJSONResponse = raw
	}

	report := &models.BrandReport{
		Meta: models.ReportMeta{
			Engine:    "zenrows",
			ScrapedAt: stamp,
			URL:       targetURL,
			Host:      host,
		},
		Page: models.ReportPage{
			Title: bundle.Title,
			H1:    bundle.H1,
		},
		Assets: models.ReportAssets{
			PageHTMLPath:      pageHTMLPath,
			ScreenshotPath:    screenshotPath,
			ScreenshotSha256:  screenshotSha,
			LogoURL:           bundle.LogoURL,
			LogoPath:          logoPath,
			LogoMeta:          logoMeta,
			LogoInlineSVGPath: logoSVGPath,
			Images:            downloadedImages,
			Videos:            bundle.VideoURLs,
			DownloadedVideos:  downloadedVideos,
			VideoEmbeds:       bundle.VideoEmbeds,
			Iframes:           bundle.IframeURLs,
			Stylesheets:       bundle.StylesheetURLs,
			Scripts:           bundle.ScriptURLs,
		},
		Palette: models.ReportPalette{
			FromScreenshot: paletteFromScreenshot,
			FromLogo:       paletteFromLogo,
		},
		PalettesByImage: palettesByImage,
		CSS:             models.CSSSection{Tokens: cssTokens},
		Typography:      typography,
		ContrastChecks:  contrastChecks,
		Zenrows:         zenrows,
	}

	if err := saveJSON(filepath.Join(outDir, "report.json"), report); err != nil {
		return nil, err
	}

	// index the run (best effort; report on disk is the source of truth)
	if handler := db.GetSQLiteHandler(); handler != nil {
		if err := handler.InsertReport(report, outDir); err != nil {
			log.Printf("Can't index report for %s: %v", targetURL, err)
		}
	}

	log.Printf("Saved report to: %s", outDir)
	appendLog("Saved report for " + targetURL + " to " + outDir)
	return report, nil
}

// downloadLogo fetches the scored logo URL, if any, and renames it to
// the resolved extension. Unsupported types keep their .bin file so
// the bytes are not lost; the path is still reported.
func (s *Scraper) downloadLogo(bundle *models.AssetBundle, assetsDir, host string) (string, *models.DownloadOutcome) {
	if bundle.LogoURL == "" {
		return "", nil
	}
	log.Printf("[5/8] Downloading logo")
	outcome := s.downloadAsset(bundle.LogoURL, filepath.Join(assetsDir, host+"_logo"), false, 0)
	if !outcome.OK {
		log.Printf("Logo download issue for %s: %s%s", bundle.LogoURL, outcome.Reason, outcome.Error)
		return "", &outcome
	}
	return outcome.Path, &outcome
}

// downloadAsset fetches one URL into basePath.bin and renames it to
// the resolved extension. Every call maps to exactly one outcome.
func (s *Scraper) downloadAsset(rawURL, basePath string, capped bool, maxBytes int64) models.DownloadOutcome {
	if err := s.checkRobots(rawURL); err != nil {
		return models.DownloadOutcome{
			FetchResult: models.FetchResult{RequestedURL: rawURL},
			OK:          false,
			Reason:      "blocked_by_robots",
			Error:       err.Error(),
		}
	}

	tmpPath := basePath + ".bin"
	var res *models.FetchResult
	var err error
	if capped {
		res, err = s.DownloadCapped(rawURL, tmpPath, maxBytes)
	} else {
		res, err = s.Download(rawURL, tmpPath)
	}
	if err != nil {
		return models.DownloadOutcome{
			FetchResult: models.FetchResult{RequestedURL: rawURL},
			OK:          false,
			Error:       err.Error(),
		}
	}

	ext := ResolveExtension(res.ContentType, res.FinalURL)
	if ext == "" {
		return models.DownloadOutcome{
			FetchResult: *res,
			OK:          false,
			Reason:      "unsupported_content_type",
		}
	}

	finalPath := basePath + "." + ext
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return models.DownloadOutcome{
			FetchResult: *res,
			OK:          false,
			Error:       fmt.Sprintf("can't rename download: %v", err),
		}
	}
	res.Path = finalPath

	return models.DownloadOutcome{FetchResult: *res, OK: true, Extension: ext}
}

// downloadImages fetches the ranked images through a small worker
// pool. Outcomes land in index-addressed slots so report order is
// deterministic and one failure never disturbs the others.
func (s *Scraper) downloadImages(urls []string, assetsDir string) ([]models.DownloadOutcome, map[string]models.ImagePalette) {
	outcomes := make([]models.DownloadOutcome, len(urls))
	palettes := make(map[string]models.ImagePalette)

	var wg sync.WaitGroup
	sem := make(chan struct{}, downloadWorkers)
	var mu sync.Mutex

	for i, imgURL := range urls {
		wg.Add(1)
		go func(idx int, imgURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcome := s.downloadAsset(imgURL, filepath.Join(assetsDir, fmt.Sprintf("img_%d", idx)), false, 0)
			outcomes[idx] = outcome
			if !outcome.OK || !isRasterExt(outcome.Extension) {
				return
			}

			doc, err := s.PaletteFromFile(outcome.Path)
			if err != nil {
				log.Printf("Palette failed for %s: %v", outcome.Path, err)
				return
			}
			mu.Lock()
			palettes[imgURL] = models.ImagePalette{DownloadedPath: outcome.Path, Vibrant: vibrantOf(doc)}
			mu.Unlock()
		}(i, imgURL)
	}
	wg.Wait()

	return outcomes, palettes
}

// downloadVideos streams the ranked direct video URLs with the byte
// cap. Few enough to process one at a time.
func (s *Scraper) downloadVideos(urls []string, videosDir string) []models.DownloadOutcome {
	outcomes := make([]models.DownloadOutcome, 0, len(urls))
	for i, vidURL := range urls {
		outcome := s.downloadAsset(vidURL, filepath.Join(videosDir, fmt.Sprintf("video_%d", i)), true, videoMaxBytes)
		if !outcome.OK {
			log.Printf("Video download issue for %s: %s%s", vidURL, outcome.Reason, outcome.Error)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// harvestCSSTokens pulls typography and color tokens out of the first
// stylesheets, fetched through the render client so CDN-gated CSS
// still resolves.
func (s *Scraper) harvestCSSTokens(stylesheetURLs []string) []models.CSSTokens {
	if len(stylesheetURLs) > maxStylesheetsToHarvest {
		stylesheetURLs = stylesheetURLs[:maxStylesheetsToHarvest]
	}
	tokens := make([]models.CSSTokens, 0, len(stylesheetURLs))
	for _, cssURL := range stylesheetURLs {
		cssText, err := s.Zenrows.FetchRenderedHTML(cssURL, "", "")
		if err != nil {
			tokens = append(tokens, models.CSSTokens{CSSURL: cssURL, Error: err.Error()})
			continue
		}
		t := ParseCSSTokens(cssText)
		t.CSSURL = cssURL
		tokens = append(tokens, t)
	}
	return tokens
}

func saveJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("can't create folder: %w", err)
	}
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("can't marshal report: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("can't write %s: %w", path, err)
	}
	return nil
}

package functions

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const zenrowsEndpoint = "https://api.zenrows.com/v1/"

var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// sleepFn is swapped out in tests so backoff doesn't wait on the clock.
var sleepFn = time.Sleep

// ZenrowsClient talks to the remote rendering service. One instance is
// safe for concurrent use.
type ZenrowsClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewZenrowsClient(apiKey string) (*ZenrowsClient, error) {
	if apiKey == "" {
		return nil, errors.New("zenrows api key is empty")
	}
	return &ZenrowsClient{
		apiKey:   apiKey,
		endpoint: zenrowsEndpoint,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}, nil
}

// RenderOptions are the capability flags one render request carries.
type RenderOptions struct {
	JSRender           bool
	PremiumProxy       bool
	WaitFor            string
	BlockResources     string
	JSONResponse       bool
	Screenshot         bool
	ScreenshotFullpage bool
	ScreenshotFormat   string
	Timeout            time.Duration
	MaxRetries         int
}

// Get performs one logical render request with retries. Statuses in
// retryStatuses and transport errors back off and retry; any other
// non-2xx status is terminal for the request.
func (z *ZenrowsClient) Get(targetURL string, opts RenderOptions) ([]byte, error) {
	params := url.Values{}
	params.Set("url", targetURL)
	params.Set("apikey", z.apiKey)
	if opts.JSRender {
		params.Set("js_render", "true")
	}
	if opts.PremiumProxy {
		params.Set("premium_proxy", "true")
	}
	if opts.WaitFor != "" {
		params.Set("wait_for", opts.WaitFor)
	}
	if opts.BlockResources != "" {
		params.Set("block_resources", opts.BlockResources)
	}
	if opts.JSONResponse {
		params.Set("json_response", "true")
	}
	if opts.Screenshot {
		params.Set("screenshot", "true")
		if opts.ScreenshotFullpage {
			params.Set("screenshot_fullpage", "true")
		}
		if opts.ScreenshotFormat != "" {
			params.Set("screenshot_format", opts.ScreenshotFormat)
		}
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 45 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	reqURL := z.endpoint + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		body, status, err := z.doOnce(reqURL, timeout)
		if err != nil {
			lastErr = err
			backoff(attempt)
			continue
		}
		if retryStatuses[status] {
			lastErr = fmt.Errorf("retryable status %d", status)
			backoff(attempt)
			continue
		}
		if status < 200 || status >= 300 {
			return nil, fmt.Errorf("render service returned status %d for %s", status, targetURL)
		}
		return body, nil
	}

	return nil, fmt.Errorf("render request failed for %s: %w", targetURL, lastErr)
}

func (z *ZenrowsClient) doOnce(reqURL string, timeout time.Duration) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("can't make request: %w", err)
	}

	resp, err := z.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("can't read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// backoff sleeps min(20, 2^attempt) seconds plus sub-second jitter.
func backoff(attempt int) {
	base := math.Min(20, math.Pow(2, float64(attempt)))
	jitter := rand.Float64() * 0.5
	sleepFn(time.Duration((base + jitter) * float64(time.Second)))
}

// htmlLadder is the HTML fetch fallback: full rendering with premium
// routing, then without, then no rendering. First success wins.
var htmlLadder = []RenderOptions{
	{JSRender: true, PremiumProxy: true},
	{JSRender: true},
	{},
}

func (z *ZenrowsClient) FetchRenderedHTML(targetURL, waitFor, blockResources string) (string, error) {
	if waitFor == "" {
		waitFor = "body"
	}

	var lastErr error
	for _, cfg := range htmlLadder {
		cfg.WaitFor = waitFor
		cfg.BlockResources = blockResources
		cfg.Timeout = 45 * time.Second
		cfg.MaxRetries = 2

		body, err := z.Get(targetURL, cfg)
		if err != nil {
			lastErr = err
			continue
		}
		return string(body), nil
	}

	return "", fmt.Errorf("failed to fetch HTML for %s: %w", targetURL, lastErr)
}

// screenshotEnvelope is the JSON the service returns when a screenshot
// is requested; the image is base64 under screenshot.data.
type screenshotEnvelope struct {
	Screenshot struct {
		Data string `json:"data"`
	} `json:"screenshot"`
}

var errMalformedEnvelope = errors.New("no screenshot data in response")

// FetchScreenshot captures the page, degrading payload size across the
// ladder (full-page png, full-page jpeg, viewport png, viewport jpeg)
// to cope with the service's response size limits. Returns the final
// file path, whose extension follows the format that succeeded.
func (z *ZenrowsClient) FetchScreenshot(targetURL, waitFor, outPath string, fullPage bool) (string, error) {
	attempts := []struct {
		fullPage bool
		format   string
	}{
		{fullPage, "png"},
		{fullPage, "jpeg"},
		{false, "png"},
		{false, "jpeg"},
	}

	var lastErr error
	for _, a := range attempts {
		body, err := z.Get(targetURL, RenderOptions{
			JSRender:           true,
			WaitFor:            waitFor,
			JSONResponse:       true,
			Screenshot:         true,
			ScreenshotFullpage: a.fullPage,
			ScreenshotFormat:   a.format,
			Timeout:            60 * time.Second,
			MaxRetries:         2,
		})
		if err != nil {
			lastErr = err
			continue
		}

		var envelope screenshotEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			lastErr = fmt.Errorf("can't decode screenshot envelope: %w", err)
			continue
		}
		if envelope.Screenshot.Data == "" {
			lastErr = errMalformedEnvelope
			continue
		}

		img, err := base64.StdEncoding.DecodeString(envelope.Screenshot.Data)
		if err != nil {
			lastErr = fmt.Errorf("can't decode screenshot payload: %w", err)
			continue
		}

		ext := "png"
		if a.format == "jpeg" {
			ext = "jpg"
		}
		finalPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "." + ext

		if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
			return "", fmt.Errorf("can't create screenshot folder: %w", err)
		}
		if err := os.WriteFile(finalPath, img, 0644); err != nil {
			return "", fmt.Errorf("can't save screenshot: %w", err)
		}
		return finalPath, nil
	}

	return "", fmt.Errorf("screenshot failed for %s: %w", targetURL, lastErr)
}

// FetchJSONResponse returns the service's raw JSON envelope for the
// page (network insights, used for report debugging).
func (z *ZenrowsClient) FetchJSONResponse(targetURL, waitFor string) (json.RawMessage, error) {
	if waitFor == "" {
		waitFor = "body"
	}
	body, err := z.Get(targetURL, RenderOptions{
		JSRender:     true,
		WaitFor:      waitFor,
		JSONResponse: true,
		Timeout:      45 * time.Second,
		MaxRetries:   2,
	})
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("render service returned invalid JSON for %s", targetURL)
	}
	return json.RawMessage(body), nil
}

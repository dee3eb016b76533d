package functions

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"brandscrape/models"
)

const downloadChunkSize = 256 * 1024

// Download fetches the whole body of rawURL into destPath, following
// redirects. Non-2xx status is terminal for this URL; retry policy, if
// any, belongs to the caller.
func (s *Scraper) Download(rawURL, destPath string) (*models.FetchResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("can't make request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return nil, fmt.Errorf("can't create folder: %w", err)
	}

	// write to temp file first
	tempPath := destPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("can't create file: %w", err)
	}
	written, err := io.Copy(file, resp.Body)
	file.Close()
	if err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("can't save %s: %w", rawURL, err)
	}
	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("can't rename download: %w", err)
	}

	return &models.FetchResult{
		RequestedURL: rawURL,
		FinalURL:     resp.Request.URL.String(),
		Status:       resp.StatusCode,
		ContentType:  contentTypeOf(resp),
		Bytes:        written,
		Path:         destPath,
	}, nil
}

// DownloadCapped streams rawURL into destPath, stopping before the
// byte ceiling is crossed. The Range header is a cooperative hint
// only; the cap holds even when the server ignores it or declares a
// dishonest Content-Length.
func (s *Scraper) DownloadCapped(rawURL, destPath string, maxBytes int64) (*models.FetchResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("can't make request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", maxBytes-1))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return nil, fmt.Errorf("can't create folder: %w", err)
	}

	tempPath := destPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("can't create file: %w", err)
	}

	var total int64
	buf := make([]byte, downloadChunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			// a chunk that would cross the cap is not written at all
			if total+int64(n) > maxBytes {
				break
			}
			if _, err := file.Write(buf[:n]); err != nil {
				file.Close()
				os.Remove(tempPath)
				return nil, fmt.Errorf("can't save %s: %w", rawURL, err)
			}
			total += int64(n)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			file.Close()
			os.Remove(tempPath)
			return nil, fmt.Errorf("can't read %s: %w", rawURL, readErr)
		}
	}
	file.Close()

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("can't rename download: %w", err)
	}

	return &models.FetchResult{
		RequestedURL: rawURL,
		FinalURL:     resp.Request.URL.String(),
		Status:       resp.StatusCode,
		ContentType:  contentTypeOf(resp),
		Bytes:        total,
		Capped:       true,
		MaxBytes:     maxBytes,
		Path:         destPath,
	}, nil
}

// contentTypeOf strips parameters like charset from the declared type.
func contentTypeOf(resp *http.Response) string {
	ct := resp.Header.Get("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

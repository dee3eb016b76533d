package functions

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// stubSleep replaces the backoff sleep with a counter for the duration
// of one test.
func stubSleep(t *testing.T) *int {
	t.Helper()
	var count int
	orig := sleepFn
	sleepFn = func(time.Duration) { count++ }
	t.Cleanup(func() { sleepFn = orig })
	return &count
}

func testClient(t *testing.T, srv *httptest.Server) *ZenrowsClient {
	t.Helper()
	z, err := NewZenrowsClient("test-key")
	if err != nil {
		t.Fatalf("can't build client: %v", err)
	}
	z.endpoint = srv.URL
	z.httpClient = srv.Client()
	return z
}

func TestGet_RetriesThenSucceeds(t *testing.T) {
	sleeps := stubSleep(t)

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "<html>ok</html>")
	}))
	defer srv.Close()

	body, err := testClient(t, srv).Get("https://acme.com", RenderOptions{MaxRetries: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<html>ok</html>" {
		t.Errorf("unexpected body: %q", body)
	}
	if hits != 3 {
		t.Errorf("expected 3 attempts, got %d", hits)
	}
	if *sleeps != 2 {
		t.Errorf("expected 2 backoffs, got %d", *sleeps)
	}
}

func TestGet_ExhaustsRetries(t *testing.T) {
	sleeps := stubSleep(t)

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(t, srv).Get("https://acme.com", RenderOptions{MaxRetries: 5})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "retryable status 500") {
		t.Errorf("expected last status in error chain, got %v", err)
	}
	if hits != 5 {
		t.Errorf("expected 5 attempts, got %d", hits)
	}
	if *sleeps != 5 {
		t.Errorf("expected 5 backoffs, got %d", *sleeps)
	}
}

func TestGet_NonRetryableStatusIsTerminal(t *testing.T) {
	sleeps := stubSleep(t)

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := testClient(t, srv).Get("https://acme.com", RenderOptions{MaxRetries: 3})
	if err == nil {
		t.Fatal("expected error for 422")
	}
	if hits != 1 {
		t.Errorf("422 must not retry, got %d attempts", hits)
	}
	if *sleeps != 0 {
		t.Errorf("422 must not back off, got %d sleeps", *sleeps)
	}
}

func TestFetchRenderedHTML_LadderFallsBack(t *testing.T) {
	stubSleep(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("premium_proxy") == "true" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		if q.Get("js_render") == "true" {
			fmt.Fprint(w, "<html>rendered</html>")
			return
		}
		fmt.Fprint(w, "<html>plain</html>")
	}))
	defer srv.Close()

	html, err := testClient(t, srv).FetchRenderedHTML("https://acme.com", "body", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "<html>rendered</html>" {
		t.Errorf("expected the second rung to win, got %q", html)
	}
}

func TestFetchScreenshot_LadderDegradesToJPEG(t *testing.T) {
	stubSleep(t)

	img := []byte{0xff, 0xd8, 0xff, 0xe0, 1, 2, 3}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("screenshot") != "true" {
			t.Errorf("expected screenshot param, got %v", q)
		}
		// png rungs come back without image data
		if q.Get("screenshot_format") == "png" {
			fmt.Fprint(w, `{"screenshot":{}}`)
			return
		}
		fmt.Fprintf(w, `{"screenshot":{"data":%q}}`, base64.StdEncoding.EncodeToString(img))
	}))
	defer srv.Close()

	outPath := filepath.Join(t.TempDir(), "acme.com_page.png")
	finalPath, err := testClient(t, srv).FetchScreenshot("https://acme.com", "body", outPath, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(finalPath, "acme.com_page.jpg") {
		t.Errorf("expected the jpg rung to win, got %q", finalPath)
	}

	saved, err := os.ReadFile(finalPath)
	if err != nil {
		t.Fatalf("can't read screenshot: %v", err)
	}
	if string(saved) != string(img) {
		t.Error("decoded screenshot bytes differ")
	}
}

func TestFetchScreenshot_AllRungsMalformed(t *testing.T) {
	stubSleep(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"screenshot":{}}`)
	}))
	defer srv.Close()

	outPath := filepath.Join(t.TempDir(), "page.png")
	_, err := testClient(t, srv).FetchScreenshot("https://acme.com", "body", outPath, true)
	if err == nil {
		t.Fatal("expected error when no rung returns image data")
	}
}

func TestFetchJSONResponse(t *testing.T) {
	stubSleep(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"xhr":[],"html":"<html></html>"}`)
	}))
	defer srv.Close()

	raw, err := testClient(t, srv).FetchJSONResponse("https://acme.com", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"xhr":[],"html":"<html></html>"}` {
		t.Errorf("unexpected raw json: %s", raw)
	}
}

func TestFetchJSONResponse_RejectsInvalidJSON(t *testing.T) {
	stubSleep(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	if _, err := testClient(t, srv).FetchJSONResponse("https://acme.com", ""); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}

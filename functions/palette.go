package functions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
)

// PaletteFromFile runs the node palette helper on a raster image and
// returns its JSON document. Any failure here is local to the one
// asset; callers log and move on.
func (s *Scraper) PaletteFromFile(imagePath string) (json.RawMessage, error) {
	if _, err := exec.LookPath("node"); err != nil {
		return nil, fmt.Errorf("node missing, install node.js: %w", err)
	}

	cmd := exec.Command("node", s.paletteScript, imagePath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("palette helper failed for %s: %v (stderr: %s)", imagePath, err, stderr.String())
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if !json.Valid(out) {
		return nil, fmt.Errorf("palette helper printed invalid JSON for %s", imagePath)
	}
	return json.RawMessage(out), nil
}

// vibrantOf pulls the vibrant object out of a palette document.
func vibrantOf(doc json.RawMessage) json.RawMessage {
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return nil
	}
	return parsed["vibrant"]
}

// rankedHexFrom returns vibrant.rankedHex, the ordered hex color list
// the contrast checks run against.
func rankedHexFrom(doc json.RawMessage) []string {
	if doc == nil {
		return nil
	}
	var parsed struct {
		Vibrant struct {
			RankedHex []string `json:"rankedHex"`
		} `json:"vibrant"`
	}
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return nil
	}
	return parsed.Vibrant.RankedHex
}

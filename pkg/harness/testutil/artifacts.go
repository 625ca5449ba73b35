package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/go-rod/rod"

	"github.com/thesyncim/haloqa/pkg/harness/jitter"
	"github.com/thesyncim/haloqa/pkg/harness/search"
)

// now is replaced in tests.
var now = time.Now

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ScreenshotPath returns dir/name_YYYYmmdd-HHMMSS.png for the current time.
// Characters unsafe in file names are replaced with underscores.
func ScreenshotPath(dir, name string) string {
	name = unsafeName.ReplaceAllString(name, "_")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.png", name, now().Format("20060102-150405")))
}

// Screenshot captures the full page into dir and returns the file path.
func Screenshot(page *rod.Page, dir, name string) (string, error) {
	img, err := page.Screenshot(true, nil)
	if err != nil {
		return "", fmt.Errorf("capture screenshot: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	path := ScreenshotPath(dir, name)
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}

// LoadJSON decodes the JSON file at path into v.
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load test data: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("load test data %s: %w", path, err)
	}
	return nil
}

// Cooldown pauses for a delay drawn from r when t finishes, spacing out
// consecutive tests against the same live site.
func Cooldown(t testing.TB, p jitter.Provider, r jitter.Range) {
	t.Helper()
	t.Cleanup(func() {
		_ = p.Pause(context.Background(), r)
	})
}

// SkipOnChallenge skips t when err is a CAPTCHA challenge. Other errors are
// left to the caller.
func SkipOnChallenge(t testing.TB, err error) {
	t.Helper()
	if search.IsChallenge(err) {
		t.Skipf("%v", err)
	}
}

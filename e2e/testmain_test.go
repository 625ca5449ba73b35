//go:build e2e

package e2e

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/thesyncim/haloqa/cmd/haloqa/server"
	"github.com/thesyncim/haloqa/pkg/harness/config"
	"github.com/thesyncim/haloqa/pkg/harness/testutil"
)

var (
	cfg = config.Default()

	clientOnce sync.Once
	client     *testutil.BrowserClient
	clientErr  error
)

func TestMain(m *testing.M) {
	loaded, err := config.FromEnv()
	if err == nil {
		cfg = loaded
	}

	code := m.Run()

	if client != nil {
		_ = client.Close()
	}

	// Safety net for panics or os.Exit during tests, where Close did not run
	cleanupOrphanedBrowsers()

	os.Exit(code)
}

// browser returns the shared Chrome, launching it on first use.
func browser(t *testing.T) *testutil.BrowserClient {
	t.Helper()
	clientOnce.Do(func() {
		client, clientErr = testutil.NewBrowserClient(testutil.BrowserConfigFrom(cfg), zap.NewNop())
	})
	if clientErr != nil {
		t.Fatalf("failed to create browser: %v", clientErr)
	}
	return client
}

// newSession opens an isolated browser context that is closed when t ends.
func newSession(t *testing.T, opts testutil.ContextOptions) *testutil.Session {
	t.Helper()
	s, err := browser(t).NewSession(opts)
	if err != nil {
		t.Fatalf("failed to open browser session: %v", err)
	}
	t.Cleanup(func() {
		if t.Failed() {
			if path, err := testutil.Screenshot(s.Page, cfg.ScreenshotDir, t.Name()); err == nil {
				t.Logf("Saved screenshot %s", path)
			}
		}
		if err := s.Close(); err != nil {
			t.Errorf("session close error: %v", err)
		}
	})
	return s
}

// startServer serves the contact page on a random port until t ends.
func startServer(t *testing.T) string {
	t.Helper()
	srv, err := server.NewServer(server.DefaultConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	addr, err := srv.Start()
	if err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("server shutdown error: %v", err)
		}
	})
	return "http://" + addr
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)
	return ctx
}

// cleanupOrphanedBrowsers attempts to kill Chrome processes that may have
// been left behind by failed tests. This is best-effort cleanup.
func cleanupOrphanedBrowsers() {
	switch runtime.GOOS {
	case "darwin", "linux":
		// pkill returns non-zero if no processes matched, ignore error
		_ = exec.Command("pkill", "-f", "chromium|chrome").Run()
	case "windows":
		_ = exec.Command("taskkill", "/F", "/IM", "chrome.exe").Run()
		_ = exec.Command("taskkill", "/F", "/IM", "chromium.exe").Run()
	}
}

// Package testutil provides browser automation helpers for the harness tests.
// It wraps Rod to provide isolated, per-test Chrome contexts.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thesyncim/haloqa/pkg/harness/config"
)

// BrowserConfig configures Chrome launch options.
type BrowserConfig struct {
	Headless   bool          // Run in headless mode (default: true)
	Timeout    time.Duration // Default operation timeout (default: 30s)
	SlowMotion time.Duration // Delay inserted before each input action (default: 0)
	Bin        string        // Chrome binary; empty lets Rod find or download one
}

// DefaultBrowserConfig returns sensible defaults for E2E testing.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless: true,
		Timeout:  30 * time.Second,
	}
}

// BrowserConfigFrom derives launch options from harness configuration.
func BrowserConfigFrom(cfg config.Config) BrowserConfig {
	return BrowserConfig{
		Headless:   cfg.Headless,
		Timeout:    cfg.Timeout,
		SlowMotion: cfg.SlowMotion,
	}
}

// BrowserClient owns one Chrome process. Tests share it and isolate
// themselves with NewSession.
type BrowserClient struct {
	browser *rod.Browser
	timeout time.Duration
	log     *zap.Logger
}

// NewBrowserClient launches Chrome and connects to it.
// The browser is configured with:
//   - No sandbox (for container compatibility)
//   - No GPU
//   - The automation-controlled blink feature disabled
func NewBrowserClient(cfg BrowserConfig, log *zap.Logger) (*BrowserClient, error) {
	if log == nil {
		log = zap.NewNop()
	}
	l := launcher.New().
		Headless(cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-blink-features", "AutomationControlled")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if cfg.SlowMotion > 0 {
		browser = browser.SlowMotion(cfg.SlowMotion)
	}
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultBrowserConfig().Timeout
	}
	return &BrowserClient{
		browser: browser,
		timeout: timeout,
		log:     log,
	}, nil
}

// Browser returns the underlying Rod browser.
func (c *BrowserClient) Browser() *rod.Browser {
	return c.browser
}

// Timeout returns the default operation timeout.
func (c *BrowserClient) Timeout() time.Duration {
	return c.timeout
}

// Close cleans up browser resources.
// Always call this (via defer) to prevent orphaned Chrome processes.
func (c *BrowserClient) Close() error {
	if c.browser != nil {
		return c.browser.Close()
	}
	return nil
}

// Session is one isolated browser context with a single page.
type Session struct {
	ID      uuid.UUID
	Page    *rod.Page
	context *rod.Browser
	timeout time.Duration
	log     *zap.Logger
}

// NewSession opens an incognito browser context, creates a page in it and
// applies opts to the page before anything is loaded.
func (c *BrowserClient) NewSession(opts ContextOptions) (*Session, error) {
	incognito, err := c.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := incognito.Page(protoBlankTarget())
	if err != nil {
		_ = incognito.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	id := uuid.New()
	s := &Session{
		ID:      id,
		Page:    page,
		context: incognito,
		timeout: c.timeout,
		log:     c.log.With(zap.String("session", id.String())),
	}
	if err := opts.apply(incognito, page); err != nil {
		_ = s.Close()
		return nil, err
	}
	s.log.Debug("Browser session opened")
	return s, nil
}

// Navigate opens url and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	p := s.Page.Context(ctx).Timeout(s.timeout)
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	s.log.Debug("Navigated", zap.String("url", url))
	return nil
}

const stableWindow = 300 * time.Millisecond

// Eval executes JavaScript and decodes the result into v.
// A nil v discards the result.
func (s *Session) Eval(v any, js string, args ...any) error {
	result, err := s.Page.Eval(js, args...)
	if err != nil {
		return fmt.Errorf("eval failed: %w", err)
	}
	if v == nil {
		return nil
	}
	if err := result.Value.Unmarshal(v); err != nil {
		return fmt.Errorf("decode eval result: %w", err)
	}
	return nil
}

// WaitStable waits until the DOM has not changed for a short window,
// giving up after the session timeout.
func (s *Session) WaitStable() error {
	if err := s.Page.Timeout(s.timeout).WaitStable(stableWindow); err != nil {
		return fmt.Errorf("page not stable: %w", err)
	}
	return nil
}

// Logger returns a logger tagged with the session id.
func (s *Session) Logger() *zap.Logger {
	return s.log
}

// Close releases the page and its browser context.
func (s *Session) Close() error {
	var errs []error
	if s.Page != nil {
		if err := s.Page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
	}
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser context: %w", err))
		}
	}
	s.log.Debug("Browser session closed")
	return errors.Join(errs...)
}

package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// client does not pool connections, so nothing outlives a test.
var client = &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}

func TestServerStartStop(t *testing.T) {
	// Create server with random port
	srv, err := NewServer(DefaultConfig(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}

	addr, err := srv.Start()
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Verify we got a real address (not :0)
	if addr == "" || addr == ":0" {
		t.Errorf("Start() returned invalid address: %q", addr)
	}
	t.Logf("Server started on %s", addr)

	if got := srv.Addr(); got != addr {
		t.Errorf("Addr() = %q, want %q", got, addr)
	}

	url := "http://" + addr + "/"
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("HTTP GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if !strings.Contains(string(body), "Let's Talk") {
		t.Error("Response body doesn't contain expected HTML")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}

	// Verify server is stopped (should fail to connect)
	if _, err := client.Get(url); err == nil {
		t.Error("Expected connection error after shutdown, but request succeeded")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Addr != ":0" {
		t.Errorf("DefaultConfig().Addr = %q, want %q", cfg.Addr, ":0")
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("DefaultConfig().ReadTimeout = %v, want %v", cfg.ReadTimeout, 30*time.Second)
	}
	if cfg.WriteTimeout != 30*time.Second {
		t.Errorf("DefaultConfig().WriteTimeout = %v, want %v", cfg.WriteTimeout, 30*time.Second)
	}
}

func TestNewServerRequiresAddr(t *testing.T) {
	if _, err := NewServer(Config{}, nil); err == nil {
		t.Error("NewServer() with empty address succeeded, want error")
	}
}

func TestServerDoubleStart(t *testing.T) {
	srv, err := NewServer(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	defer srv.Shutdown(context.Background())

	addr1, err := srv.Start()
	if err != nil {
		t.Fatalf("First Start() failed: %v", err)
	}

	// Second start should return same address (no error)
	addr2, err := srv.Start()
	if err != nil {
		t.Fatalf("Second Start() failed: %v", err)
	}

	if addr1 != addr2 {
		t.Errorf("Second Start() returned different address: %q vs %q", addr1, addr2)
	}
}

func TestStartAfterShutdown(t *testing.T) {
	srv, err := NewServer(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	if _, err := srv.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}

	addr, err := srv.Start()
	if !errors.Is(err, ErrStopped) {
		t.Errorf("Start() after Shutdown() error = %v, want ErrStopped", err)
	}
	if addr != "" {
		t.Errorf("Start() after Shutdown() returned address %q, want empty", addr)
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	srv, err := NewServer(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() before Start() = %v, want nil", err)
	}
	if got := srv.Addr(); got != "" {
		t.Errorf("Addr() before Start() = %q, want empty", got)
	}
}

func serve(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler(zap.NewNop()).ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandlerRoutes(t *testing.T) {
	tests := []struct {
		method string
		target string
		status int
		allow  string
	}{
		{http.MethodGet, "/", http.StatusOK, ""},
		{http.MethodHead, "/", http.StatusOK, ""},
		{http.MethodGet, "/?utm_source=test", http.StatusOK, ""},
		{http.MethodGet, "/contact", http.StatusNotFound, ""},
		{http.MethodGet, "/index.html", http.StatusNotFound, ""},
		{http.MethodPost, "/", http.StatusMethodNotAllowed, "GET, HEAD"},
		{http.MethodDelete, "/", http.StatusMethodNotAllowed, "GET, HEAD"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := serve(t, tt.method, tt.target)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := rec.Header().Get("Allow"); got != tt.allow {
				t.Errorf("Allow = %q, want %q", got, tt.allow)
			}
		})
	}
}

func TestHandlerHeadHasNoBody(t *testing.T) {
	rec := serve(t, http.MethodHead, "/")
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD body length = %d, want 0", rec.Body.Len())
	}
	if got, want := rec.Header().Get("Content-Length"), strconv.Itoa(len(ContactPage)); got != want {
		t.Errorf("Content-Length = %q, want %q", got, want)
	}
}

func TestHandlerResponseIsStable(t *testing.T) {
	first := serve(t, http.MethodGet, "/").Body.String()
	second := serve(t, http.MethodGet, "/").Body.String()
	if first != second || first != ContactPage {
		t.Error("GET / did not return ContactPage verbatim on every request")
	}
	if ct := serve(t, http.MethodGet, "/").Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestContactPageStructure(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(ContactPage))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}

	if got := doc.Find("title").Text(); got != "Contact Us" {
		t.Errorf("title = %q, want %q", got, "Contact Us")
	}
	if got := strings.TrimSpace(doc.Find("h1.hero__title").Text()); got != "Let's Talk" {
		t.Errorf("hero title = %q, want %q", got, "Let's Talk")
	}

	toggle := doc.Find("button.menu-toggle")
	if toggle.Length() != 1 {
		t.Fatalf("found %d menu toggles, want 1", toggle.Length())
	}
	if v, _ := toggle.Attr("aria-expanded"); v != "false" {
		t.Errorf("toggle aria-expanded = %q, want %q", v, "false")
	}
	if v, _ := toggle.Attr("aria-label"); v != "Toggle navigation menu" {
		t.Errorf("toggle aria-label = %q", v)
	}
	if n := toggle.Find(".menu-toggle__line").Length(); n != 3 {
		t.Errorf("toggle has %d lines, want 3", n)
	}

	nav := doc.Find("nav.navigation-menu")
	if v, _ := nav.Attr("aria-hidden"); v != "true" {
		t.Errorf("menu aria-hidden = %q, want %q", v, "true")
	}
	var links []string
	nav.Find("a.nav-item").Each(func(_ int, s *goquery.Selection) {
		links = append(links, s.Text())
	})
	if got, want := strings.Join(links, ","), "About,Services,Work,Contact"; got != want {
		t.Errorf("nav links = %q, want %q", got, want)
	}

	if n := doc.Find(".contact-grid .contact-card").Length(); n != 3 {
		t.Errorf("found %d contact cards, want 3", n)
	}
	if href, _ := doc.Find(`.contact-card__link[href^="mailto:"]`).Attr("href"); href != "mailto:inquiry@example.com" {
		t.Errorf("email link = %q", href)
	}
	if href, _ := doc.Find(`.contact-card__link[href^="tel:"]`).Attr("href"); href != "tel:+12133378573" {
		t.Errorf("phone link = %q", href)
	}
	doc.Find(".social-link").Each(func(_ int, s *goquery.Selection) {
		if rel, _ := s.Attr("rel"); rel != "noopener" {
			t.Errorf("social link %q rel = %q, want noopener", s.Text(), rel)
		}
	})
	if doc.Find("main.main").Length() != 1 {
		t.Error("page has no main.main element")
	}
}

package testutil

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/thesyncim/haloqa/pkg/harness/search"
)

//go:embed mocksite/*.html
var mockSiteFS embed.FS

var mockTemplates = template.Must(template.ParseFS(mockSiteFS, "mocksite/*.html"))

// ConsentMode selects how the mock search page asks for consent.
type ConsentMode string

const (
	ConsentNone   ConsentMode = ""
	ConsentInline ConsentMode = "inline" // Dialog in the main document
	ConsentFrame  ConsentMode = "frame"  // Dialog inside an iframe
)

// ChallengeMode selects when the mock site shows a CAPTCHA.
type ChallengeMode int

const (
	ChallengeNone        ChallengeMode = iota
	ChallengeOnLoad                    // reCAPTCHA frame on the search page
	ChallengeAfterSearch               // Redirect to /sorry/index on submit
)

// MockResult is one search result served by the mock site.
type MockResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// MockSiteOptions configure a MockSearchSite.
type MockSiteOptions struct {
	Consent   ConsentMode
	Challenge ChallengeMode
	// Results are served for every query. Nil generates results from the
	// query, including one with an empty title.
	Results []MockResult
}

// MockSearchSite is a local stand-in for a search engine. It serves a search
// page, a results page filled from a JSON API and a challenge page.
type MockSearchSite struct {
	opts MockSiteOptions
	mux  *http.ServeMux

	mu      sync.Mutex
	queries []string
}

// NewMockSearchSite builds the handler.
func NewMockSearchSite(opts MockSiteOptions) *MockSearchSite {
	s := &MockSearchSite{opts: opts, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /consent", s.handleConsent)
	s.mux.HandleFunc("GET /search", s.handleSearch)
	s.mux.HandleFunc("GET /api/results", s.handleResults)
	s.mux.HandleFunc("GET /sorry/index", s.handleSorry)
	return s
}

// MockMarkers returns markers matching the mock site's consent frame.
func MockMarkers() search.Markers {
	m := search.DefaultMarkers()
	m.ConsentFrame = `iframe[src="/consent"]`
	return m
}

// Start serves the site on a local port until t finishes and returns its URL.
func (s *MockSearchSite) Start(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return srv.URL
}

// Queries returns the queries submitted to /search, in order.
func (s *MockSearchSite) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

func (s *MockSearchSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *MockSearchSite) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = mockTemplates.ExecuteTemplate(w, name, data)
}

func (s *MockSearchSite) handleIndex(w http.ResponseWriter, r *http.Request) {
	consent := s.opts.Consent
	if c, err := r.Cookie("consent"); err == nil && c.Value == "yes" {
		consent = ConsentNone
	}
	s.render(w, http.StatusOK, "index.html", struct {
		Consent         ConsentMode
		ChallengeOnLoad bool
	}{consent, s.opts.Challenge == ChallengeOnLoad})
}

func (s *MockSearchSite) handleConsent(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "consent.html", nil)
}

func (s *MockSearchSite) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()

	if s.opts.Challenge == ChallengeAfterSearch {
		target := "/sorry/index?continue=" + url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, target, http.StatusFound)
		return
	}
	s.render(w, http.StatusOK, "results.html", struct{ Query string }{q})
}

func (s *MockSearchSite) handleResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results := s.opts.Results
	if results == nil {
		results = generatedResults(q)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Query   string       `json:"query"`
		Results []MockResult `json:"results"`
	}{q, results})
}

func (s *MockSearchSite) handleSorry(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusTooManyRequests, "sorry.html", nil)
}

func generatedResults(q string) []MockResult {
	slug := url.PathEscape(q)
	return []MockResult{
		{Title: q + " - Official Site", URL: "https://example.com/" + slug},
		{Title: "", URL: "https://example.com/empty"},
		{Title: "Learn " + q + " step by step", URL: "https://example.org/learn/" + slug},
		{Title: q + " - Wikipedia", URL: "https://en.wikipedia.org/wiki/" + slug},
	}
}

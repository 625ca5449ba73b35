// Package search drives a search engine results page through a human-paced
// interaction: consent dismissal, challenge detection, typed query
// submission and result extraction.
//
// Every challenge is reported as a *ChallengeError (errors.Is ErrCaptcha) so
// callers can skip an inconclusive run instead of failing it. Any other
// error is an infrastructure or page failure.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/thesyncim/haloqa/pkg/harness/jitter"
	"github.com/thesyncim/haloqa/pkg/harness/pageobject"
)

// consentButtonSelector selects candidate consent buttons before text matching.
const consentButtonSelector = `button, [role="button"], input[type="submit"]`

// Timeouts bounds each blocking step of the workflow.
type Timeouts struct {
	ConsentIdle time.Duration // Network idle after dismissing consent
	SearchInput time.Duration // Search input becoming visible
	NetworkIdle time.Duration // Network idle after submitting the query
	Results     time.Duration // A results container appearing
	IdleWindow  time.Duration // Quiet period that counts as network idle
}

// DefaultTimeouts returns the timeouts used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		ConsentIdle: 5 * time.Second,
		SearchInput: 5 * time.Second,
		NetworkIdle: 10 * time.Second,
		Results:     10 * time.Second,
		IdleWindow:  500 * time.Millisecond,
	}
}

// Option configures a Workflow.
type Option func(*Workflow) error

// WithJitter sets the delay provider. Use jitter.None{} in tests.
func WithJitter(p jitter.Provider) Option {
	return func(w *Workflow) error {
		if p == nil {
			return errors.New("jitter provider must not be nil")
		}
		w.jitter = p
		return nil
	}
}

// WithThinkTime sets the pause taken before and after deliberate actions.
// Default: 500ms to 1.5s
func WithThinkTime(r jitter.Range) Option {
	return func(w *Workflow) error {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("think time: %w", err)
		}
		w.think = r
		return nil
	}
}

// WithKeystrokeDelay sets the pause after each typed character.
// Default: 150ms to 450ms
func WithKeystrokeDelay(r jitter.Range) Option {
	return func(w *Workflow) error {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("keystroke delay: %w", err)
		}
		w.keystroke = r
		return nil
	}
}

// WithMarkers replaces the page markers.
func WithMarkers(m Markers) Option {
	return func(w *Workflow) error {
		if err := m.Validate(); err != nil {
			return err
		}
		w.markers = m
		return nil
	}
}

// WithTimeouts replaces the step timeouts. Zero fields keep their defaults.
func WithTimeouts(t Timeouts) Option {
	return func(w *Workflow) error {
		d := &w.timeouts
		for _, f := range []struct {
			dst *time.Duration
			src time.Duration
		}{
			{&d.ConsentIdle, t.ConsentIdle},
			{&d.SearchInput, t.SearchInput},
			{&d.NetworkIdle, t.NetworkIdle},
			{&d.Results, t.Results},
			{&d.IdleWindow, t.IdleWindow},
		} {
			if f.src < 0 {
				return errors.New("timeouts must not be negative")
			}
			if f.src > 0 {
				*f.dst = f.src
			}
		}
		return nil
	}
}

// WithSignals replaces the CAPTCHA signals probed on the page.
func WithSignals(signals ...Signal) Option {
	return func(w *Workflow) error {
		w.signals = signals
		return nil
	}
}

// WithLogger sets the workflow logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workflow) error {
		if l != nil {
			w.log = l
		}
		return nil
	}
}

// Workflow drives one page. It is not safe for concurrent use.
type Workflow struct {
	page      *rod.Page
	actions   *pageobject.Base
	markers   Markers
	jitter    jitter.Provider
	think     jitter.Range
	keystroke jitter.Range
	timeouts  Timeouts
	signals   []Signal
	typer     keyTyper
	log       *zap.Logger
}

// NewWorkflow binds a workflow to page.
func NewWorkflow(page *rod.Page, opts ...Option) (*Workflow, error) {
	if page == nil {
		return nil, errors.New("page must not be nil")
	}
	w := &Workflow{
		page:      page,
		markers:   DefaultMarkers(),
		jitter:    jitter.NewRandom(0),
		think:     jitter.Range{Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond},
		keystroke: jitter.Range{Min: 150 * time.Millisecond, Max: 450 * time.Millisecond},
		timeouts:  DefaultTimeouts(),
		typer:     pageTyper{page: page},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	if w.signals == nil {
		w.signals = PageSignals(page, w.markers)
	}
	w.actions = pageobject.New(page, pageobject.WithLogger(w.log))
	return w, nil
}

// Markers returns the markers in use.
func (w *Workflow) Markers() Markers {
	return w.markers
}

// Actions returns the generic element actions bound to the same page.
func (w *Workflow) Actions() *pageobject.Base {
	return w.actions
}

func (w *Workflow) pause(ctx context.Context) error {
	return w.jitter.Pause(ctx, w.think)
}

// idleWaiter starts watching network traffic; the returned func blocks until
// the network has been quiet for the idle window or timeout expires.
func (w *Workflow) idleWaiter(ctx context.Context, timeout time.Duration) func() {
	p := w.page.Context(ctx).Timeout(timeout)
	wait := p.WaitRequestIdle(w.timeouts.IdleWindow, nil, nil, nil)
	return func() {
		wait()
		p.CancelTimeout()
	}
}

// CaptchaPresent probes the current page for a challenge. It never fails:
// a probe that cannot be evaluated counts as no challenge.
func (w *Workflow) CaptchaPresent(ctx context.Context) bool {
	return Probe(ctx, w.log, w.signals)
}

// HandleConsent dismisses a consent dialog if one is showing, first in the
// main document and then inside the consent frame. It reports whether a
// button was clicked. A missing dialog is not an error.
func (w *Workflow) HandleConsent(ctx context.Context) bool {
	if err := w.pause(ctx); err != nil {
		return false
	}

	clicked, err := w.clickConsent(ctx, w.page)
	if err != nil {
		w.log.Warn("Failed to handle consent dialog", zap.Error(err))
		return false
	}
	if clicked || w.markers.ConsentFrame == "" {
		return clicked
	}

	has, frameEl, err := w.page.Context(ctx).Has(w.markers.ConsentFrame)
	if err != nil {
		w.log.Warn("Failed to look up consent frame", zap.Error(err))
		return false
	}
	if !has {
		w.log.Debug("No consent dialog found or already accepted")
		return false
	}
	frame, err := frameEl.Frame()
	if err != nil {
		w.log.Warn("Failed to enter consent frame", zap.Error(err))
		return false
	}
	clicked, err = w.clickConsent(ctx, frame)
	if err != nil {
		w.log.Warn("Failed to handle consent dialog in frame", zap.Error(err))
		return false
	}
	return clicked
}

// clickConsent clicks the first visible button in doc whose text or
// aria-label equals one of the consent texts, in marker order.
func (w *Workflow) clickConsent(ctx context.Context, doc *rod.Page) (bool, error) {
	buttons, err := doc.Context(ctx).Elements(consentButtonSelector)
	if err != nil {
		return false, err
	}
	names := make([][]string, len(buttons))
	for i, b := range buttons {
		names[i] = accessibleNames(b)
	}

	for _, text := range w.markers.ConsentButtons {
		for i, b := range buttons {
			if !containsExact(names[i], text) {
				continue
			}
			if visible, err := b.Visible(); err != nil || !visible {
				continue
			}
			if err := b.Hover(); err != nil {
				w.log.Debug("Consent button hover failed", zap.String("button", text), zap.Error(err))
				continue
			}
			if err := w.pause(ctx); err != nil {
				return false, err
			}
			wait := w.idleWaiter(ctx, w.timeouts.ConsentIdle)
			if err := b.Click(proto.InputMouseButtonLeft, 1); err != nil {
				w.log.Debug("Consent button click failed", zap.String("button", text), zap.Error(err))
				continue
			}
			wait()
			w.log.Info("Dismissed consent dialog", zap.String("button", text))
			return true, nil
		}
	}
	return false, nil
}

func accessibleNames(el *rod.Element) []string {
	var names []string
	if text, err := el.Text(); err == nil {
		names = append(names, strings.TrimSpace(text))
	}
	for _, attr := range []string{"aria-label", "value"} {
		if v, err := el.Attribute(attr); err == nil && v != nil {
			names = append(names, strings.TrimSpace(*v))
		}
	}
	return names
}

func containsExact(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

// PerformSearch dismisses consent, checks for a challenge, types query into
// the search box like a person would, submits it and waits for results.
func (w *Workflow) PerformSearch(ctx context.Context, query string) error {
	if err := w.performSearch(ctx, query); err != nil {
		return fmt.Errorf("failed to perform search for %q: %w", query, err)
	}
	return nil
}

func (w *Workflow) performSearch(ctx context.Context, query string) error {
	w.HandleConsent(ctx)

	if err := w.CheckChallenge(ctx, StageBeforeSearch); err != nil {
		return err
	}

	el, err := w.actions.WaitVisible(ctx, w.markers.SearchInput, w.timeouts.SearchInput)
	if err != nil {
		return err
	}
	if err := el.Hover(); err != nil {
		return fmt.Errorf("hover search input: %w", err)
	}
	if err := w.pause(ctx); err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("focus search input: %w", err)
	}
	if err := typeText(ctx, w.typer, w.jitter, w.keystroke, query); err != nil {
		return err
	}
	if err := w.pause(ctx); err != nil {
		return err
	}

	wait := w.idleWaiter(ctx, w.timeouts.NetworkIdle)
	if err := w.page.Keyboard.Type(input.Enter); err != nil {
		return fmt.Errorf("submit query: %w", err)
	}
	wait()

	if err := w.CheckChallenge(ctx, StageAfterSearch); err != nil {
		return err
	}

	if err := w.WaitResults(ctx); err != nil {
		return err
	}
	w.log.Info("Search results ready", zap.String("query", query))
	return nil
}

// WaitResults blocks until a results container is on the page.
func (w *Workflow) WaitResults(ctx context.Context) error {
	p := w.page.Context(ctx).Timeout(w.timeouts.Results)
	defer p.CancelTimeout()
	if _, err := p.ElementX(w.markers.resultsXPath()); err != nil {
		return fmt.Errorf("wait for results: %w", err)
	}
	return nil
}

// CheckChallenge returns a *ChallengeError for stage when the page shows a
// challenge, and nil otherwise.
func (w *Workflow) CheckChallenge(ctx context.Context, stage Stage) error {
	if !w.CaptchaPresent(ctx) {
		return nil
	}
	return w.challenge(ctx, stage)
}

func (w *Workflow) challenge(ctx context.Context, stage Stage) error {
	err := &ChallengeError{Stage: stage}
	if info, ierr := w.page.Context(ctx).Info(); ierr == nil {
		err.URL = info.URL
	}
	w.log.Warn("CAPTCHA challenge encountered", zap.String("stage", string(stage)), zap.String("url", err.URL))
	return err
}

// Results returns the visible titles of the result headings in document
// order, skipping headings without text.
func (w *Workflow) Results(ctx context.Context) ([]string, error) {
	els, err := w.page.Context(ctx).ElementsX(w.markers.ResultHeading)
	if err != nil {
		return nil, fmt.Errorf("failed to get search results: %w", err)
	}
	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, fmt.Errorf("failed to get search results: %w", err)
		}
		texts = append(texts, text)
	}
	return nonEmpty(texts), nil
}

// Search runs PerformSearch followed by Results.
func (w *Workflow) Search(ctx context.Context, query string) ([]string, error) {
	if err := w.PerformSearch(ctx, query); err != nil {
		return nil, err
	}
	return w.Results(ctx)
}

// nonEmpty drops blank strings and preserves order. A heading holding only
// whitespace renders as nothing, so it counts as blank too.
func nonEmpty(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Package steps binds the search scenarios' Gherkin phrases to the harness.
//
// Each scenario gets its own browser context, opened before the first step
// and closed after the last. A CAPTCHA challenge at any step skips the
// scenario instead of failing it.
package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/go-rod/rod/lib/input"
	"go.uber.org/zap"

	"github.com/thesyncim/haloqa/pkg/harness/config"
	"github.com/thesyncim/haloqa/pkg/harness/jitter"
	"github.com/thesyncim/haloqa/pkg/harness/pageobject"
	"github.com/thesyncim/haloqa/pkg/harness/retry"
	"github.com/thesyncim/haloqa/pkg/harness/search"
	"github.com/thesyncim/haloqa/pkg/harness/testutil"
)

// Suite holds what every scenario shares.
type Suite struct {
	Client  *testutil.BrowserClient
	Config  config.Config
	Markers search.Markers
	// Jitter paces the workflow. Nil uses random human-like delays.
	Jitter jitter.Provider
	// Visit is the retry policy of the navigation step.
	// Zero uses three attempts starting at one second.
	Visit   retry.Policy
	Context testutil.ContextOptions
	// ScreenshotOnFailure saves the page into Config.ScreenshotDir when a
	// scenario fails or is skipped for a challenge.
	ScreenshotOnFailure bool
	Log                 *zap.Logger
}

// InitializeScenario registers the hooks and steps for one scenario.
func (s *Suite) InitializeScenario(sc *godog.ScenarioContext) {
	w := &world{suite: s, log: s.logger()}

	sc.Before(w.open)
	sc.After(w.close)

	sc.Step(`^I am on the search page$`, w.onSearchPage)
	sc.Step(`^I enter "([^"]*)" in the search box$`, w.enterText)
	sc.Step(`^I click the search button$`, w.clickSearch)
	sc.Step(`^I search for "([^"]*)"$`, w.searchFor)
	sc.Step(`^I should see search results$`, w.seeResults)
	sc.Step(`^the first result should contain "([^"]*)"$`, w.firstResultContains)
	sc.Step(`^the page title should contain "([^"]*)"$`, w.titleContains)
}

func (s *Suite) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// world is the state of a single scenario.
type world struct {
	suite    *Suite
	log      *zap.Logger
	session  *testutil.Session
	workflow *search.Workflow
	actions  *pageobject.Base
}

func (w *world) open(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	session, err := w.suite.Client.NewSession(w.suite.Context)
	if err != nil {
		return ctx, err
	}
	w.session = session
	w.log = w.suite.logger().With(zap.String("scenario", sc.Name), zap.String("session", session.ID.String()))

	markers := w.suite.Markers
	if markers.SearchInput == "" {
		markers = search.DefaultMarkers()
	}
	opts := []search.Option{search.WithMarkers(markers), search.WithLogger(w.log)}
	if w.suite.Jitter != nil {
		opts = append(opts, search.WithJitter(w.suite.Jitter))
	}
	wf, err := search.NewWorkflow(session.Page, opts...)
	if err != nil {
		_ = session.Close()
		return ctx, err
	}
	w.workflow = wf
	w.actions = pageobject.New(session.Page,
		pageobject.WithTimeout(w.suite.Config.Timeout),
		pageobject.WithLogger(w.log))
	return ctx, nil
}

func (w *world) close(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
	if w.session == nil {
		return ctx, nil
	}
	if err != nil && w.suite.ScreenshotOnFailure {
		if path, serr := testutil.Screenshot(w.session.Page, w.suite.Config.ScreenshotDir, sc.Name); serr == nil {
			w.log.Info("Saved failure screenshot", zap.String("path", path))
		} else {
			w.log.Warn("Failed to save screenshot", zap.Error(serr))
		}
	}
	if cerr := w.session.Close(); cerr != nil {
		w.log.Warn("Failed to close browser session", zap.Error(cerr))
	}
	w.session = nil
	return ctx, nil
}

// skipOnChallenge turns a challenge into a skipped scenario.
func (w *world) skipOnChallenge(err error) error {
	if search.IsChallenge(err) {
		w.log.Warn("Skipping scenario", zap.Error(err))
		return godog.ErrSkip
	}
	return err
}

func (w *world) markers() search.Markers {
	return w.workflow.Markers()
}

func (w *world) visitPolicy() retry.Policy {
	p := w.suite.Visit
	if p.Attempts == 0 {
		p = retry.DefaultPolicy()
	}
	p.Permanent = search.IsChallenge
	p.OnRetry = func(attempt int, delay time.Duration, err error) {
		w.log.Warn("Search page visit failed, retrying",
			zap.Int("attempt", attempt+1), zap.Duration("backoff", delay), zap.Error(err))
	}
	return p
}

func (w *world) onSearchPage(ctx context.Context) error {
	url := w.suite.Config.BaseURL
	err := retry.Run(ctx, w.visitPolicy(), func(ctx context.Context) error {
		w.log.Info("Navigating to search page", zap.String("url", url))
		if err := w.session.Navigate(ctx, url); err != nil {
			return err
		}
		if err := w.workflow.CheckChallenge(ctx, search.StageInitial); err != nil {
			return err
		}
		w.workflow.HandleConsent(ctx)
		if _, err := w.actions.WaitVisible(ctx, w.markers().SearchInput, 0); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return w.skipOnChallenge(fmt.Errorf("failed to visit search page: %w", err))
	}
	w.log.Info("Successfully navigated to search page")
	return nil
}

func (w *world) enterText(ctx context.Context, text string) error {
	if err := w.actions.Fill(ctx, w.markers().SearchInput, text); err != nil {
		return fmt.Errorf("failed to enter search text: %w", err)
	}
	if err := w.session.Page.Keyboard.Type(input.Tab); err != nil {
		return fmt.Errorf("failed to enter search text: %w", err)
	}
	w.log.Info("Entered search text", zap.String("text", text))
	return nil
}

func (w *world) clickSearch(ctx context.Context) error {
	if _, err := w.actions.WaitVisible(ctx, w.markers().SearchButton, 0); err != nil {
		return fmt.Errorf("failed to click search button: %w", err)
	}
	if err := w.actions.Click(ctx, w.markers().SearchButton); err != nil {
		return fmt.Errorf("failed to click search button: %w", err)
	}
	if err := w.workflow.CheckChallenge(ctx, search.StageAfterSearch); err != nil {
		return w.skipOnChallenge(err)
	}
	if err := w.workflow.WaitResults(ctx); err != nil {
		return fmt.Errorf("failed to click search button: %w", err)
	}
	return nil
}

func (w *world) searchFor(ctx context.Context, query string) error {
	return w.skipOnChallenge(w.workflow.PerformSearch(ctx, query))
}

func (w *world) seeResults(ctx context.Context) error {
	if err := w.workflow.WaitResults(ctx); err != nil {
		return fmt.Errorf("no search results: %w", err)
	}
	return nil
}

func (w *world) firstResultContains(ctx context.Context, text string) error {
	results, err := w.workflow.Results(ctx)
	if err != nil {
		return err
	}
	return checkFirstResult(results, text)
}

func (w *world) titleContains(ctx context.Context, text string) error {
	info, err := w.session.Page.Context(ctx).Info()
	if err != nil {
		return fmt.Errorf("read page title: %w", err)
	}
	return checkTitle(info.Title, text)
}

var errNoResults = errors.New("no search results found")

// checkFirstResult reports whether the first result contains want, ignoring case.
func checkFirstResult(results []string, want string) error {
	if len(results) == 0 {
		return errNoResults
	}
	if !strings.Contains(strings.ToLower(results[0]), strings.ToLower(want)) {
		return fmt.Errorf("first result %q does not contain %q", results[0], want)
	}
	return nil
}

func checkTitle(title, want string) error {
	if !strings.Contains(title, want) {
		return fmt.Errorf("page title %q does not contain %q", title, want)
	}
	return nil
}

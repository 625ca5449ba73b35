package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"go.uber.org/zap"
)

// Signal is one independent CAPTCHA indicator.
type Signal struct {
	Name  string
	Check func(ctx context.Context) (bool, error)
}

// Probe evaluates every signal and reports whether any fired.
//
// The probe is fail-open: if any signal returns an error the result is
// false, even when another signal fired, so infrastructure failures are never
// reported as challenges.
func Probe(ctx context.Context, log *zap.Logger, signals []Signal) bool {
	detected := false
	var failed []string
	for _, s := range signals {
		hit, err := s.Check(ctx)
		if err != nil {
			failed = append(failed, s.Name)
			log.Debug("CAPTCHA signal failed", zap.String("signal", s.Name), zap.Error(err))
			continue
		}
		if hit {
			log.Debug("CAPTCHA signal fired", zap.String("signal", s.Name))
			detected = true
		}
	}
	if len(failed) > 0 {
		log.Debug("CAPTCHA probe treated as negative", zap.Strings("failed_signals", failed))
		return false
	}
	return detected
}

// visibleTextJS reports whether any visible element's text contains the argument.
const visibleTextJS = `(text) => {
	if (!document.body) return false;
	const walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT);
	while (walker.nextNode()) {
		const node = walker.currentNode;
		if (!node.textContent || !node.textContent.includes(text)) continue;
		const el = node.parentElement;
		if (!el) continue;
		const style = window.getComputedStyle(el);
		if (style.visibility === 'hidden' || style.display === 'none') continue;
		const rect = el.getBoundingClientRect();
		if (rect.width > 0 && rect.height > 0) return true;
	}
	return false;
}`

// PageSignals builds the three challenge signals for page: challenge URL,
// visible warning text and embedded challenge frame.
func PageSignals(page *rod.Page, m Markers) []Signal {
	return []Signal{
		{
			Name: "challenge_url",
			Check: func(ctx context.Context) (bool, error) {
				info, err := page.Context(ctx).Info()
				if err != nil {
					return false, err
				}
				return m.ChallengePath != "" && strings.Contains(info.URL, m.ChallengePath), nil
			},
		},
		{
			Name: "challenge_text",
			Check: func(ctx context.Context) (bool, error) {
				for _, text := range m.ChallengeTexts {
					res, err := page.Context(ctx).Eval(visibleTextJS, text)
					if err != nil {
						return false, fmt.Errorf("probe text %q: %w", text, err)
					}
					if res.Value.Bool() {
						return true, nil
					}
				}
				return false, nil
			},
		},
		{
			Name: "challenge_frame",
			Check: func(ctx context.Context) (bool, error) {
				if m.ChallengeFrame == "" {
					return false, nil
				}
				els, err := page.Context(ctx).Elements(m.ChallengeFrame)
				if err != nil {
					return false, err
				}
				return len(els) > 0, nil
			},
		},
	}
}

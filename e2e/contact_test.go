//go:build e2e

package e2e

import (
	"testing"

	"github.com/thesyncim/haloqa/pkg/harness/devices"
	"github.com/thesyncim/haloqa/pkg/harness/pageobject"
	"github.com/thesyncim/haloqa/pkg/harness/testutil"
)

const (
	menuToggle = ".menu-toggle"
	menu       = ".navigation-menu"
)

func openContactPage(t *testing.T, opts testutil.ContextOptions) *pageobject.Base {
	t.Helper()
	url := startServer(t)
	s := newSession(t, opts)
	if err := s.Navigate(testContext(t), url); err != nil {
		t.Fatalf("failed to navigate: %v", err)
	}
	return pageobject.New(s.Page, pageobject.WithTimeout(cfg.Timeout))
}

func attr(t *testing.T, p *pageobject.Base, selector, name string) string {
	t.Helper()
	v, ok, err := p.Attribute(testContext(t), selector, name)
	if err != nil {
		t.Fatalf("read %s of %s: %v", name, selector, err)
	}
	if !ok {
		t.Fatalf("%s has no %s attribute", selector, name)
	}
	return v
}

func assertMenu(t *testing.T, p *pageobject.Base, open bool) {
	t.Helper()
	expanded, hidden := "false", "true"
	if open {
		expanded, hidden = "true", "false"
	}
	if got := attr(t, p, menuToggle, "aria-expanded"); got != expanded {
		t.Errorf("toggle aria-expanded = %q, want %q", got, expanded)
	}
	if got := attr(t, p, menu, "aria-hidden"); got != hidden {
		t.Errorf("menu aria-hidden = %q, want %q", got, hidden)
	}
	n, err := p.Count(testContext(t), menu+".navigation-menu--visible")
	if err != nil {
		t.Fatalf("count visible menus: %v", err)
	}
	if (n == 1) != open {
		t.Errorf("menu visible class present = %v, want %v", n == 1, open)
	}
}

func TestContactPage_Loads(t *testing.T) {
	p := openContactPage(t, testutil.ContextOptions{Viewport: devices.Viewport{Width: 1280, Height: 720}})
	ctx := testContext(t)

	info, err := p.Page().Info()
	if err != nil {
		t.Fatalf("page info: %v", err)
	}
	if info.Title != "Contact Us" {
		t.Errorf("title = %q, want %q", info.Title, "Contact Us")
	}

	if _, err := p.WaitVisible(ctx, ".main", 0); err != nil {
		t.Fatalf("main content not visible: %v", err)
	}
	heading, err := p.Text(ctx, ".hero__title")
	if err != nil {
		t.Fatalf("read heading: %v", err)
	}
	if heading != "Let's Talk" {
		t.Errorf("heading = %q, want %q", heading, "Let's Talk")
	}
	cards, err := p.Count(ctx, ".contact-card")
	if err != nil {
		t.Fatalf("count cards: %v", err)
	}
	if cards != 3 {
		t.Errorf("found %d contact cards, want 3", cards)
	}
}

func TestContactPage_DesktopNavigation(t *testing.T) {
	p := openContactPage(t, testutil.ContextOptions{Viewport: devices.Viewport{Width: 1280, Height: 720}})
	ctx := testContext(t)

	visible, err := p.IsVisible(ctx, menuToggle)
	if err != nil {
		t.Fatalf("check toggle: %v", err)
	}
	if visible {
		t.Error("menu toggle visible on desktop, want hidden")
	}

	for _, link := range []string{`a[href="#about"]`, `a[href="#services"]`, `a[href="#work"]`, `a[href="#contact"]`} {
		visible, err := p.IsVisible(ctx, menu+" "+link)
		if err != nil {
			t.Fatalf("check %s: %v", link, err)
		}
		if !visible {
			t.Errorf("nav link %s hidden on desktop", link)
		}
	}
}

// The toggle only shows below 769px, so the menu runs on a phone.
func TestContactPage_MenuToggle(t *testing.T) {
	phone, err := devices.Lookup(devices.IPhone12)
	if err != nil {
		t.Fatal(err)
	}
	p := openContactPage(t, testutil.ContextOptions{Device: &phone})
	ctx := testContext(t)

	if _, err := p.WaitVisible(ctx, menuToggle, 0); err != nil {
		t.Fatalf("menu toggle not visible on mobile: %v", err)
	}
	assertMenu(t, p, false)

	if err := p.Click(ctx, menuToggle); err != nil {
		t.Fatalf("open menu: %v", err)
	}
	assertMenu(t, p, true)

	if err := p.Click(ctx, menuToggle); err != nil {
		t.Fatalf("close menu: %v", err)
	}
	assertMenu(t, p, false)

	// Clicking outside the menu closes it. The open menu covers the main
	// content, so this goes through the forced click.
	if err := p.Click(ctx, menuToggle); err != nil {
		t.Fatalf("reopen menu: %v", err)
	}
	assertMenu(t, p, true)
	if err := p.Click(ctx, ".hero__subtitle"); err != nil {
		t.Fatalf("click outside menu: %v", err)
	}
	assertMenu(t, p, false)
}

func TestPageObject_FillAndAttributes(t *testing.T) {
	p := openContactPage(t, testutil.ContextOptions{})
	ctx := testContext(t)

	// The page has no form; add one field to exercise Fill.
	if _, err := p.Page().Eval(`() => {
		const input = document.createElement('input');
		input.id = 'probe';
		input.value = 'initial';
		document.querySelector('.hero').appendChild(input);
	}`); err != nil {
		t.Fatalf("inject input: %v", err)
	}

	for _, value := range []string{"hello@example.com", ""} {
		if err := p.Fill(ctx, "#probe", value); err != nil {
			t.Fatalf("fill %q: %v", value, err)
		}
		res, err := p.Page().Eval(`() => document.querySelector('#probe').value`)
		if err != nil {
			t.Fatal(err)
		}
		if got := res.Value.Str(); got != value {
			t.Errorf("value after fill = %q, want %q", got, value)
		}
	}

	if _, present, err := p.Attribute(ctx, ".menu-toggle", "data-missing"); err != nil || present {
		t.Errorf("Attribute(data-missing) present=%v err=%v, want absent", present, err)
	}
	if href := attr(t, p, ".contact-card__link", "href"); href != "mailto:inquiry@example.com" {
		t.Errorf("first card link = %q", href)
	}

	visible, err := p.IsVisible(ctx, "#does-not-exist")
	if err != nil || visible {
		t.Errorf("IsVisible(missing) = %v, %v; want false, nil", visible, err)
	}
}

// Package pageobject exposes the generic element actions shared by every
// page-specific helper: wait, read, click, fill and visibility checks
// against a go-rod page.
package pageobject

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Actions is the capability set a page object offers to tests.
// Selectors are CSS selectors.
type Actions interface {
	// WaitVisible blocks until the element exists and is visible.
	// A non-positive timeout uses the page object's default.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) (*rod.Element, error)
	// Text returns the element's visible text, or "" when it has none.
	Text(ctx context.Context, selector string) (string, error)
	// Click clicks the element, forcing a DOM click once if the
	// pointer click is intercepted.
	Click(ctx context.Context, selector string) error
	// Fill replaces the value of an input or textarea.
	Fill(ctx context.Context, selector, value string) error
	// IsVisible reports whether the element exists and is visible, without waiting.
	IsVisible(ctx context.Context, selector string) (bool, error)
	// Count returns the number of elements matching selector, without waiting.
	Count(ctx context.Context, selector string) (int, error)
	// Attribute returns an attribute value and whether it is present.
	Attribute(ctx context.Context, selector, name string) (string, bool, error)
}

// Option configures a Base.
type Option func(*Base)

// WithTimeout sets the default wait for element lookups.
// Default: 30 seconds
func WithTimeout(d time.Duration) Option {
	return func(b *Base) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithClickTimeout bounds the pointer click before falling back to a forced click.
// Default: 5 seconds
func WithClickTimeout(d time.Duration) Option {
	return func(b *Base) {
		if d > 0 {
			b.clickTimeout = d
		}
	}
}

// WithLogger sets the logger used for fallback diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(b *Base) {
		if l != nil {
			b.log = l
		}
	}
}

// Base implements Actions on top of a single rod page.
type Base struct {
	page         *rod.Page
	timeout      time.Duration
	clickTimeout time.Duration
	log          *zap.Logger
}

var _ Actions = (*Base)(nil)

// New binds a page object to page.
func New(page *rod.Page, opts ...Option) *Base {
	b := &Base{
		page:         page,
		timeout:      30 * time.Second,
		clickTimeout: 5 * time.Second,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Page returns the underlying page.
func (b *Base) Page() *rod.Page {
	return b.page
}

// element waits up to timeout for selector to exist and returns it bound to ctx.
func (b *Base) element(ctx context.Context, selector string, timeout time.Duration) (*rod.Element, error) {
	if timeout <= 0 {
		timeout = b.timeout
	}
	p := b.page.Context(ctx).Timeout(timeout)
	el, err := p.Element(selector)
	if err != nil {
		p.CancelTimeout()
		return nil, err
	}
	return el.CancelTimeout(), nil
}

func (b *Base) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (*rod.Element, error) {
	if timeout <= 0 {
		timeout = b.timeout
	}
	el, err := b.element(ctx, selector, timeout)
	if err != nil {
		return nil, fmt.Errorf("wait for %q: %w", selector, err)
	}
	t := el.Timeout(timeout)
	err = t.WaitVisible()
	t.CancelTimeout()
	if err != nil {
		return nil, fmt.Errorf("wait for %q to be visible: %w", selector, err)
	}
	return el, nil
}

func (b *Base) Text(ctx context.Context, selector string) (string, error) {
	el, err := b.element(ctx, selector, 0)
	if err != nil {
		return "", fmt.Errorf("read text of %q: %w", selector, err)
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("read text of %q: %w", selector, err)
	}
	return text, nil
}

func (b *Base) Click(ctx context.Context, selector string) error {
	el, err := b.element(ctx, selector, 0)
	if err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}

	t := el.Timeout(b.clickTimeout)
	clickErr := t.Click(proto.InputMouseButtonLeft, 1)
	t.CancelTimeout()
	if clickErr == nil {
		return nil
	}

	b.log.Debug("Pointer click failed, forcing DOM click",
		zap.String("selector", selector), zap.Error(clickErr))
	if err := ForceClick(el); err != nil {
		return fmt.Errorf("click %q: %w", selector, errors.Join(clickErr, err))
	}
	return nil
}

// ForceClick dispatches a DOM click on el regardless of overlays or visibility.
func ForceClick(el *rod.Element) error {
	_, err := el.Eval(`() => this.click()`)
	return err
}

func (b *Base) Fill(ctx context.Context, selector, value string) error {
	el, err := b.WaitVisible(ctx, selector, 0)
	if err != nil {
		return fmt.Errorf("fill %q: %w", selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("fill %q: %w", selector, err)
	}
	if value == "" {
		if err := el.Type(input.Backspace); err != nil {
			return fmt.Errorf("fill %q: %w", selector, err)
		}
		return nil
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill %q: %w", selector, err)
	}
	return nil
}

func (b *Base) IsVisible(ctx context.Context, selector string) (bool, error) {
	has, el, err := b.page.Context(ctx).Has(selector)
	if err != nil {
		return false, fmt.Errorf("check visibility of %q: %w", selector, err)
	}
	if !has {
		return false, nil
	}
	visible, err := el.Visible()
	if err != nil {
		return false, fmt.Errorf("check visibility of %q: %w", selector, err)
	}
	return visible, nil
}

func (b *Base) Count(ctx context.Context, selector string) (int, error) {
	els, err := b.page.Context(ctx).Elements(selector)
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", selector, err)
	}
	return len(els), nil
}

func (b *Base) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	el, err := b.element(ctx, selector, 0)
	if err != nil {
		return "", false, fmt.Errorf("read %s of %q: %w", name, selector, err)
	}
	v, err := el.Attribute(name)
	if err != nil {
		return "", false, fmt.Errorf("read %s of %q: %w", name, selector, err)
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

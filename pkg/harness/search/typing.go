package search

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"

	"github.com/thesyncim/haloqa/pkg/harness/jitter"
)

// keyTyper sends a single character to the focused element.
type keyTyper interface {
	TypeRune(r rune) error
}

// pageTyper types printable ASCII as real key presses and inserts anything
// else as text, since the keyboard map only covers a US layout.
type pageTyper struct {
	page *rod.Page
}

func (t pageTyper) TypeRune(r rune) error {
	if r >= 0x20 && r < 0x7f {
		return t.page.Keyboard.Type(input.Key(r))
	}
	return t.page.InsertText(string(r))
}

// typeText sends text one character at a time, pausing after each one.
// The pause changes timing only; the characters sent are exactly text.
func typeText(ctx context.Context, t keyTyper, j jitter.Provider, delay jitter.Range, text string) error {
	for i, r := range text {
		if err := t.TypeRune(r); err != nil {
			return fmt.Errorf("type %q at offset %d of %q: %w", r, i, text, err)
		}
		if err := j.Pause(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}
